package models

// Availability is the slot classification of one date for a given duration.
type Availability struct {
	Free     []string `json:"free"`     // "HH:MM" slot starts with no conflict
	Occupied []string `json:"occupied"` // "HH:MM" slot starts overlapping a booking
	Closed   bool     `json:"closed"`
}
