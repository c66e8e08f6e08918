package models

// Appointment is a confirmed booking on the business calendar.
type Appointment struct {
	ID          string `bson:"id" json:"id"`                   // "apt-<unix millis>", increasing within a process
	Date        string `bson:"date" json:"date"`               // "YYYY-MM-DD", used as an opaque day key
	StartTime   string `bson:"startTime" json:"startTime"`     // "HH:MM"
	DurationMin int    `bson:"durationMin" json:"durationMin"` // in minutes
	ClientName  string `bson:"clientName" json:"clientName"`
	ServiceID   string `bson:"serviceId" json:"serviceId"`     // soft reference into the catalog
	ServiceName string `bson:"serviceName" json:"serviceName"` // snapshot taken at booking time
	Paid        bool   `bson:"paid" json:"paid"`
}

// BookingRequest is what the booking gate accepts, from the HTTP surface or the assistant.
type BookingRequest struct {
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	DurationMin int    `json:"durationMin"`
	ClientName  string `json:"clientName"`
	ServiceID   string `json:"serviceId,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
}
