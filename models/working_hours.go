package models

// WorkingDay is the opening window of one weekday.
type WorkingDay struct {
	Open  bool   `json:"open" mapstructure:"open"`
	Start string `json:"start" mapstructure:"start"` // "HH:MM"
	End   string `json:"end" mapstructure:"end"`     // "HH:MM"
}

// WorkingHours is indexed Monday-first: 0 is Monday, 6 is Sunday.
type WorkingHours []WorkingDay
