// File: models/records.go
package models

// RevenuePoint is one day of the weekly revenue series.
type RevenuePoint struct {
	Name     string   `json:"name"`     // weekday label, "Seg" .. "Dom"
	Date     string   `json:"date"`     // "YYYY-MM-DD"
	Forecast float64  `json:"previsao"` // all bookings of the day
	Realized *float64 `json:"real"`     // paid bookings only; nil when nothing was paid
}
