// Package revenue builds the weekly forecast versus realized revenue series.
package revenue

import (
	"time"

	"agendapro/models"

	"github.com/shopspring/decimal"
)

// DayLabels are the Monday-first weekday labels of the series.
var DayLabels = [7]string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

// WeekStart returns midnight of the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// Weekly returns one point per day of the Monday-Sunday week containing today.
// Forecast sums the price of every appointment of the day; Realized sums only
// paid ones and is nil when that sum is zero. Prices are looked up by service id
// in services; an unknown service counts as zero.
func Weekly(today time.Time, services []models.Service, appointments []models.Appointment) []models.RevenuePoint {
	prices := make(map[string]decimal.Decimal, len(services))
	for _, s := range services {
		prices[s.ID] = decimal.NewFromFloat(s.Price)
	}

	forecast := map[string]decimal.Decimal{}
	realized := map[string]decimal.Decimal{}
	for _, a := range appointments {
		price := prices[a.ServiceID]
		forecast[a.Date] = forecast[a.Date].Add(price)
		if a.Paid {
			realized[a.Date] = realized[a.Date].Add(price)
		}
	}

	start := WeekStart(today)
	points := make([]models.RevenuePoint, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		p := models.RevenuePoint{
			Name:     DayLabels[i],
			Date:     date,
			Forecast: forecast[date].InexactFloat64(),
		}
		if r := realized[date]; !r.IsZero() {
			v := r.InexactFloat64()
			p.Realized = &v
		}
		points = append(points, p)
	}
	return points
}
