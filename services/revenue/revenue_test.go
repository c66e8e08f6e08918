package revenue

import (
	"testing"
	"time"

	"agendapro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	// 2025-03-13 is a Thursday
	thu := time.Date(2025, 3, 13, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), WeekStart(thu))

	sun := time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), WeekStart(sun))
}

func TestWeekly(t *testing.T) {
	services := []models.Service{
		{ID: "svc-a", Price: 60},
		{ID: "svc-b", Price: 40},
		{ID: "svc-c", Price: 0.1},
	}
	appointments := []models.Appointment{
		{Date: "2025-03-11", ServiceID: "svc-a", Paid: true},
		{Date: "2025-03-11", ServiceID: "svc-b"},
		{Date: "2025-03-12", ServiceID: "svc-c", Paid: true},
		{Date: "2025-03-12", ServiceID: "svc-c", Paid: true},
		{Date: "2025-03-12", ServiceID: "svc-c", Paid: true},
		{Date: "2025-03-13", ServiceID: "svc-deleted", Paid: true},
		{Date: "2025-03-17", ServiceID: "svc-a"}, // next week
	}

	points := Weekly(time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC), services, appointments)
	require.Len(t, points, 7)

	assert.Equal(t, "Seg", points[0].Name)
	assert.Equal(t, "2025-03-10", points[0].Date)
	assert.Zero(t, points[0].Forecast)
	assert.Nil(t, points[0].Realized)

	tue := points[1]
	assert.Equal(t, "Ter", tue.Name)
	assert.Equal(t, 100.0, tue.Forecast)
	require.NotNil(t, tue.Realized)
	assert.Equal(t, 60.0, *tue.Realized)

	wed := points[2]
	assert.Equal(t, 0.3, wed.Forecast, "sums are exact")
	require.NotNil(t, wed.Realized)
	assert.Equal(t, 0.3, *wed.Realized)

	assert.Zero(t, points[3].Forecast, "unknown service counts zero")
	assert.Nil(t, points[3].Realized)

	assert.Equal(t, "Dom", points[6].Name)
	assert.Equal(t, "2025-03-16", points[6].Date)
}
