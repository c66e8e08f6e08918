package booking

import (
	"math"
	"sync"
	"testing"
	"time"

	"agendapro/models"
	"agendapro/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu           sync.Mutex
	services     [][]models.Service
	appointments [][]models.Appointment
	settings     []map[string]any
}

func (p *recordingPersister) SaveServices(s []models.Service) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.services = append(p.services, s)
}

func (p *recordingPersister) SaveAppointments(a []models.Appointment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appointments = append(p.appointments, a)
}

func (p *recordingPersister) SaveSettings(doc map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = append(p.settings, doc)
}

type recordingPublisher struct {
	mu        sync.Mutex
	snapshots [][]models.Appointment
}

func (p *recordingPublisher) Publish(a []models.Appointment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, a)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

func openWeek() map[string]any {
	week := make([]any, 7)
	for i := range week {
		week[i] = map[string]any{"open": true, "start": "09:00", "end": "18:00"}
	}
	return map[string]any{"hours": week, "autoBooking": true}
}

func newTestEngine(t *testing.T, appointments ...models.Appointment) (*Engine, *recordingPersister, *recordingPublisher) {
	t.Helper()
	p := &recordingPersister{}
	pub := &recordingPublisher{}
	fixed := time.UnixMilli(1_700_000_000_000)
	e := NewEngine(State{
		Services:     models.DefaultServices(),
		Appointments: appointments,
		Settings:     openWeek(),
	}, p, pub, WithClock(func() time.Time { return fixed }))
	return e, p, pub
}

func TestBookCreatesAppointment(t *testing.T) {
	e, p, pub := newTestEngine(t)
	initial := pub.count()

	apt, err := e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "9:30", DurationMin: 30,
		ClientName: "Ana", ServiceID: "svc-2",
	})
	require.NoError(t, err)

	assert.Equal(t, "09:30", apt.StartTime, "time is normalised")
	assert.Equal(t, "Barba", apt.ServiceName)
	assert.Equal(t, "apt-1700000000000", apt.ID)
	assert.False(t, apt.Paid)
	assert.Len(t, e.Appointments(), 1)
	assert.Equal(t, initial+1, pub.count())
	require.Len(t, p.appointments, 1)
	assert.Equal(t, apt, p.appointments[0][0])
}

func TestBookOutsideHours(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "08:45", DurationMin: 30,
		ClientName: "Ana", ServiceID: "svc-2",
	})
	assert.True(t, utils.IsKind(err, utils.KindOutsideHours))

	_, err = e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "17:45", DurationMin: 30,
		ClientName: "Ana", ServiceID: "svc-2",
	})
	assert.True(t, utils.IsKind(err, utils.KindOutsideHours), "must end by closing time")
	assert.Empty(t, e.Appointments())
}

func TestBookClosedDay(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.UpdateSettings(map[string]any{"hours": []any{
		map[string]any{"open": false}, map[string]any{"open": true}, map[string]any{"open": true},
		map[string]any{"open": true}, map[string]any{"open": true}, map[string]any{"open": true},
		map[string]any{"open": false},
	}})
	require.NoError(t, err)

	_, err = e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "10:00", DurationMin: 30,
		ClientName: "Ana", ServiceID: "svc-2",
	})
	assert.True(t, utils.IsKind(err, utils.KindOutsideHours))
}

func TestBookConflict(t *testing.T) {
	e, _, pub := newTestEngine(t, models.Appointment{
		ID: "apt-1", Date: "2025-03-10", StartTime: "10:00", DurationMin: 30, ClientName: "Bia",
	})
	before := pub.count()

	_, err := e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "10:00", DurationMin: 30,
		ClientName: "Ana", ServiceID: "svc-2",
	})
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Equal(t, before, pub.count(), "rejected bookings publish nothing")

	_, err = e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "10:30", DurationMin: 30,
		ClientName: "Ana", ServiceID: "svc-2",
	})
	assert.NoError(t, err, "adjacent slot is free")
}

func TestBookValidation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	valid := models.BookingRequest{
		Date: "2025-03-10", StartTime: "10:00", DurationMin: 30, ClientName: "Ana", ServiceName: "corte",
	}
	tests := []struct {
		name   string
		mutate func(r *models.BookingRequest)
	}{
		{"missing date", func(r *models.BookingRequest) { r.Date = "" }},
		{"bad date", func(r *models.BookingRequest) { r.Date = "10/03/2025" }},
		{"missing time", func(r *models.BookingRequest) { r.StartTime = "" }},
		{"bad time", func(r *models.BookingRequest) { r.StartTime = "25:00" }},
		{"zero duration", func(r *models.BookingRequest) { r.DurationMin = 0 }},
		{"duration past one day", func(r *models.BookingRequest) { r.DurationMin = MaxDurationMin + 1 }},
		{"duration near int max", func(r *models.BookingRequest) { r.DurationMin = math.MaxInt - 100 }},
		{"blank client", func(r *models.BookingRequest) { r.ClientName = "  " }},
		{"no service", func(r *models.BookingRequest) { r.ServiceName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := e.Book(req)
			assert.True(t, utils.IsKind(err, utils.KindValidation), "got %v", err)
		})
	}
}

func TestBookResolvesServiceByName(t *testing.T) {
	e, _, _ := newTestEngine(t)

	apt, err := e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "11:00", DurationMin: 45, ClientName: "Ana", ServiceName: "CORTE",
	})
	require.NoError(t, err)
	assert.Equal(t, "svc-1", apt.ServiceID)
	assert.Equal(t, "Corte de Cabelo", apt.ServiceName)

	apt, err = e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "14:00", DurationMin: 30, ClientName: "Ana", ServiceName: "Massagem",
	})
	require.NoError(t, err)
	assert.Equal(t, "", apt.ServiceID, "unresolved service keeps the supplied reference")
	assert.Equal(t, "Massagem", apt.ServiceName)
}

func TestAppointmentIDsIncrease(t *testing.T) {
	e, _, _ := newTestEngine(t, models.Appointment{
		ID: "apt-1700000000005", Date: "2025-03-11", StartTime: "09:00", DurationMin: 30,
	})

	a, err := e.Book(models.BookingRequest{Date: "2025-03-10", StartTime: "09:00", DurationMin: 30, ClientName: "A", ServiceID: "svc-1"})
	require.NoError(t, err)
	b, err := e.Book(models.BookingRequest{Date: "2025-03-10", StartTime: "10:00", DurationMin: 30, ClientName: "B", ServiceID: "svc-1"})
	require.NoError(t, err)

	assert.Equal(t, "apt-1700000000006", a.ID)
	assert.Equal(t, "apt-1700000000007", b.ID)
}

func TestConcurrentBookingsOfSameSlot(t *testing.T) {
	e, _, _ := newTestEngine(t)

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Book(models.BookingRequest{
				Date: "2025-03-10", StartTime: "10:00", DurationMin: 30,
				ClientName: "Ana", ServiceID: "svc-2",
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if utils.IsKind(err, utils.KindConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, e.AppointmentsOn("2025-03-10"), 1)
}

func TestNoOverlapAfterManyBookings(t *testing.T) {
	e, _, _ := newTestEngine(t)
	starts := []string{"09:00", "09:15", "09:30", "10:00", "10:10", "11:00", "11:45", "12:00"}
	for _, s := range starts {
		_, _ = e.Book(models.BookingRequest{Date: "2025-03-10", StartTime: s, DurationMin: 45, ClientName: "X", ServiceID: "svc-1"})
	}

	day := e.AppointmentsOn("2025-03-10")
	require.NotEmpty(t, day)
	for i := range day {
		for j := i + 1; j < len(day); j++ {
			as, _ := ToMinutes(day[i].StartTime)
			bs, _ := ToMinutes(day[j].StartTime)
			assert.False(t, Overlaps(as, as+day[i].DurationMin, bs, bs+day[j].DurationMin),
				"%s overlaps %s", day[i].StartTime, day[j].StartTime)
		}
	}
}

func TestMarkPaid(t *testing.T) {
	e, p, pub := newTestEngine(t, models.Appointment{
		ID: "apt-1", Date: "2025-03-10", StartTime: "10:00", DurationMin: 30,
	})
	before := pub.count()

	apt, err := e.MarkPaid("apt-1")
	require.NoError(t, err)
	assert.True(t, apt.Paid)
	assert.True(t, e.Appointments()[0].Paid)
	assert.Equal(t, before+1, pub.count())
	require.Len(t, p.appointments, 1)

	_, err = e.MarkPaid("apt-missing")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestEngineAvailability(t *testing.T) {
	e, _, _ := newTestEngine(t, models.Appointment{
		ID: "apt-1", Date: "2025-03-10", StartTime: "10:00", DurationMin: 30,
	})

	av, err := e.Availability("2025-03-10", 30)
	require.NoError(t, err)
	assert.Contains(t, av.Occupied, "10:00")
	assert.Contains(t, av.Free, "10:30")

	_, err = e.Availability("2025-03-10", 0)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = e.Availability("", 30)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = e.Availability("2025-03-10", math.MaxInt-100)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestBookHugeDurationLeavesNothingBehind(t *testing.T) {
	e, p, _ := newTestEngine(t)

	_, err := e.Book(models.BookingRequest{
		Date: "2025-03-10", StartTime: "23:00", DurationMin: math.MaxInt - 100,
		ClientName: "Ana", ServiceID: "svc-1",
	})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Empty(t, e.Appointments())
	assert.Empty(t, p.appointments)
}

func TestNewEngineSeedsDefaults(t *testing.T) {
	p := &recordingPersister{}
	e := NewEngine(State{}, p, nil)

	assert.Len(t, e.Services(), 3)
	assert.Equal(t, "Assistente AgendaPro", e.TypedSettings().AssistantName)
	assert.Len(t, p.services, 1)
	assert.Len(t, p.settings, 1)
}

func TestUpdateSettingsRejectsBadTypes(t *testing.T) {
	e, p, _ := newTestEngine(t)

	_, err := e.UpdateSettings(map[string]any{"hours": "always"})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Empty(t, p.settings)

	doc, err := e.UpdateSettings(map[string]any{"tone": "Casual"})
	require.NoError(t, err)
	assert.Equal(t, "Casual", doc["tone"])
	assert.Equal(t, "Casual", e.TypedSettings().Tone)
	assert.Len(t, p.settings, 1)
}
