package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"agendapro/models"
	"agendapro/services/booking"
	"agendapro/services/feed"
	ai "agendapro/services/intelligence"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const monday = "2025-06-02"

type fakeProvider struct {
	reply     string
	deltas    []string
	streamErr error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(context.Context, []models.ChatMessage) (string, error) {
	return f.reply, nil
}

func (f *fakeProvider) Stream(_ context.Context, _ []models.ChatMessage, onDelta func(string)) (string, error) {
	var acc strings.Builder
	for _, d := range f.deltas {
		acc.WriteString(d)
		onDelta(d)
	}
	return acc.String(), f.streamErr
}

type testServer struct {
	router      *gin.Engine
	engine      *booking.Engine
	broadcaster *feed.Broadcaster
}

func newTestServer(t *testing.T, provider ai.Provider) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	broadcaster := feed.NewBroadcaster()
	clock := func() time.Time { return time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC) }
	engine := booking.NewEngine(booking.State{}, nil, broadcaster, booking.WithClock(clock))
	assistant := ai.NewAssistant(provider, engine, ai.NewContextStore(), ai.Config{TurnTimeout: 2 * time.Second})

	hb := NewHandlerBundle(
		NewScheduleHandler(engine),
		NewFeedHandler(broadcaster),
		NewAssistantHandler(assistant),
		NewRevenueHandler(engine, clock),
	)

	r := gin.New()
	r.GET("/api/services", hb.ListServices)
	r.POST("/api/services", hb.CreateService)
	r.PUT("/api/services/:id", hb.UpdateService)
	r.DELETE("/api/services/:id", hb.DeleteService)
	r.GET("/api/appointments", hb.ListAppointments)
	r.GET("/api/appointments/stream", hb.StreamAppointments)
	r.GET("/api/appointments/:date", hb.ListAppointmentsByDate)
	r.POST("/api/appointments", hb.CreateAppointment)
	r.PUT("/api/appointments/:id/pay", hb.MarkAppointmentPaid)
	r.GET("/api/availability", hb.GetAvailability)
	r.POST("/api/assistant", hb.AssistantChat)
	r.GET("/api/assistant/stream", hb.AssistantStream)
	r.GET("/api/assistant/settings", hb.GetAssistantSettings)
	r.PUT("/api/assistant/settings", hb.UpdateAssistantSettings)
	r.GET("/api/status", hb.AssistantStatus)
	r.GET("/api/settings", hb.GetSettings)
	r.PUT("/api/settings", hb.UpdateSettings)
	r.GET("/api/revenue/weekly", hb.WeeklyRevenue)

	return &testServer{router: r, engine: engine, broadcaster: broadcaster}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestServiceCatalogEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/services", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["services"], 3)

	w = s.do(http.MethodPost, "/api/services", `{"price": 10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/api/services", `{"name": "Escova"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)["service"].(map[string]any)
	assert.Equal(t, "Escova", created["name"])
	assert.EqualValues(t, 0, created["price"])
	assert.EqualValues(t, 30, created["durationMin"])

	w = s.do(http.MethodPut, "/api/services/"+created["id"].(string), `{"price": 55.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 55.5, decode(t, w)["service"].(map[string]any)["price"])

	w = s.do(http.MethodPut, "/api/services/svc-missing", `{"price": 1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["error"])

	w = s.do(http.MethodDelete, "/api/services/svc-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, "/api/services/svc-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointmentEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"date":"` + monday + `","startTime":"10:00","durationMin":30,"clientName":"Ana","serviceId":"svc-2"}`

	w := s.do(http.MethodPost, "/api/appointments", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	apt := decode(t, w)["appointment"].(map[string]any)
	assert.Equal(t, "Barba", apt["serviceName"])

	w = s.do(http.MethodPost, "/api/appointments", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode(t, w)["error"])

	sunday := strings.Replace(body, monday, "2025-06-01", 1)
	w = s.do(http.MethodPost, "/api/appointments", sunday)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "outside_hours", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/api/appointments", `{"date":"`+monday+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/api/appointments/"+monday, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["appointments"], 1)

	w = s.do(http.MethodGet, "/api/appointments/2025-06-03", "")
	assert.Len(t, decode(t, w)["appointments"], 0)

	w = s.do(http.MethodPut, "/api/appointments/"+apt["id"].(string)+"/pay", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["appointment"].(map[string]any)["paid"])

	w = s.do(http.MethodPut, "/api/appointments/apt-0/pay", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	_, err := s.engine.Book(models.BookingRequest{
		Date: monday, StartTime: "10:00", DurationMin: 30, ClientName: "Ana", ServiceID: "svc-2",
	})
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/api/availability?date="+monday, "")
	require.Equal(t, http.StatusOK, w.Code)
	var av models.Availability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &av))
	assert.False(t, av.Closed)
	// 45 minutes by default: 09:30 runs into the 10:00 booking, 09:15 ends as it starts
	assert.Contains(t, av.Occupied, "09:30")
	assert.Contains(t, av.Free, "09:15")
	assert.Contains(t, av.Free, "10:30")

	w = s.do(http.MethodGet, "/api/availability?date=2025-06-01&durationMin=30", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["closed"])

	w = s.do(http.MethodGet, "/api/availability", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/availability?date="+monday+"&durationMin=9223372036854775707", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingRejectsHugeDuration(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"date":"` + monday + `","startTime":"23:00","durationMin":9223372036854775707,"clientName":"Ana","serviceId":"svc-1"}`

	w := s.do(http.MethodPost, "/api/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"])
	assert.Empty(t, s.engine.Appointments())
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPut, "/api/assistant/settings", `{"tone":"Amigável","hours":[],"assistantTheme":{"presetIndex":2}}`)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, "Amigável", doc["tone"])
	assert.Len(t, doc["hours"], 7, "hours are not an assistant key")
	theme := doc["assistantTheme"].(map[string]any)
	assert.EqualValues(t, 2, theme["presetIndex"])
	assert.Equal(t, true, theme["showHeader"])

	w = s.do(http.MethodPut, "/api/settings", `{"autoBooking": false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["settings"].(map[string]any)["autoBooking"])

	w = s.do(http.MethodPut, "/api/settings", `{"autoBooking": "maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/settings", "")
	doc = decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, "Amigável", doc["tone"])
	assert.Len(t, doc["hours"], 7)
}

func TestWeeklyRevenueEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	apt, err := s.engine.Book(models.BookingRequest{
		Date: monday, StartTime: "10:00", DurationMin: 45, ClientName: "Ana", ServiceID: "svc-1",
	})
	require.NoError(t, err)
	_, err = s.engine.Book(models.BookingRequest{
		Date: monday, StartTime: "11:00", DurationMin: 30, ClientName: "Bia", ServiceID: "svc-2",
	})
	require.NoError(t, err)
	_, err = s.engine.MarkPaid(apt.ID)
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/api/revenue/weekly", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []models.RevenuePoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 7)
	assert.Equal(t, "Seg", body.Data[0].Name)
	assert.Equal(t, 100.0, body.Data[0].Forecast)
	require.NotNil(t, body.Data[0].Realized)
	assert.Equal(t, 60.0, *body.Data[0].Realized)
	assert.Nil(t, body.Data[1].Realized)
}

func TestAssistantChatEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeProvider{reply: "Claro!"})

	w := s.do(http.MethodPost, "/api/assistant", `{"message":"Oi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Claro!", resp.Content)
	assert.True(t, strings.HasPrefix(resp.ConversationID, "c-"))
	assert.Nil(t, resp.Booking)

	w = s.do(http.MethodPost, "/api/assistant", `{"message":"Confirmar Barba em `+monday+` 14:00 para Carla"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "Carla", resp.Booking.ClientName)
	assert.Len(t, s.engine.AppointmentsOn(monday), 1)

	w = s.do(http.MethodPost, "/api/assistant", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"])
}

func TestAssistantWithoutProvider(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/api/assistant", `{"message":"Oi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "missing_api_key", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["hasKey"])

	w = s.do(http.MethodGet, "/api/assistant/stream?message=Oi", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "event:error\ndata:missing_api_key\n\n")
}

func TestAssistantStreamEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeProvider{deltas: []string{"Ola", ", tudo bem?"}})

	w := s.do(http.MethodGet, "/api/assistant/stream?message="+url.QueryEscape("Oi"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	out := w.Body.String()
	assert.Contains(t, out, "data:\"Ola\"\n\n")
	assert.Contains(t, out, "data:\", tudo bem?\"\n\n")
	assert.Contains(t, out, "event:cid\ndata:{\"conversationId\":\"c-")
	assert.True(t, strings.HasSuffix(out, "event:done\ndata:{}\n\n"), out)
	assert.NotContains(t, out, "event:fallback")

	w = s.do(http.MethodGet, "/api/assistant/stream", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "event:error\ndata:invalid_request\n\n")

	w = s.do(http.MethodGet, "/api/status", "")
	assert.Equal(t, true, decode(t, w)["hasKey"])
	assert.Equal(t, "fake", decode(t, w)["provider"])
}

func TestAssistantStreamFallback(t *testing.T) {
	provider := &fakeProvider{reply: "Resposta completa", streamErr: assert.AnError}
	s := newTestServer(t, provider)

	w := s.do(http.MethodGet, "/api/assistant/stream?message=Oi", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	assert.Contains(t, out, "event:fallback\ndata:{\"content\":\"Resposta completa\"}\n\n")
	assert.Contains(t, out, "event:done")
}

func readDataLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}

func TestAppointmentFeedStream(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/appointments/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	// snapshot on connect
	var payload struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal([]byte(readDataLine(t, reader)), &payload))
	assert.Empty(t, payload.Appointments)

	apt, err := s.engine.Book(models.BookingRequest{
		Date: monday, StartTime: "09:00", DurationMin: 30, ClientName: "Ana", ServiceID: "svc-2",
	})
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal([]byte(readDataLine(t, reader)), &payload))
	require.Len(t, payload.Appointments, 1)
	assert.Equal(t, apt.ID, payload.Appointments[0].ID)

	cancel()
	assert.Eventually(t, func() bool { return s.broadcaster.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
