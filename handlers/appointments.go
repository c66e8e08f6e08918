package handlers

import (
	"net/http"
	"strconv"

	"agendapro/models"
	"agendapro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultAvailabilityDuration = 45

// ListAppointments handles GET /api/appointments.
func (h *ScheduleHandler) ListAppointments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"appointments": h.Engine.Appointments()})
}

// ListAppointmentsByDate handles GET /api/appointments/:date.
func (h *ScheduleHandler) ListAppointmentsByDate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"appointments": h.Engine.AppointmentsOn(c.Param("date"))})
}

// CreateAppointment handles POST /api/appointments.
func (h *ScheduleHandler) CreateAppointment(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Warn("CreateAppointment: invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, string(utils.KindValidation), err.Error())
		return
	}

	apt, err := h.Engine.Book(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": apt})
}

// MarkAppointmentPaid handles PUT /api/appointments/:id/pay.
func (h *ScheduleHandler) MarkAppointmentPaid(c *gin.Context) {
	apt, err := h.Engine.MarkPaid(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": apt})
}

// GetAvailability handles GET /api/availability?date=&durationMin=.
// A missing or unparsable duration means 45 minutes.
func (h *ScheduleHandler) GetAvailability(c *gin.Context) {
	duration := defaultAvailabilityDuration
	if raw := c.Query("durationMin"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			duration = n
		}
	}

	av, err := h.Engine.Availability(c.Query("date"), duration)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}
