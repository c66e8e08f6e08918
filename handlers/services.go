package handlers

import (
	"net/http"

	"agendapro/models"
	"agendapro/services/settings"
	"agendapro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Scheduler is the booking engine surface used by the HTTP handlers.
type Scheduler interface {
	Services() []models.Service
	CreateService(in models.ServiceInput) (models.Service, error)
	UpdateService(id string, in models.ServiceInput) (models.Service, error)
	DeleteService(id string) error

	Appointments() []models.Appointment
	AppointmentsOn(date string) []models.Appointment
	Availability(date string, durationMin int) (models.Availability, error)
	Book(req models.BookingRequest) (models.Appointment, error)
	MarkPaid(id string) (models.Appointment, error)

	Settings() settings.Document
	UpdateSettings(patch settings.Document) (settings.Document, error)
}

// ScheduleHandler serves the catalog, appointment and settings endpoints.
type ScheduleHandler struct {
	Engine Scheduler
}

func NewScheduleHandler(engine Scheduler) *ScheduleHandler {
	return &ScheduleHandler{Engine: engine}
}

// ListServices handles GET /api/services.
func (h *ScheduleHandler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.Engine.Services()})
}

// CreateService handles POST /api/services.
func (h *ScheduleHandler) CreateService(c *gin.Context) {
	var in models.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		getLogger(c).Warn("CreateService: invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, string(utils.KindValidation), err.Error())
		return
	}

	svc, err := h.Engine.CreateService(in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": svc})
}

// UpdateService handles PUT /api/services/:id.
func (h *ScheduleHandler) UpdateService(c *gin.Context) {
	var in models.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		getLogger(c).Warn("UpdateService: invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, string(utils.KindValidation), err.Error())
		return
	}

	svc, err := h.Engine.UpdateService(c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc})
}

// DeleteService handles DELETE /api/services/:id.
func (h *ScheduleHandler) DeleteService(c *gin.Context) {
	if err := h.Engine.DeleteService(c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
