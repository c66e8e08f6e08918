package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Service catalog endpoints
	ListServices  gin.HandlerFunc
	CreateService gin.HandlerFunc
	UpdateService gin.HandlerFunc
	DeleteService gin.HandlerFunc

	// Appointment endpoints
	ListAppointments       gin.HandlerFunc
	ListAppointmentsByDate gin.HandlerFunc
	CreateAppointment      gin.HandlerFunc
	MarkAppointmentPaid    gin.HandlerFunc
	StreamAppointments     gin.HandlerFunc
	GetAvailability        gin.HandlerFunc

	// Assistant endpoints
	AssistantChat   gin.HandlerFunc
	AssistantStream gin.HandlerFunc
	AssistantStatus gin.HandlerFunc

	// Settings endpoints
	GetSettings             gin.HandlerFunc
	UpdateSettings          gin.HandlerFunc
	GetAssistantSettings    gin.HandlerFunc
	UpdateAssistantSettings gin.HandlerFunc

	// Revenue endpoints
	WeeklyRevenue gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the individual handlers.
func NewHandlerBundle(schedule *ScheduleHandler, feedHandler *FeedHandler, assistant *AssistantHandler, revenue *RevenueHandler) *HandlerBundle {
	return &HandlerBundle{
		ListServices:  schedule.ListServices,
		CreateService: schedule.CreateService,
		UpdateService: schedule.UpdateService,
		DeleteService: schedule.DeleteService,

		ListAppointments:       schedule.ListAppointments,
		ListAppointmentsByDate: schedule.ListAppointmentsByDate,
		CreateAppointment:      schedule.CreateAppointment,
		MarkAppointmentPaid:    schedule.MarkAppointmentPaid,
		StreamAppointments:     feedHandler.StreamAppointments,
		GetAvailability:        schedule.GetAvailability,

		AssistantChat:   assistant.Chat,
		AssistantStream: assistant.Stream,
		AssistantStatus: assistant.Status,

		GetSettings:             schedule.GetSettings,
		UpdateSettings:          schedule.UpdateSettings,
		GetAssistantSettings:    schedule.GetSettings,
		UpdateAssistantSettings: schedule.UpdateAssistantSettings,

		WeeklyRevenue: revenue.Weekly,
	}
}
