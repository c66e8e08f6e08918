package handlers

import (
	"net/http"
	"time"

	"agendapro/models"
	"agendapro/services/revenue"

	"github.com/gin-gonic/gin"
)

// RevenueSource yields the catalog and appointments read under one lock.
type RevenueSource interface {
	Snapshot() ([]models.Service, []models.Appointment)
}

// RevenueHandler serves the weekly revenue series.
type RevenueHandler struct {
	Source RevenueSource
	Now    func() time.Time
}

func NewRevenueHandler(source RevenueSource, now func() time.Time) *RevenueHandler {
	if now == nil {
		now = time.Now
	}
	return &RevenueHandler{Source: source, Now: now}
}

// Weekly handles GET /api/revenue/weekly.
func (h *RevenueHandler) Weekly(c *gin.Context) {
	services, appointments := h.Source.Snapshot()
	c.JSON(http.StatusOK, gin.H{"data": revenue.Weekly(h.Now(), services, appointments)})
}
