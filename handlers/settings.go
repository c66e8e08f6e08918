package handlers

import (
	"net/http"

	"agendapro/services/settings"
	"agendapro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetSettings handles GET /api/settings and GET /api/assistant/settings.
func (h *ScheduleHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.Engine.Settings()})
}

// UpdateSettings handles PUT /api/settings: any object is deep-merged.
func (h *ScheduleHandler) UpdateSettings(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		getLogger(c).Warn("UpdateSettings: invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, string(utils.KindValidation), err.Error())
		return
	}
	h.applySettings(c, body)
}

// UpdateAssistantSettings handles PUT /api/assistant/settings: only the
// assistant keys with the expected types are applied.
func (h *ScheduleHandler) UpdateAssistantSettings(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		getLogger(c).Warn("UpdateAssistantSettings: invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, string(utils.KindValidation), err.Error())
		return
	}
	h.applySettings(c, settings.AssistantPatch(body))
}

func (h *ScheduleHandler) applySettings(c *gin.Context, patch settings.Document) {
	updated, err := h.Engine.UpdateSettings(patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": updated})
}
