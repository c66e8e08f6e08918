package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"agendapro/models"
	ai "agendapro/services/intelligence"
	"agendapro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantService runs conversational turns.
type AssistantService interface {
	HasProvider() bool
	ProviderName() string
	Chat(ctx context.Context, in ai.TurnInput) (ai.TurnResult, error)
	ChatStream(ctx context.Context, in ai.TurnInput, onDelta func(string)) (ai.TurnResult, error)
}

// AssistantHandler serves the chat endpoints.
type AssistantHandler struct {
	Assistant AssistantService
}

func NewAssistantHandler(assistant AssistantService) *AssistantHandler {
	return &AssistantHandler{Assistant: assistant}
}

// Chat handles POST /api/assistant.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req models.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Warn("AssistantChat: invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, string(utils.KindValidation), err.Error())
		return
	}

	result, err := h.Assistant.Chat(c.Request.Context(), ai.TurnInput{
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AIResponse{
		Content:        result.Text,
		ConversationID: result.ConversationID,
		Booking:        result.Booking,
	})
}

// Stream handles GET /api/assistant/stream. Deltas go out as data events holding
// a JSON string, followed by cid and done; failures end the stream with an error
// event carrying the error code.
func (h *AssistantHandler) Stream(c *gin.Context) {
	logger := getLogger(c)
	message := strings.TrimSpace(c.Query("message"))

	setSSEHeaders(c)
	if message == "" {
		c.Status(http.StatusBadRequest)
		_ = writeEvent(c, "error", string(utils.KindValidation))
		return
	}
	if !h.Assistant.HasProvider() {
		_ = writeEvent(c, "error", string(utils.KindConfiguration))
		return
	}

	ctx := c.Request.Context()
	result, err := h.Assistant.ChatStream(ctx, ai.TurnInput{
		Message:        message,
		ConversationID: c.Query("conversationId"),
	}, func(delta string) {
		raw, _ := json.Marshal(delta)
		if err := writeEvent(c, "", string(raw)); err != nil {
			logger.Debug("AssistantStream: delta write failed", zap.Error(err))
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("AssistantStream: client went away", zap.Error(err))
			return
		}
		_ = writeEvent(c, "error", errorCode(err))
		return
	}

	if result.Fallback {
		_ = writeEvent(c, "fallback", gin.H{"content": result.Text})
	}
	_ = writeEvent(c, "cid", gin.H{"conversationId": result.ConversationID})
	_ = writeEvent(c, "done", gin.H{})
}

// Status handles GET /api/status.
func (h *AssistantHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hasKey":   h.Assistant.HasProvider(),
		"provider": h.Assistant.ProviderName(),
	})
}
