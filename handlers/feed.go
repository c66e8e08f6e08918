package handlers

import (
	"io"

	"agendapro/services/feed"
	"agendapro/utils"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultFeedBuffer = 16

// FeedSource registers appointment feed observers.
type FeedSource interface {
	Subscribe(sink feed.Sink) (string, error)
	Unsubscribe(id string)
}

// FeedHandler streams the appointment list over SSE.
type FeedHandler struct {
	Feed   FeedSource
	Buffer int
}

func NewFeedHandler(source FeedSource) *FeedHandler {
	return &FeedHandler{Feed: source, Buffer: defaultFeedBuffer}
}

// StreamAppointments handles GET /api/appointments/stream. The current list is
// sent on connect and again after every change, as {"appointments": [...]}.
func (h *FeedHandler) StreamAppointments(c *gin.Context) {
	logger := getLogger(c)
	sink := feed.NewChannelSink(h.Buffer)
	id, err := h.Feed.Subscribe(sink)
	if err != nil {
		logger.Error("StreamAppointments: subscribe failed", zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	defer h.Feed.Unsubscribe(id)

	setSSEHeaders(c)
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot := <-sink.C():
			if err := sse.Encode(w, sse.Event{Data: gin.H{"appointments": snapshot}}); err != nil {
				logger.Debug("StreamAppointments: write failed", zap.Error(err))
				return false
			}
			return true
		case <-sink.Done():
			// dropped by the broadcaster, usually a stalled reader
			return false
		case <-ctx.Done():
			return false
		}
	})
}
