package handlers

import (
	"errors"

	"agendapro/utils"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

func setSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}

// writeEvent encodes one event and flushes it. Strings are written as-is,
// anything else as JSON. An empty name produces a plain data event.
func writeEvent(c *gin.Context, name string, data any) error {
	if err := sse.Encode(c.Writer, sse.Event{Event: name, Data: data}); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

// errorCode returns the wire code of err.
func errorCode(err error) string {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Kind)
	}
	return string(utils.KindProvider)
}
