package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"concrete-reservation/types"
)

// RequestLogSink receives one entry per handled request. Satisfied by
// logger.AsyncLogger.
type RequestLogSink interface {
	Log(entry types.LogEntry)
}

// RequestLogger pushes a log entry for every handled request into the
// sink once the handler chain has finished.
func RequestLogger(sink RequestLogSink) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		sink.Log(types.LogEntry{
			Method:          c.Method(),
			URL:             c.OriginalURL(),
			RequestBody:     string(c.Body()),
			ResponseBody:    string(c.Response().Body()),
			RequestHeaders:  string(c.Request().Header.Header()),
			ResponseHeaders: string(c.Response().Header.Header()),
			StatusCode:      c.Response().StatusCode(),
			CreatedAt:       time.Now(),
		})

		return err
	}
}
