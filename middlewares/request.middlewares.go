package middlewares

import (
	"SOCIAL_server/global"
	"context"
	"time"

	"github.com/aidarkhanov/nanoid/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// VALID_NANOID_CHAR is the alphabet of request ids
const VALID_NANOID_CHAR = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RequestLogger tags every request with an id and logs its outcome on the monitor logger
func RequestLogger(c *fiber.Ctx) error {

	start := time.Now()

	requestID, err := nanoid.GenerateString(VALID_NANOID_CHAR, 12)
	if err != nil {
		requestID = "unknown"
	}
	c.Locals("requestid", requestID)
	c.Set("X-Request-ID", requestID)

	err = c.Next()

	status := c.Response().StatusCode()
	if fiberErr, ok := err.(*fiber.Error); ok {
		status = fiberErr.Code
	}

	global.MonitorLogger.WithFields(logrus.Fields{
		"requestid": requestID,
		"method":    c.Method(),
		"path":      c.Path(),
		"status":    status,
		"latency":   time.Since(start).String(),
	}).Info("request")

	return err
}

// Timeout bounds the store calls of a request on top of the fasthttp request context,
// handlers read it through RequestContext
func Timeout(timeout time.Duration) fiber.Handler {
	if timeout <= 0 {
		timeout = global.DefaultStoreTimeout
	}
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		defer cancel()
		c.Locals("ctx", ctx)
		return c.Next()
	}
}

// RequestContext returns the request scoped context set by Timeout
func RequestContext(c *fiber.Ctx) context.Context {
	if ctx, ok := c.Locals("ctx").(context.Context); ok {
		return ctx
	}
	return c.Context()
}
