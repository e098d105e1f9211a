package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// RequestID assigns each request an ID, echoes it back in the response, and
// attaches a request-scoped zerolog logger carrying it, so any handler that
// logs through the request context tags its lines with the ID.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.Set("request_id", requestID)

			logger := log.With().Str("request_id", requestID).Logger()
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

			return next(c)
		}
	}
}
