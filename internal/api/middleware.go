package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/VictorDENSC/CaisseNoire/internal/auth"
	"github.com/VictorDENSC/CaisseNoire/internal/service"
	"github.com/VictorDENSC/CaisseNoire/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

// TeamAdminMiddleware requires a bearer token issued for the team named in
// the :team_id path segment.
func TeamAdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			teamID, err := uuid.Parse(c.Param("team_id"))
			if err != nil {
				return c.JSON(http.StatusNotFound, map[string]*service.Error{
					"error": service.NewError(service.ErrorCodeNotFound, "Not found"),
				})
			}

			token := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if token == "" || !auth.IsValidTokenFor(token, teamID) {
				return c.JSON(http.StatusUnauthorized, map[string]*service.Error{
					"error": service.NewError(service.ErrorCodeUnauthorized, "missing or wrong admin token"),
				})
			}

			return next(c)
		}
	}
}
