package api

import (
	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/errors"
	"github.com/hlra-health/profilesync/session"
)

var publicRoutes = []string{"/ready", "/metrics", "/v1/session"}

func NewServer(handler *Handler, healthCheck *HealthCheck, sess *session.Session, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	skipper := RouteSkipper(publicRoutes)

	e.Use(middleware.Recover())
	e.Use(echozap.ZapLogger(logger))
	e.Use(RequireSession(sess, skipper))
	e.Use(ExpireSessionOnAuthError(sess))

	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	RegisterHandlers(e, handler)

	return e
}

func RegisterHandlers(e *echo.Echo, h *Handler) {
	e.POST("/v1/session", h.Login)
	e.GET("/v1/session", h.GetSession)
	e.DELETE("/v1/session", h.Logout)

	e.GET("/v1/profiles", h.ListProfiles)
	e.POST("/v1/profiles", h.CreateProfile)
	e.GET("/v1/profiles/active", h.GetActiveProfile)
	e.POST("/v1/profiles/active", h.SetActiveProfile)
	e.GET("/v1/profiles/active/insights", h.GetHealthInsights)
	e.GET("/v1/profiles/active/permissions/:capability", h.CheckPermission)
	e.PUT("/v1/profiles/:profileId", h.UpdateProfile)
	e.DELETE("/v1/profiles/:profileId", h.DeleteProfile)

	e.GET("/v1/notifications", h.ListNotifications)
	e.POST("/v1/notifications", h.CreateNotification)
	e.GET("/v1/notifications/toasts", h.TakeToasts)
	e.POST("/v1/notifications/read", h.MarkAllNotificationsRead)
	e.POST("/v1/notifications/:notificationId/read", h.MarkNotificationRead)
	e.DELETE("/v1/notifications/:notificationId", h.DismissNotification)
}

// RequireSession rejects requests while nobody is signed in
func RequireSession(sess *session.Session, skipper middleware.Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			if skipper(ec) {
				return next(ec)
			}
			if _, err := sess.RequireUser(); err != nil {
				return err
			}
			return next(ec)
		}
	}
}

// ExpireSessionOnAuthError signs the user out when a request failed because the
// session can't be authenticated anymore
func ExpireSessionOnAuthError(sess *session.Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			err := next(ec)
			if err != nil {
				sess.HandleAuthError(err)
			}
			return err
		}
	}
}
