package api

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/notifications"
	"github.com/hlra-health/profilesync/profiles"
	"github.com/hlra-health/profilesync/session"
)

type Handler struct {
	profiles      profiles.Service
	session       *session.Session
	notifications *notifications.Inbox
	logger        *zap.SugaredLogger
	now           func() time.Time
}

type Params struct {
	fx.In

	Profiles      profiles.Service
	Session       *session.Session
	Notifications *notifications.Inbox
	Logger        *zap.SugaredLogger
	Clock         func() time.Time `optional:"true"`
}

func NewHandler(p Params) *Handler {
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	return &Handler{
		profiles:      p.Profiles,
		session:       p.Session,
		notifications: p.Notifications,
		logger:        p.Logger,
		now:           now,
	}
}
