package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hlra-health/profilesync/notifications"
	"github.com/hlra-health/profilesync/profiles"
)

type NotificationList struct {
	Notifications []notifications.Notification `json:"notifications"`
	Total         int                          `json:"total"`
	UnreadCount   int                          `json:"unreadCount"`
	HasCritical   bool                         `json:"hasCritical"`
}

type MarkedRead struct {
	Count int `json:"count"`
}

type CreatedNotification struct {
	Accepted     bool                        `json:"accepted"`
	Notification *notifications.Notification `json:"notification,omitempty"`
}

type ToastList struct {
	Toasts []notifications.Notification `json:"toasts"`
}

func (h *Handler) ListNotifications(ec echo.Context) error {
	filter := notifications.Filter{}
	if profileId := ec.QueryParam("profileId"); profileId != "" {
		filter.ProfileId = &profileId
	}
	if unreadOnly := ec.QueryParam("unreadOnly"); unreadOnly != "" {
		value, err := strconv.ParseBool(unreadOnly)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadOnly must be a boolean")
		}
		filter.UnreadOnly = value
	}

	list := h.notifications.List(filter)
	result := NotificationList{
		Notifications: list,
		Total:         len(list),
		UnreadCount:   h.notifications.UnreadCount(filter.ProfileId),
	}
	for _, n := range list {
		if n.Priority == notifications.PriorityCritical || n.Priority == notifications.PriorityHigh {
			result.HasCritical = true
			break
		}
	}
	return ec.JSON(http.StatusOK, result)
}

func (h *Handler) MarkNotificationRead(ec echo.Context) error {
	if err := h.notifications.MarkRead(ec.Param("notificationId")); err != nil {
		return err
	}
	return ec.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkAllNotificationsRead(ec echo.Context) error {
	var profileId *string
	if value := ec.QueryParam("profileId"); value != "" {
		profileId = &value
	}
	return ec.JSON(http.StatusOK, MarkedRead{Count: h.notifications.MarkAllRead(profileId)})
}

func (h *Handler) DismissNotification(ec echo.Context) error {
	if err := h.notifications.Dismiss(ec.Param("notificationId")); err != nil {
		return err
	}
	return ec.NoContent(http.StatusNoContent)
}

// CreateNotification raises a notification for a profile of the signed in user. A duplicate
// of a recent notification is not an error, the response reports it as not accepted.
func (h *Handler) CreateNotification(ec echo.Context) error {
	user, err := h.session.RequireUser()
	if err != nil {
		return err
	}
	request := notifications.Request{}
	if err := ec.Bind(&request); err != nil {
		return err
	}

	n, err := request.Build(user.Id, h.now())
	if err != nil {
		return err
	}
	if _, ok := findProfile(h.profiles.GetProfiles(), request.ProfileId); !ok {
		return fmt.Errorf("%w: %s", profiles.ErrNotFound, request.ProfileId)
	}

	n, accepted := h.notifications.Add(n)
	if !accepted {
		h.logger.Infow("notification not accepted", "type", n.Type, "profileId", request.ProfileId)
		return ec.JSON(http.StatusOK, CreatedNotification{Accepted: false})
	}
	return ec.JSON(http.StatusCreated, CreatedNotification{Accepted: true, Notification: &n})
}

func (h *Handler) TakeToasts(ec echo.Context) error {
	return ec.JSON(http.StatusOK, ToastList{Toasts: h.notifications.TakeToasts()})
}
