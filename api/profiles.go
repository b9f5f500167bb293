package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hlra-health/profilesync/errors"
	"github.com/hlra-health/profilesync/notifications"
	"github.com/hlra-health/profilesync/profiles"
)

type ProfileList struct {
	Profiles        []profiles.Profile `json:"profiles"`
	Total           int                `json:"total"`
	ActiveProfileId *string            `json:"activeProfileId,omitempty"`
}

type SetActiveProfile struct {
	ProfileId string `json:"profileId"`
}

type PermissionCheck struct {
	Capability string `json:"capability"`
	Granted    bool   `json:"granted"`
}

func (h *Handler) ListProfiles(ec echo.Context) error {
	list := h.profiles.GetProfiles()
	result := ProfileList{
		Profiles: list,
		Total:    len(list),
	}
	if active := h.profiles.GetActiveProfile(); active != nil {
		result.ActiveProfileId = &active.Id
	}
	return ec.JSON(http.StatusOK, result)
}

func (h *Handler) GetActiveProfile(ec echo.Context) error {
	active := h.profiles.GetActiveProfile()
	if active == nil {
		return fmt.Errorf("active %w", profiles.ErrNotFound)
	}
	return ec.JSON(http.StatusOK, active)
}

func (h *Handler) SetActiveProfile(ec echo.Context) error {
	ctx := ec.Request().Context()
	dto := SetActiveProfile{}
	if err := ec.Bind(&dto); err != nil {
		return err
	}
	if dto.ProfileId == "" {
		return fmt.Errorf("%w: profileId is required", errors.BadRequest)
	}

	profile, err := h.profiles.SwitchProfile(ctx, dto.ProfileId)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, profile)
}

func (h *Handler) CreateProfile(ec echo.Context) error {
	ctx := ec.Request().Context()
	dto := profiles.Create{}
	if err := ec.Bind(&dto); err != nil {
		return err
	}

	profile, err := h.profiles.CreateProfile(ctx, dto)
	if err != nil {
		return err
	}
	h.announceProfileChange(profile.Id, profile.Name, "created")
	return ec.JSON(http.StatusCreated, profile)
}

func (h *Handler) UpdateProfile(ec echo.Context) error {
	ctx := ec.Request().Context()
	dto := profiles.Update{}
	if err := ec.Bind(&dto); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateProfile(ctx, ec.Param("profileId"), dto)
	if err != nil {
		return err
	}
	h.announceProfileChange(profile.Id, profile.Name, "updated")
	return ec.JSON(http.StatusOK, profile)
}

func (h *Handler) DeleteProfile(ec echo.Context) error {
	ctx := ec.Request().Context()
	profileId := ec.Param("profileId")
	name := profileId
	if profile, ok := findProfile(h.profiles.GetProfiles(), profileId); ok {
		name = profile.Name
	}

	if err := h.profiles.DeleteProfile(ctx, profileId); err != nil {
		return err
	}
	h.announceProfileChange(profileId, name, "deleted")
	return ec.NoContent(http.StatusNoContent)
}

func (h *Handler) GetHealthInsights(ec echo.Context) error {
	insights := h.profiles.GetHealthInsights()
	if insights == nil {
		return fmt.Errorf("active %w", profiles.ErrNotFound)
	}
	return ec.JSON(http.StatusOK, insights)
}

func (h *Handler) CheckPermission(ec echo.Context) error {
	capability := ec.Param("capability")
	return ec.JSON(http.StatusOK, PermissionCheck{
		Capability: capability,
		Granted:    h.profiles.HasPermission(capability),
	})
}

// announceProfileChange shows a toast about a change to a profile of the signed in user
func (h *Handler) announceProfileChange(profileId string, name string, change string) {
	user := h.session.User()
	if user == nil {
		return
	}
	n, accepted := h.notifications.Add(notifications.NewProfileUpdate(user.Id, profileId, name, change, h.now()))
	h.logger.Debugw("profile change announced", "profileId", profileId, "change", change, "notificationId", n.Id, "accepted", accepted)
}

func findProfile(list []profiles.Profile, profileId string) (profiles.Profile, bool) {
	for _, profile := range list {
		if profile.Id == profileId {
			return profile, true
		}
	}
	return profiles.Profile{}, false
}
