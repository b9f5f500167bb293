package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"

	"github.com/hlra-health/profilesync/errors"
)

type Login struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

func (h *Handler) Login(ec echo.Context) error {
	ctx := ec.Request().Context()
	dto := Login{}
	if err := ec.Bind(&dto); err != nil {
		return err
	}
	if dto.AccessToken == "" {
		return fmt.Errorf("%w: accessToken is required", errors.BadRequest)
	}

	token := &oauth2.Token{
		AccessToken:  dto.AccessToken,
		RefreshToken: dto.RefreshToken,
		TokenType:    "Bearer",
	}
	if dto.ExpiresIn > 0 {
		token.Expiry = h.now().Add(time.Duration(dto.ExpiresIn) * time.Second)
	}

	user, err := h.session.Login(ctx, token)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, user)
}

func (h *Handler) GetSession(ec echo.Context) error {
	user, err := h.session.RequireUser()
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(ec echo.Context) error {
	h.session.Logout()
	return ec.NoContent(http.StatusNoContent)
}
