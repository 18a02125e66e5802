package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/banjul-labs/storefront/internal/logging"
	"github.com/banjul-labs/storefront/internal/models"
)

type AuthHTTP struct {
	publisher
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return err
	}

	st := sessionStore(c)
	err := st.Login(ctx, models.Credentials{Username: req.Username, Password: req.Password})
	snap := st.Auth()
	if err != nil {
		l.Warn("login failed", "status", 401, "username", req.Username, "error", err)
		return c.JSON(http.StatusUnauthorized, snap)
	}

	h.publish(c, map[string]any{
		"type":     "login",
		"username": req.Username,
	})

	l.Info("login succeeded", "username", req.Username)
	return c.JSON(http.StatusOK, snap)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	st := sessionStore(c)
	st.Logout()

	h.publish(c, map[string]any{"type": "logout"})

	return c.JSON(http.StatusOK, st.Auth())
}

func (h *AuthHTTP) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionStore(c).Auth())
}
