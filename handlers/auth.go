package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tasknest/tasknest/services/auth"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (h *Handlers) RegisterUser(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "Email already registered")
		}
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *Handlers) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}

	message, err := h.authService.VerifyEmail(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrVerificationTokenInvalid):
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid token")
		case errors.Is(err, auth.ErrVerificationTokenExpired):
			return echo.NewHTTPError(http.StatusBadRequest, "Token expired")
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": message})
}

func (h *Handlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, "Incorrect email or password")
		case errors.Is(err, auth.ErrEmailNotVerified):
			return echo.NewHTTPError(http.StatusForbidden, "Email not verified")
		case errors.Is(err, auth.ErrUserInactive):
			return echo.NewHTTPError(http.StatusForbidden, "User is inactive")
		default:
			return err
		}
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   h.jwtService.GetAccessExpirySeconds(),
	})
}
