package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	jwtmw "github.com/tasknest/tasknest/middleware/jwt"
	"github.com/tasknest/tasknest/services/user"
)

func (h *Handlers) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, jwtmw.CurrentUser(c))
}

func (h *Handlers) GetAvatar(c echo.Context) error {
	current := jwtmw.CurrentUser(c)

	data, mime, err := h.userService.GetAvatar(current.ID)
	if err != nil {
		if errors.Is(err, user.ErrNoAvatar) {
			return echo.NewHTTPError(http.StatusNotFound, "No avatar")
		}
		return err
	}

	return c.Blob(http.StatusOK, mime, data)
}

func (h *Handlers) PutAvatar(c echo.Context) error {
	current := jwtmw.CurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}

	if fileHeader.Size > user.MaxAvatarBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "Image too large (max 2MB)")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, user.MaxAvatarBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
	}

	updated, err := h.userService.SetAvatar(current.ID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUnsupportedImageType):
			return echo.NewHTTPError(http.StatusBadRequest, "Unsupported image type")
		case errors.Is(err, user.ErrImageTooLarge):
			return echo.NewHTTPError(http.StatusBadRequest, "Image too large (max 2MB)")
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, updated)
}
