package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
