package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tasknest/tasknest/services/user"
)

func (h *Handlers) AdminListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, users)
}

// AdminUpdateUser applies whichever of the three optional query flags are
// present. Note deactivate=true means is_active=false.
func (h *Handlers) AdminUpdateUser(c echo.Context) error {
	userID, err := parseID(c, "User not found")
	if err != nil {
		return err
	}

	update := user.AdminUpdate{}
	if update.MakeAdmin, err = optionalBoolParam(c, "make_admin"); err != nil {
		return err
	}
	if update.VerifyEmail, err = optionalBoolParam(c, "verify_email"); err != nil {
		return err
	}
	if update.Deactivate, err = optionalBoolParam(c, "deactivate"); err != nil {
		return err
	}

	updated, err := h.userService.ApplyAdminUpdate(userID, update)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *Handlers) AdminListUserTodos(c echo.Context) error {
	userID, err := parseID(c, "User not found")
	if err != nil {
		return err
	}

	if _, err := h.userService.GetByID(userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}

	todos, err := h.todoService.ListByOwner(userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todos)
}

func (h *Handlers) AdminListTodos(c echo.Context) error {
	todos, err := h.todoService.ListAll()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todos)
}

func (h *Handlers) AdminDeleteTodo(c echo.Context) error {
	todoID, err := parseID(c, "Todo not found")
	if err != nil {
		return err
	}

	if err := h.todoService.DeleteAny(todoID); err != nil {
		return todoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func optionalBoolParam(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid value for "+name)
	}

	return &value, nil
}
