package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	jwtmw "github.com/tasknest/tasknest/middleware/jwt"
	"github.com/tasknest/tasknest/services/todo"
)

type createTodoRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type updateTodoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Done        *bool   `json:"done"`
}

func (h *Handlers) ListTodos(c echo.Context) error {
	user := jwtmw.CurrentUser(c)

	todos, err := h.todoService.ListByOwner(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, todos)
}

func (h *Handlers) CreateTodo(c echo.Context) error {
	user := jwtmw.CurrentUser(c)

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.todoService.Create(user.ID, req.Title, req.Description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *Handlers) GetTodo(c echo.Context) error {
	user := jwtmw.CurrentUser(c)

	todoID, err := parseID(c, "Todo not found")
	if err != nil {
		return err
	}

	item, err := h.todoService.GetOwned(user.ID, todoID)
	if err != nil {
		return todoError(err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *Handlers) UpdateTodo(c echo.Context) error {
	user := jwtmw.CurrentUser(c)

	todoID, err := parseID(c, "Todo not found")
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.todoService.UpdateOwned(user.ID, todoID, todo.Update{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		return todoError(err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *Handlers) DeleteTodo(c echo.Context) error {
	user := jwtmw.CurrentUser(c)

	todoID, err := parseID(c, "Todo not found")
	if err != nil {
		return err
	}

	if err := h.todoService.DeleteOwned(user.ID, todoID); err != nil {
		return todoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// parseID treats an unparsable id segment the same as a missing record, so
// probing with junk ids is indistinguishable from probing with unknown ones.
func parseID(c echo.Context, notFoundMessage string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, notFoundMessage)
	}
	return uint(id), nil
}

func todoError(err error) error {
	if errors.Is(err, todo.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Todo not found")
	}
	return err
}
