package handlers

import (
	"github.com/labstack/echo/v4"
	jwtmw "github.com/tasknest/tasknest/middleware/jwt"
	"github.com/tasknest/tasknest/middleware/ratelimit"
	"github.com/tasknest/tasknest/services/auth"
	"github.com/tasknest/tasknest/services/jwt"
	"github.com/tasknest/tasknest/services/logging"
	"github.com/tasknest/tasknest/services/todo"
	"github.com/tasknest/tasknest/services/user"
)

type Handlers struct {
	authService *auth.Service
	jwtService  *jwt.Service
	todoService *todo.Service
	userService *user.Service
	logger      *logging.Service
}

func New(authService *auth.Service, jwtService *jwt.Service, todoService *todo.Service, userService *user.Service, logger *logging.Service) *Handlers {
	return &Handlers{
		authService: authService,
		jwtService:  jwtService,
		todoService: todoService,
		userService: userService,
		logger:      logger,
	}
}

func (h *Handlers) Register(e *echo.Echo, limiters *ratelimit.Limiters) {
	e.Validator = NewValidator()

	e.Use(logging.RequestLogger(h.logger))
	e.Use(ratelimit.Middleware(limiters, h.jwtService, h.logger))

	e.GET("/health", h.Health)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.RegisterUser)
	authGroup.GET("/verify-email", h.VerifyEmail)
	authGroup.POST("/login", h.Login)

	requireAuth := jwtmw.RequireAuth(h.jwtService, h.authService)

	todos := e.Group("/todos", requireAuth, jwtmw.RequireVerified())
	todos.GET("", h.ListTodos)
	todos.POST("", h.CreateTodo)
	todos.GET("/:id", h.GetTodo)
	todos.PATCH("/:id", h.UpdateTodo)
	todos.DELETE("/:id", h.DeleteTodo)

	admin := e.Group("/admin", requireAuth, jwtmw.RequireVerified(), jwtmw.RequireAdmin())
	admin.GET("/users", h.AdminListUsers)
	admin.PATCH("/users/:id", h.AdminUpdateUser)
	admin.GET("/users/:id/todos", h.AdminListUserTodos)
	admin.GET("/todos", h.AdminListTodos)
	admin.DELETE("/todos/:id", h.AdminDeleteTodo)

	users := e.Group("/users", requireAuth)
	users.GET("/me", h.Me)
	users.GET("/me/avatar", h.GetAvatar)
	users.PUT("/me/avatar", h.PutAvatar)
}
