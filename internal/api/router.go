package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/userhub/user-service/docs"
	"github.com/userhub/user-service/internal/api/handler"
	"github.com/userhub/user-service/internal/api/middleware"
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// apiPrefix is the second mount point of every route.
const apiPrefix = "/api"

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Users     ports.UserService
	Auth      ports.AuthService
	Verifier  ports.TokenVerifier
	Readiness *handler.HealthDependenciesHandler
	Log       zerolog.Logger

	// RequestTimeout bounds every request context. Zero disables it.
	RequestTimeout time.Duration
	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "users",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Timeout(deps.RequestTimeout))

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness  – is the process alive?
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness.Readiness) // readiness – are dependencies up?
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)

	for _, g := range []*echo.Group{e.Group(""), e.Group(apiPrefix)} {
		registerRoutes(g, authHandler, userHandler, deps.Verifier)
	}

	return e
}

func registerRoutes(g *echo.Group, authHandler *handler.AuthHandler, userHandler *handler.UserHandler, verifier ports.TokenVerifier) {
	authenticated := middleware.Auth(verifier)
	adminOnly := middleware.RolesAllowed(domain.RoleAdmin)

	// --- Auth routes ---
	auth := g.Group("/auth")
	auth.POST("", authHandler.Login)
	auth.POST("/token", authHandler.Refresh, authenticated)
	auth.POST("/logout", authHandler.Logout, authenticated)

	// --- User routes ---
	users := g.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List, authenticated, adminOnly)
	users.DELETE("", userHandler.Delete, authenticated, adminOnly)
	users.GET("/:id", userHandler.Get, authenticated, adminOnly)
	users.PUT("/:id", userHandler.Update, authenticated, adminOnly)
	users.GET("/by-username/:username", userHandler.GetByUsername, authenticated, adminOnly)

	// --- Caller's own account ---
	users.GET("/get/me", userHandler.GetMe, authenticated)
	users.PUT("/update/me", userHandler.UpdateMe, authenticated)
	users.PATCH("/password/:password", userHandler.ChangePassword, authenticated)
}
