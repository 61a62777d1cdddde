package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sickfits/storefront-api/docs"
	"github.com/sickfits/storefront-api/internal/api/handler"
	"github.com/sickfits/storefront-api/internal/api/middleware"
	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

// Deps is everything the HTTP layer needs. Services are built in main.
type Deps struct {
	Resolver ports.IdentityResolver
	Auth     ports.AuthService
	Users    ports.UserService
	Items    ports.ItemService
	Carts    ports.CartService
	Orders   ports.OrderService

	Health map[string]handler.Pinger

	// FrontendURL is the only origin allowed to send credentialed requests.
	FrontendURL string
	Cookie      handler.CookieOptions
	// ExposeResetLink echoes reset links in responses (development only).
	ExposeResetLink bool

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	promMiddleware := echoprometheus.MiddlewareConfig{Subsystem: "storefront_http"}
	promHandler := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promMiddleware.Registerer = d.Registry
		promHandler.Gatherer = d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{d.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promMiddleware))
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Identity(d.Resolver))

	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie, d.ExposeResetLink)
	userHandler := handler.NewUserHandler(d.Users)
	itemHandler := handler.NewItemHandler(d.Items)
	cartHandler := handler.NewCartHandler(d.Carts)
	orderHandler := handler.NewOrderHandler(d.Orders)
	healthHandler := handler.NewHealthHandler(d.Health)

	requireAuth := middleware.RequireAuth()

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/signout", authHandler.Signout)
	auth.POST("/request-reset", authHandler.RequestReset)
	auth.POST("/reset", authHandler.ResetPassword)

	// --- Users ---
	e.GET("/me", userHandler.Me)
	users := e.Group("/users", middleware.RequirePermission(log, domain.PermissionAdmin, domain.PermissionPermissionUpdate))
	users.GET("", userHandler.List)
	users.PUT("/:id/permissions", userHandler.UpdatePermissions)

	// --- Catalog (reads are public) ---
	e.GET("/items", itemHandler.List)
	e.GET("/items/count", itemHandler.Count)
	e.GET("/items/:id", itemHandler.Get)
	e.POST("/items", itemHandler.Create, requireAuth)
	e.PATCH("/items/:id", itemHandler.Update, requireAuth)
	e.DELETE("/items/:id", itemHandler.Delete, requireAuth)

	// --- Cart ---
	cart := e.Group("/cart", requireAuth)
	cart.GET("", cartHandler.Get)
	cart.POST("/:itemID", cartHandler.Add)
	cart.DELETE("/:id", cartHandler.Remove)

	// --- Orders ---
	orders := e.Group("/orders", requireAuth)
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandler))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?

	return e
}
