package api

import (
	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/retailzero/brand-gateway/docs"
	"github.com/retailzero/brand-gateway/internal/api/handler"
	"github.com/retailzero/brand-gateway/internal/api/middleware"
	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/ports"
	"github.com/retailzero/brand-gateway/internal/core/service"
)

// Dependencies are the wired services the HTTP layer is built from.
type Dependencies struct {
	Sessions  *scs.SessionManager
	Redis     *redis.Client // nil when running with in-memory stores
	Registry  ports.BrandRegistry
	Brands    ports.BrandContext
	Identity  ports.SessionService
	Access    ports.AccessService
	Redirects ports.RedirectRouter
	Claims    *service.ClaimsReader
	Routes    domain.LandingRoutes
	BaseURL   string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("retailzero"))

	// --- Operational routes (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Browser routes ---
	web := e.Group("",
		echo.WrapMiddleware(d.Sessions.LoadAndSave),
		middleware.Session(d.Identity),
		middleware.PostLoginRedirect(d.Redirects, d.Log),
	)

	authHandler := handler.NewAuthHandler(d.Identity, d.Redirects, d.Registry, d.Brands, d.BaseURL, d.Log)
	portalHandler := handler.NewPortalHandler(d.Brands)
	brandHandler := handler.NewBrandHandler(d.Registry, d.Brands)
	profileHandler := handler.NewProfileHandler(d.Claims)

	web.GET("/login", authHandler.Login)
	web.GET("/signup", authHandler.Signup)
	web.GET("/employee-login", authHandler.EmployeeLogin)
	web.GET("/callback", authHandler.Callback)
	web.GET("/logout", authHandler.Logout)

	for _, p := range entryPaths(d.Routes) {
		web.GET(p, portalHandler.Home)
	}
	web.GET(d.Routes.BrandSelection, brandHandler.List)
	web.POST("/brand/switch", brandHandler.Switch)

	brandFromPath := middleware.BrandFromParam("slug", d.Registry, d.Brands)
	web.GET(d.Routes.AdminPath, portalHandler.Area,
		middleware.RequireAccess(d.Access, domain.ResourceAdminArea, middleware.NoBrand))
	web.GET(d.Routes.EmployeePath, portalHandler.Area,
		middleware.RequireAccess(d.Access, domain.ResourceEmployeeArea, middleware.NoBrand))
	web.GET(d.Routes.BrandPath, portalHandler.Area,
		middleware.RequireAccess(d.Access, domain.ResourceCustomerArea, brandFromPath))
	web.GET(d.Routes.BrandPath+"/:slug", portalHandler.Area,
		middleware.RequireAccess(d.Access, domain.ResourceCustomerArea, brandFromPath))

	web.GET("/me", profileHandler.Me)
	web.GET("/me/token", profileHandler.Token)

	return e
}

// entryPaths are the paths served by the landing page. Entry paths that
// collide with another route keep that route.
func entryPaths(r domain.LandingRoutes) []string {
	taken := map[string]bool{
		r.AdminPath: true, r.EmployeePath: true, r.BrandPath: true, r.BrandSelection: true,
		"/login": true, "/signup": true, "/employee-login": true, "/callback": true, "/logout": true,
		"/me": true, "/me/token": true, "/health": true, "/health/ready": true, "/metrics": true,
	}
	var out []string
	for _, p := range r.EntryPaths {
		if p != "" && !taken[p] {
			out = append(out, p)
			taken[p] = true
		}
	}
	return out
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
