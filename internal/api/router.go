package api

import (
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/alquilercordoba/rental-system/docs"
	"github.com/alquilercordoba/rental-system/internal/api/handler"
	"github.com/alquilercordoba/rental-system/internal/api/middleware"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/http/handlers"
)

// multipartOverhead is the slack allowed on top of the file size limit for
// form boundaries and headers.
const multipartOverhead = 1 << 20

// Dependencies groups everything the router needs. Services are built by the
// caller so tests can swap in any implementation.
type Dependencies struct {
	Logger      zerolog.Logger
	JWTSecret   string
	FrontendURL string

	AuthService         ports.AuthService
	PropertyService     ports.PropertyService
	AvailabilityService ports.AvailabilityService
	UploadService       ports.UploadService
	UploadMaxBytes      int64

	// HealthChecks are run by GET /api/health/ready, keyed by dependency name.
	HealthChecks map[string]handlers.PingFunc

	// Registerer and Gatherer back the HTTP metrics; nil means the Prometheus
	// default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.FrontendURL},
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "rental",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		DoNotUseRequestPathFor404: true,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	propertyHandler := handler.NewPropertyHandler(deps.PropertyService)
	availabilityHandler := handler.NewAvailabilityHandler(deps.AvailabilityService)
	uploadHandler := handler.NewUploadHandler(deps.UploadService)
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Property routes ---
	api.GET("/properties", propertyHandler.List)
	api.GET("/properties/filter", propertyHandler.Filter)
	api.GET("/properties/:id", propertyHandler.Get)
	api.POST("/properties", propertyHandler.Create, authMiddleware)
	api.PUT("/properties/:id", propertyHandler.Update, authMiddleware)
	api.DELETE("/properties/:id", propertyHandler.Delete, authMiddleware)

	// --- Availability routes ---
	api.GET("/availability", availabilityHandler.List)
	api.GET("/availability/filter", availabilityHandler.Filter)
	api.POST("/availability", availabilityHandler.Create, authMiddleware)
	api.DELETE("/availability/:id", availabilityHandler.Delete, authMiddleware)

	// --- Uploads ---
	maxBytes := deps.UploadMaxBytes
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	api.POST("/upload", uploadHandler.Upload,
		echomiddleware.BodyLimit(strconv.FormatInt(maxBytes+multipartOverhead, 10)),
		authMiddleware,
	)
	e.GET("/uploads/:name", uploadHandler.Serve)

	// --- Health checks (no auth required) ---
	api.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	api.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
