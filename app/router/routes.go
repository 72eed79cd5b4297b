// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/panelbridge/panelbridge/app/dto"
	"github.com/panelbridge/panelbridge/app/handlers"
	"github.com/panelbridge/panelbridge/app/middleware"
	"github.com/panelbridge/panelbridge/config"
	"github.com/panelbridge/panelbridge/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app               *fiber.App
	cfg               *config.ProductionConfig
	redirectHandler   handlers.RedirectHandlerInterface
	statusPageHandler handlers.StatusPageHandlerInterface
	surveyHandler     handlers.SurveyHandlerInterface
	vendorHandler     handlers.VendorHandlerInterface
	sessionHandler    handlers.SessionHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	redirectHandler handlers.RedirectHandlerInterface,
	statusPageHandler handlers.StatusPageHandlerInterface,
	surveyHandler handlers.SurveyHandlerInterface,
	vendorHandler handlers.VendorHandlerInterface,
	sessionHandler handlers.SessionHandlerInterface,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "PanelBridge Router",
		ServerHeader: "PanelBridge",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit, // redirect traffic carries no bodies
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ProxyHeader:  cfg.Server.ProxyHeader,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:               app,
		cfg:               cfg,
		redirectHandler:   redirectHandler,
		statusPageHandler: statusPageHandler,
		surveyHandler:     surveyHandler,
		vendorHandler:     vendorHandler,
		sessionHandler:    sessionHandler,
	}
}

// SetupRoutes configures all application routes. Registration order
// matters: the respondent-facing routes with fixed prefixes must come
// before the status page catch-all /:surveySlug/:status.
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Health check route (no rate limiting)
	r.app.Get("/api/v1/health", r.healthCheck)

	// Admin API routes with rate limiting
	api := r.app.Group("/api/v1")
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	surveys := api.Group("/surveys")
	surveys.Post("/", r.surveyHandler.CreateSurvey)
	surveys.Get("/", r.surveyHandler.ListSurveys)
	surveys.Get("/:surveySlug", r.surveyHandler.GetSurvey)
	surveys.Put("/:surveySlug", r.surveyHandler.UpdateSurvey)
	surveys.Delete("/:surveySlug", r.surveyHandler.DeleteSurvey)

	surveys.Post("/:surveySlug/vendors", r.vendorHandler.CreateVendor)
	surveys.Get("/:surveySlug/vendors", r.vendorHandler.ListVendors)
	surveys.Get("/:surveySlug/vendors/:vendorSlug", r.vendorHandler.GetVendor)
	surveys.Put("/:surveySlug/vendors/:vendorSlug", r.vendorHandler.UpdateVendor)
	surveys.Delete("/:surveySlug/vendors/:vendorSlug", r.vendorHandler.DeleteVendor)

	surveys.Get("/:surveySlug/sessions", r.sessionHandler.ListSessions)
	surveys.Get("/:surveySlug/sessions/stats", r.sessionHandler.GetSessionStats)

	// Respondent-facing redirect routes
	r.app.Get("/v/:vendorUuid", r.redirectHandler.LegacyEntry)
	r.app.Get("/r/:sessionId", r.redirectHandler.LegacyExit)
	r.app.Get("/r/:surveySlug/:vendorSlug", r.redirectHandler.SlugEntry)
	r.app.Get("/exit/:surveySlug", r.redirectHandler.SlugExit)

	// Status pages last: this pattern swallows every two-segment path
	r.app.Get("/:surveySlug/:status", r.statusPageHandler.Show)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware. Frame embedding stays blocked; survey
	// platforms open the exit links as top-level navigations.
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; frame-ancestors 'none';",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// CORS only matters for the admin API; redirects are top-level
	// navigations and never preflighted.
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Security.CORSAllowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Requested-With",
			"X-Request-ID",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
		},
		MaxAge: utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Prometheus HTTP metrics
	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "panelbridge-router",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
