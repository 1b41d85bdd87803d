// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"gloryharbor/internal/cache"
	"gloryharbor/internal/config"
	"gloryharbor/internal/database"
	"gloryharbor/internal/middleware"
	"gloryharbor/internal/models"
	"gloryharbor/internal/repository"
	"gloryharbor/internal/seed"
	"gloryharbor/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	sermonRepo  repository.SermonRepository
	contactRepo repository.ContactRepository

	userService    *service.UserService
	sermonService  *service.SermonService
	contactService *service.ContactService
	images         *service.ImageService

	// bcrypt hashes of the role-gated registration codes, built once at
	// construction so the plaintext codes never sit on the Server.
	leaderCodeHash []byte
	pastorCodeHash []byte
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("gloryharbor-api"),
		userRepo:       repository.NewUserRepository(db),
		sermonRepo:     repository.NewSermonRepository(db),
		contactRepo:    repository.NewContactRepository(db),
	}

	if cfg.LeaderSignupCode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.LeaderSignupCode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing leader signup code: %w", err)
		}
		s.leaderCodeHash = hash
	}
	if cfg.PastorSignupCode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.PastorSignupCode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing pastor signup code: %w", err)
		}
		s.pastorCodeHash = hash
	}

	s.images = service.NewImageService(cfg)
	s.userService = service.NewUserService(s.userRepo, s.images)
	s.sermonService = service.NewSermonService(
		s.sermonRepo,
		s.userRepo,
		s.images,
		func(ctx context.Context) error { return seed.Sermons(db) },
		s.userService.IsElevated,
	)
	s.contactService = service.NewContactService(s.contactRepo, s.userService.IsElevated)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Server span per request; sets the traceID local picked up below
	app.Use(middleware.TracingMiddleware())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit (e.g. limiter) so browser
	// clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Glory Harbor Metrics Dashboard",
	}))

	// Processed uploads (sermon thumbnails, avatars)
	app.Static("/uploads", s.images.UploadDir())

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.GetCurrentUser)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)

	// Public sermon routes. OptionalAuth personalizes the liked flag.
	sermons := api.Group("/sermons")
	sermons.Get("/", middleware.OptionalAuth, s.ListSermons)
	sermons.Get("/:id/comments", s.ListSermonComments)
	sermons.Get("/:id", middleware.OptionalAuth, s.GetSermon)

	// Protected sermon routes
	protectedSermons := api.Group("/sermons", middleware.AuthRequired)
	protectedSermons.Post("/", s.CreateSermon)
	protectedSermons.Post("/:id/like", s.LikeSermon)
	protectedSermons.Delete("/:id/like", s.UnlikeSermon)
	protectedSermons.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "sermon_comment"), s.AddSermonComment)
	protectedSermons.Delete("/:id/comments/:commentId", s.DeleteSermonComment)
	protectedSermons.Patch("/:id", s.UpdateSermon)
	protectedSermons.Put("/:id", s.UpdateSermon)
	protectedSermons.Delete("/:id", s.DeleteSermon)

	// User directory (all authenticated)
	users := api.Group("/users", middleware.AuthRequired)
	users.Get("/", s.ListUsers)
	users.Post("/me/avatar", s.UploadAvatar)
	users.Delete("/me/avatar", s.RemoveAvatar)
	users.Get("/role/:role", s.ListUsersByRole)
	users.Patch("/:id/role", s.SetUserRole)
	users.Put("/:id/availability", s.UpdateAvailability)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	// Contact intake: public submit, staff review
	api.Post("/contact", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "contact"), s.SubmitContact)
	contact := api.Group("/contact", middleware.AuthRequired)
	contact.Get("/", s.ListContacts)
	contact.Patch("/:id/status", s.UpdateContactStatus)
	contact.Get("/:id", s.GetContact)
	contact.Delete("/:id", s.DeleteContact)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional: caching and rate limits degrade gracefully.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Glory Harbor API",
		BodyLimit: (s.config.MaxUploadSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
