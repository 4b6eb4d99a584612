// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "campfire/docs" // swagger docs
	"campfire/internal/admin"
	"campfire/internal/cache"
	"campfire/internal/config"
	"campfire/internal/database"
	"campfire/internal/middleware"
	"campfire/internal/models"
	"campfire/internal/notifications"
	"campfire/internal/repository"
	"campfire/internal/service"
	"campfire/internal/validation"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	cache          *cache.Store
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	campRepo       repository.CampRepository
	banRepo        repository.BanRepository
	postRepo       repository.PostRepository
	notifier       *notifications.Notifier
	adminRegistry  *admin.Registry
	accountService *service.AccountService
	followService  *service.FollowService
	banService     *service.BanService
	postAdmin      *service.PostAdminService
	avatarService  *service.AvatarService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// nil when Redis is unreachable; caching, rate limits and notifications then fail open.
	redisClient := cache.Connect(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	registry := admin.DefaultRegistry()
	if err := registry.LoadOverrides(cfg.AdminConfigPath); err != nil {
		return nil, err
	}

	store := cache.NewStore(redisClient)
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		cache:          store,
		promMiddleware: middleware.InitMetrics("campfire-api"),
		userRepo:       repository.NewUserRepository(db, store),
		campRepo:       repository.NewCampRepository(db, store),
		banRepo:        repository.NewBanRepository(db),
		postRepo:       repository.NewPostRepository(db),
		notifier:       notifications.NewNotifier(redisClient),
		adminRegistry:  registry,
	}

	s.accountService = service.NewAccountService(s.userRepo, s.banRepo, validation.NewMessages(cfg.DefaultLocale))
	s.followService = service.NewFollowService(s.campRepo, s.notifier)
	s.banService = service.NewBanService(s.banRepo, s.userRepo, s.notifier)
	s.postAdmin = service.NewPostAdminService(s.postRepo, s.adminRegistry)
	s.avatarService = service.NewAvatarService(cfg)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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
		Title: "Campfire Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded avatars
	if s.config.MediaDir != "" && s.config.MediaURLPrefix != "" {
		app.Static(s.config.MediaURLPrefix, s.config.MediaDir)
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.AuthRequired(), s.Refresh)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Ajax field checks for the registration form
	validate := api.Group("/validate", middleware.AjaxOnly(),
		middleware.RateLimit(s.redis, 60, time.Minute, "validate"))
	validate.Post("/username", s.ValidateUsername)
	validate.Post("/email", s.ValidateEmail)

	// Public profile and camp routes
	api.Get("/users/:username", s.GetUserProfile)
	api.Get("/camps/:ownerId", s.GetCamp)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/", s.ListUsers)
	// Specific /:username/delete before the generic /:username routes
	users.Post("/:username/delete", s.DeleteUser)
	users.Delete("/:username/delete", s.DeleteUser)
	users.Post("/:username", s.UpdateUserProfile)
	users.Put("/:username", s.UpdateUserProfile)
	users.Delete("/:username", s.DeleteUser)

	camps := protected.Group("/camps")
	camps.Post("/", s.CreateCamp)
	camps.Post("/follow", middleware.RateLimit(s.redis, 30, time.Minute, "follow"), s.ToggleFollow)
	camps.Get("/:ownerId/followers", s.GetCampFollowers)

	bans := protected.Group("/bans", s.AdminRequired())
	bans.Post("/", s.BanUser)
	bans.Get("/", s.ListBans)

	// Notifications stream
	protected.Get("/ws", s.NotificationsWebsocket())

	// Admin routes
	adminGroup := protected.Group("/admin", s.AdminRequired())
	adminGroup.Get("/models", s.GetAdminModels)
	adminPosts := adminGroup.Group("/posts")
	adminPosts.Get("/", s.GetAdminPosts)
	adminPosts.Post("/", s.CreateAdminPost)
	adminPosts.Get("/:id", s.GetAdminPost)
	adminPosts.Put("/:id", s.UpdateAdminPost)
	adminPosts.Delete("/:id", s.DeleteAdminPost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so only
// the database decides readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
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

// newApp builds the Fiber app with the JSON error handler.
func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "Campfire API",
		BodyLimit: (service.MaxAvatarUploadSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
}

// App returns the fully configured Fiber app, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app == nil {
		s.app = newApp()
		s.SetupMiddleware(s.app)
		s.SetupRoutes(s.app)
	}
	return s.app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
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
