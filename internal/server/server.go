// Package server contains the HTTP handlers for the application's endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"plume/internal/cache"
	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/media"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	followRepo     repository.FollowRepository
	mediaStore     *media.Store
	feedService    *service.FeedService
	followService  *service.FollowService
	commentService *service.CommentService
	postService    *service.PostService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.Connect(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	feedCache := cache.NewFeedCache(redisClient, cfg.FeedCacheTTL())

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		followRepo:     followRepo,
		mediaStore:     media.NewStore(cfg.MediaRoot, cfg.ImageMaxUploadSize),
		feedService:    service.NewFeedService(postRepo, groupRepo, userRepo, feedCache, cfg.PageSize),
		followService:  service.NewFollowService(followRepo, userRepo, cfg.PageSize),
		commentService: service.NewCommentService(commentRepo, postRepo),
		postService:    service.NewPostService(postRepo, groupRepo, commentRepo),
	}
	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Propagate request ID and user ID into the request context
	app.Use(middleware.ContextMiddleware())

	// Created here rather than in NewServerWithDeps: fiberprometheus
	// registers with the default registry, which must happen once per
	// process.
	if s.promMiddleware == nil {
		s.promMiddleware = middleware.InitMetrics("plume-api")
	}
	s.promMiddleware.RegisterAt(app, "/metrics")
	app.Use(s.promMiddleware.Middleware)

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
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
	app.Get("/health", s.HealthCheck)

	auth := app.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)

	// Read endpoints adapt to the viewer when a token is present but never
	// require one.
	app.Get("/", middleware.OptionalAuth, s.FeedIndex)
	app.Get("/group/:slug/", middleware.OptionalAuth, s.GroupFeed)
	app.Get("/profile/:username/", middleware.OptionalAuth, s.Profile)
	app.Get("/posts/:id/", middleware.OptionalAuth, s.PostDetail)
	app.Get("/authors/", s.Authors)
	app.Get("/profile/:username/followings/", s.Followings)
	app.Get("/profile/:username/followers/", s.Followers)

	app.Get("/follow/", middleware.AuthRequired, s.FollowFeed)
	app.Post("/create/", middleware.AuthRequired, s.CreatePost)
	app.Post("/posts/:id/edit/", middleware.AuthRequired, s.EditPost)
	app.Post("/posts/:id/del/", middleware.AuthRequired, s.DeletePost)
	app.Post("/posts/:id/comment/", middleware.AuthRequired, s.AddComment)
	app.Post("/posts/:commentId/delcomment/", middleware.AuthRequired, s.DeleteComment)
	app.Post("/profile/:username/follow/", middleware.AuthRequired, s.FollowAuthor)
	app.Post("/profile/:username/unfollow/", middleware.AuthRequired, s.UnfollowAuthor)

	// Explicit cache clear; the only purge path besides TTL expiry.
	app.Post("/cache/clear/", middleware.AuthRequired, s.ClearFeedCache)

	// Uploaded post images
	app.Static("/media", s.config.MediaRoot)
}

// HealthCheck reports process and dependency health.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.Ping() != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	if s.redis == nil {
		status["cache"] = "disabled"
	}

	return c.JSON(status)
}

// Start builds the Fiber app and listens on the configured port.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Plume API",
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

// Shutdown gracefully stops the Fiber app.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
