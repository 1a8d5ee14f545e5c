// Package devapi is a local stand-in for the rating platform API. It serves the same
// endpoints and response envelope the CLI talks to, backed by SQLite.
package devapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storerate/storerate/internal/auth"
	"github.com/storerate/storerate/internal/cli/forms"
	"github.com/storerate/storerate/internal/config"
	"github.com/storerate/storerate/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	db      *gorm.DB
	config  config.DevAPIConfig
	logger  zerolog.Logger
	tokens  *auth.Issuer
	metrics *Metrics
	version string
}

// New creates a new server instance, migrating the database and seeding the first
// administrator when none exists
func New(cfg config.DevAPIConfig, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = auth.GenerateSecret()
		if err != nil {
			return nil, err
		}
		zlog.Warn().Msg("DEVAPI_JWT_SECRET not set - tokens will not survive a restart")
	}

	// Custom tags shared with the CLI forms
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		forms.RegisterRules(v)
	}

	s := &Server{
		db:      db,
		config:  cfg,
		logger:  zlog,
		tokens:  auth.NewIssuer(secret, cfg.TokenTTL),
		metrics: NewMetrics(prometheus.NewRegistry()),
		version: version,
	}

	if err := s.seedAdmin(); err != nil {
		return nil, err
	}

	s.setupRouter()

	return s, nil
}

// initDatabase opens the SQLite database with the pool and pragmas tuned for a
// single-process server
func initDatabase(cfg config.DevAPIConfig, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 300 // 5 minutes
		busyTimeout     = 5000
	)

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Every connection to :memory: is its own database
	if strings.Contains(cfg.DatabaseURL, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=1",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// seedAdmin creates the configured administrator on an empty user table
func (s *Server) seedAdmin() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count administrators: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(s.config.AdminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:         s.config.AdminName,
		Email:        strings.ToLower(s.config.AdminEmail),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create administrator: %w", err)
	}

	s.logger.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("Seeded administrator account")
	return nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.metrics.Middleware())

	// CORS for a browser front-end in development
	origins := s.config.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Public auth endpoints
	s.router.POST("/auth/signup", s.signup)
	s.router.POST("/auth/login", s.login)

	// Authenticated routes
	api := s.router.Group("")
	api.Use(s.JWTAuthMiddleware())
	{
		api.GET("/auth/profile", s.getProfile)
		api.PUT("/auth/change-password", s.changePassword)

		api.GET("/stores/all", s.listStores)
		api.GET("/stores/my-stores", RoleMiddleware(s.logger, models.RoleStoreOwner), s.myStores)
		api.POST("/stores/create", RoleMiddleware(s.logger, models.RoleAdmin), s.createStore)
		api.GET("/stores/:id", s.getStore)
		api.PUT("/stores/:id", RoleMiddleware(s.logger, models.RoleAdmin, models.RoleStoreOwner), s.updateStore)
		api.DELETE("/stores/:id", RoleMiddleware(s.logger, models.RoleAdmin), s.deleteStore)

		api.POST("/ratings/submit", RoleMiddleware(s.logger, models.RoleUser), s.submitRating)
		api.GET("/ratings/my-ratings", RoleMiddleware(s.logger, models.RoleUser), s.myRatings)
		api.GET("/ratings/store/:id", s.storeRatings)
		api.GET("/ratings/:id", s.getRating)
		api.PUT("/ratings/:id", RoleMiddleware(s.logger, models.RoleUser), s.updateRating)
		api.DELETE("/ratings/:id", RoleMiddleware(s.logger, models.RoleUser, models.RoleAdmin), s.deleteRating)

		admin := api.Group("/admin")
		admin.Use(RoleMiddleware(s.logger, models.RoleAdmin))
		{
			admin.GET("/dashboard", s.adminDashboard)
			admin.GET("/users", s.listUsers)
			admin.POST("/users/create", s.createUser)
			admin.GET("/users/:id", s.getUser)
			admin.GET("/stores", s.adminStores)
			admin.POST("/stores/create", s.createStore)
		}

		owner := api.Group("/store-owner")
		owner.Use(RoleMiddleware(s.logger, models.RoleStoreOwner))
		{
			owner.GET("/dashboard", s.ownerDashboard)
			owner.GET("/ratings/users", s.ownerRaters)
			owner.GET("/ratings/users/:id", s.ownerRaters)
			owner.GET("/store/:id/stats", s.ownerStoreStats)
		}
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "storerate-devapi",
		"version":   s.version,
	})
}

// Handler exposes the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// DB returns the database connection
func (s *Server) DB() *gorm.DB {
	return s.db
}

// Close releases the database
func (s *Server) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if err := s.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database")
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
