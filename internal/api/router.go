package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/opsdesk/console/docs"
	"github.com/opsdesk/console/internal/api/handler"
	"github.com/opsdesk/console/internal/api/middleware"
	"github.com/opsdesk/console/internal/core/domain"
	"github.com/opsdesk/console/internal/core/ports"
	"github.com/opsdesk/console/internal/core/service"
	mongodb "github.com/opsdesk/console/internal/infrastructure/db/mongo"
	redisdb "github.com/opsdesk/console/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditSink, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console"))

	// --- Dependencies ---
	opRepo := mongodb.NewOperatorRepository(db)
	denylist := redisdb.NewDenylist(rdb)
	authService := service.NewAuthService(opRepo, denylist, jwtSecret, tokenTTL, log)
	authHandler := handler.NewAuthHandler(authService, audit)
	authMiddleware := middleware.Auth(authService)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/api/auth/me", authHandler.Me, authMiddleware)
	e.POST("/api/auth/register", authHandler.Register, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
