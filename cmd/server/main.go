package main

import (
	"complaint_box/internal/api"        // Custom package for API handlers
	"complaint_box/internal/config"     // Custom package for configuration
	"complaint_box/internal/domain"     // Custom package for domain models
	"complaint_box/internal/middleware" // Custom package for middleware
	"context"                           // context package is needed for Redis operations
	"log"                               // log package is needed for logging
	"net/http"                          // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	// TranslateError maps driver duplicate-key failures onto
	// gorm.ErrDuplicatedKey so handlers can tell conflicts from faults
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client; caching and the submission counter are
	// skipped entirely when no address is configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		_, err = redisClient.Ping(context.Background()).Result()
		if err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// JWT secret must be configured; tokens cannot be issued without it
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Allow the frontend origin on every route
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins()))

	// Service banner and health check
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "LNMIIT Complaint Box API is running!")
	})
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/signup", api.SignupHandler(db, cfg.JWTSecret)) // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret))   // Login endpoint

	// Complaint routes (protected by JWT)
	complaintGroup := r.Group("/api/complaints")
	complaintGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	complaintGroup.POST("", api.CreateComplaintHandler(db, redisClient)) // File a complaint
	complaintGroup.GET("/me", api.ListMyComplaintsHandler(db))           // Caller's own complaints
	// Staff-only listing of every complaint
	complaintGroup.GET("",
		middleware.RequireRole(domain.RoleWarden, domain.RoleMaintenance),
		api.ListAllComplaintsHandler(db, redisClient))
	// Any authenticated caller may attempt an update; the handler
	// enforces ownership and role
	complaintGroup.PATCH("/:id", api.UpdateComplaintStatusHandler(db, redisClient))

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
