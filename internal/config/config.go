package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort     string // Application port
	DBUser      string // Database user
	DBPassword  string // Database password
	DBHost      string // Database host
	DBPort      string // Database port
	DBName      string // Database name
	JWTSecret   string // JWT secret key
	RedisAddr   string // Redis server address, empty disables caching and the submission counter
	RedisPass   string // Redis password
	RedisDB     int    // Redis database number
	FrontendURL string // Allowed CORS origin for the deployed frontend
	IsProd      bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:     os.Getenv("APP_PORT"),          // Application port
		DBUser:      os.Getenv("DB_USER"),           // Database user
		DBPassword:  os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:      os.Getenv("DB_HOST"),           // Database host
		DBPort:      os.Getenv("DB_PORT"),           // Database port
		DBName:      os.Getenv("DB_NAME"),           // Database name
		JWTSecret:   os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:   os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:   os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:     redisDB,                        // Redis database number
		FrontendURL: os.Getenv("FRONTEND_URL"),      // Frontend origin for CORS
		IsProd:      os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// AllowedOrigins returns the CORS allow list: the configured frontend
// plus the local dev server origins.
func (c *Config) AllowedOrigins() []string {
	origins := []string{
		"http://localhost:8080",  // Local dev frontend
		"https://localhost:8080", // Local dev frontend over TLS
	}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL) // Deployed frontend
	}
	return origins
}
