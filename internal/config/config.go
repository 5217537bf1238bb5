package config

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port         string
	AppEnv       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int

	// Upload configuration
	ChunkSize       int64
	PartConcurrency int
	PresignExpiry   time.Duration

	// Worker pool configuration
	MaxWorkers     int
	RequestTimeout time.Duration

	// Buffer pool configuration
	BufferPoolSize int
	BufferSize     int

	// Concatenation settings
	FFmpegPath string
	WorkDir    string

	// Logging configuration
	LogLevel string

	// Development settings
	Debug         bool
	EnableSwagger bool

	// Production settings
	ProductionMode  bool
	EnableRequestID bool
	EnableCORS      bool
	TrustedProxies  []string

	// Storage configuration
	Storage *StorageConfiguration
}

// Load loads configuration from environment variables and .env file
func Load() *Config {
	// Try to load .env file (optional)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not found or couldn't be loaded: %v", err)
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return &Config{
		// Server configuration
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 5*time.Minute),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 5*time.Minute),
		IdleTimeout:  getDuration("IDLE_TIMEOUT", 5*time.Minute),
		BodyLimit:    getInt("BODY_LIMIT", 100*1024*1024), // 100MB

		// Upload configuration
		ChunkSize:       getInt64("CHUNK_SIZE", 10*1024*1024), // 10MB
		PartConcurrency: getInt("PART_CONCURRENCY", 4),
		PresignExpiry:   getDuration("PRESIGN_EXPIRY", time.Hour),

		// Worker pool
		MaxWorkers:     getWorkerCount(),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 5*time.Minute),

		// Buffer pool
		BufferPoolSize: getInt("BUFFER_POOL_SIZE", 50),
		BufferSize:     getInt("BUFFER_SIZE", 4*1024*1024), // 4MB

		// Concatenation settings
		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),
		WorkDir:    getEnv("WORK_DIR", os.TempDir()),

		// Logging configuration
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Development settings
		Debug:         getBool("DEBUG", false),
		EnableSwagger: getBool("ENABLE_SWAGGER", true),

		// Production settings
		ProductionMode:  getBool("PRODUCTION_MODE", false),
		EnableRequestID: getBool("ENABLE_REQUEST_ID", true),
		EnableCORS:      getBool("ENABLE_CORS", true),
		TrustedProxies:  getStringSlice("TRUSTED_PROXIES", []string{"127.0.0.1", "::1"}),

		// Storage configuration
		Storage: LoadStorageConfig(),
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid int64 value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid boolean value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func getStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, len(parts))
		for i, part := range parts {
			result[i] = strings.TrimSpace(part)
		}
		return result
	}
	return defaultValue
}

func getWorkerCount() int {
	if value := os.Getenv("MAX_WORKERS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}

	cpuCount := runtime.NumCPU()
	if cpuCount < 4 {
		return 4
	}
	return cpuCount
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.Debug
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.ProductionMode
}

// PrintConfig logs the current configuration (without sensitive data)
func (c *Config) PrintConfig() {
	log.Println("===========================================")
	log.Println("Game Upload API Configuration")
	log.Println("===========================================")
	log.Printf("Environment:      %s", c.AppEnv)
	log.Printf("Port:             %s", c.Port)
	log.Printf("Workers:          %d (CPU: %d)", c.MaxWorkers, runtime.NumCPU())
	log.Printf("Chunk Size:       %dMB", c.ChunkSize/1024/1024)
	log.Printf("Part Concurrency: %d", c.PartConcurrency)
	log.Printf("Presign Expiry:   %s", c.PresignExpiry)
	log.Printf("Buffer Pool:      %d x %dMB", c.BufferPoolSize, c.BufferSize/1024/1024)
	log.Printf("Request Timeout:  %s", c.RequestTimeout)
	log.Printf("Body Limit:       %dMB", c.BodyLimit/1024/1024)
	log.Printf("FFmpeg:           %s", c.FFmpegPath)
	log.Printf("Work Dir:         %s", c.WorkDir)
	if c.Storage != nil && c.Storage.Enabled {
		log.Printf("Storage:          %s (%s)", c.Storage.Provider, c.Storage.Bucket)
	} else {
		log.Printf("Storage:          disabled")
	}
	log.Println("===========================================")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxWorkers <= 0 {
		log.Printf("Warning: MAX_WORKERS is 0 or negative, auto-setting to %d", runtime.NumCPU())
		c.MaxWorkers = runtime.NumCPU()
	}

	if c.ChunkSize < 5*1024*1024 {
		log.Printf("Warning: CHUNK_SIZE below the 5MB multipart minimum, setting to default: 10MB")
		c.ChunkSize = 10 * 1024 * 1024
	}

	if c.PartConcurrency <= 0 {
		log.Printf("Warning: PART_CONCURRENCY is 0 or negative, setting to default: 4")
		c.PartConcurrency = 4
	}

	if c.BufferPoolSize <= 0 {
		log.Printf("Warning: BUFFER_POOL_SIZE is 0 or negative, setting to default: 50")
		c.BufferPoolSize = 50
	}

	if c.BufferSize <= 0 {
		log.Printf("Warning: BUFFER_SIZE is 0 or negative, setting to default: 4MB")
		c.BufferSize = 4 * 1024 * 1024
	}

	if c.RequestTimeout <= 0 {
		log.Printf("Warning: REQUEST_TIMEOUT is 0 or negative, setting to default: 5m")
		c.RequestTimeout = 5 * time.Minute
	}

	return nil
}
