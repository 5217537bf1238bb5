package server

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	swaggerFiles "github.com/swaggo/files"
	httpSwagger "github.com/swaggo/http-swagger"

	"game-upload-api/internal/config"
	"game-upload-api/internal/handlers"
	"game-upload-api/internal/pool"
	"game-upload-api/internal/providers"
	"game-upload-api/internal/services"
)

// Server represents the HTTP server
type Server struct {
	app            *fiber.App
	config         *config.Config
	workerPool     *pool.WorkerPool
	bufferPool     *pool.BufferPool
	gateway        providers.StorageGateway
	concatenator   *services.Concatenator
	storageHandler *handlers.StorageHandler
	sessionHandler *handlers.SessionHandler
	concatHandler  *handlers.ConcatHandler
	metaHandler    *handlers.MetaHandler
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Load()
	}
	return &Server{config: cfg}
}

// Initialize sets up all server components
func (s *Server) Initialize() error {
	log.Printf("Initializing buffer pool with %d byte buffers", s.config.BufferSize)
	s.bufferPool = pool.NewBufferPool(s.config.BufferSize)

	log.Printf("Initializing worker pool with %d workers", s.config.MaxWorkers)
	s.workerPool = pool.NewWorkerPool(s.config.MaxWorkers)
	if err := s.workerPool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	if !s.config.Storage.Enabled {
		return fmt.Errorf("storage gateway is disabled; the upload API cannot run without it")
	}
	if err := s.config.Storage.Validate(); err != nil {
		return fmt.Errorf("invalid storage configuration: %w", err)
	}

	factory := providers.NewGatewayFactory()
	gateway, err := factory.CreateGateway(s.config.Storage.ToProviderConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize storage gateway: %w", err)
	}
	s.gateway = gateway

	muxer := services.NewFFmpegMuxer(s.config.FFmpegPath)
	s.concatenator = services.NewConcatenator(s.gateway, muxer, s.config.WorkDir, s.bufferPool).WithWorkerPool(s.workerPool)

	s.sessionHandler = handlers.NewSessionHandler(s.gateway, s.config.PresignExpiry, s.config.RequestTimeout)
	s.storageHandler = handlers.NewStorageHandler(s.gateway, s.sessionHandler, s.config.PresignExpiry, s.config.RequestTimeout)
	s.concatHandler = handlers.NewConcatHandler(s.concatenator, s.config.RequestTimeout)
	s.metaHandler = handlers.NewMetaHandler(s.gateway, readAPIVersion())

	s.app = fiber.New(fiber.Config{
		ServerHeader:    "GameUpload",
		StrictRouting:   true,
		CaseSensitive:   true,
		AppName:         "Game Upload API",
		BodyLimit:       s.config.BodyLimit,
		ReadTimeout:     s.config.ReadTimeout,
		WriteTimeout:    s.config.WriteTimeout,
		IdleTimeout:     s.config.IdleTimeout,
		ReadBufferSize:  16 * 1024,
		WriteBufferSize: 16 * 1024,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":     message,
				"timestamp": time.Now().Unix(),
			})
		},
	})

	s.setupMiddleware()
	s.setupRoutes()

	return nil
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	if s.config.EnableRequestID {
		s.app.Use(requestid.New(requestid.Config{
			Header: "X-Request-ID",
			Generator: func() string {
				return fmt.Sprintf("%d", time.Now().UnixNano())
			},
		}))
	}

	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
	}))

	if s.config.EnableCORS {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			MaxAge:       86400,
		}))
	}

	s.app.Use(recover.New())
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.app.Get("/api", s.metaHandler.Info)
	s.app.Get("/health", s.metaHandler.Health)

	// Upload protocol
	s.app.Post("/v1/storage", s.storageHandler.Dispatch)
	s.app.Post("/v1/sessions", s.sessionHandler.Initialize)
	s.app.Post("/v1/concatenate", s.concatHandler.Concatenate)

	if s.config.EnableSwagger {
		s.registerSwaggerRoutes()
	}

	// 404 handler
	s.app.Use(func(c fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}

func (s *Server) registerSwaggerRoutes() {
	swaggerFiles.Handler.Prefix = "/swagger"
	s.app.Get("/swagger", func(c fiber.Ctx) error {
		return c.Redirect().Status(fiber.StatusTemporaryRedirect).To("/swagger/index.html")
	})
	s.app.Get("/swagger/*", adaptor.HTTPHandler(httpSwagger.Handler(
		httpSwagger.InstanceName("swagger"),
		httpSwagger.DeepLinking(true),
	)))
}

// Start starts the server
func (s *Server) Start() error {
	s.printStartupInfo()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf(":%s", s.config.Port)
		if err := s.app.Listen(addr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	<-shutdownCh

	log.Println("Shutting down server...")
	return s.Shutdown()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
		log.Println("Worker pool stopped")
	}

	log.Println("Server shutdown complete")
	return nil
}

// printStartupInfo prints server configuration
func (s *Server) printStartupInfo() {
	log.Println("========================================")
	log.Println("Game Upload API")
	log.Println("========================================")
	log.Printf("Port:            %s", s.config.Port)
	log.Printf("Workers:         %d", s.config.MaxWorkers)
	log.Printf("Chunk Size:      %dMB", s.config.ChunkSize/1024/1024)
	log.Printf("Request Timeout: %s", s.config.RequestTimeout)
	log.Printf("Body Limit:      %dMB", s.config.BodyLimit/1024/1024)
	log.Printf("Storage:         %s (%s)", s.config.Storage.Provider, s.config.Storage.Bucket)
	log.Printf("CPU Cores:       %d", runtime.NumCPU())
	log.Printf("Go Version:      %s", runtime.Version())
	log.Printf("Swagger:         %t", s.config.EnableSwagger)
	log.Println("========================================")
}

func readAPIVersion() string {
	const fallbackVersion = "1.0.0"
	data, err := os.ReadFile("VERSION")
	if err != nil {
		return fallbackVersion
	}

	version := strings.TrimSpace(string(data))
	if version == "" {
		return fallbackVersion
	}

	return version
}
