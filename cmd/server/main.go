package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/bot"
	"github.com/silvercase/attendance-backend/internal/config"
	"github.com/silvercase/attendance-backend/internal/database"
	"github.com/silvercase/attendance-backend/internal/handlers"
	"github.com/silvercase/attendance-backend/internal/middleware"
	"github.com/silvercase/attendance-backend/internal/services"
	"github.com/silvercase/attendance-backend/internal/storage"
	"github.com/silvercase/attendance-backend/pkg/jwt"
	"github.com/silvercase/attendance-backend/pkg/telegram"
	"github.com/silvercase/attendance-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Silver Case Attendance Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize blob storage
	blobs, err := storage.NewFileStore(cfg.Storage.UploadDir, cfg.Storage.PublicPrefix)
	if err != nil {
		logger.Fatalf("Failed to initialize blob storage: %v", err)
	}

	// Initialize repositories
	staffRepository := database.NewStaffRepository(db)
	attendanceRepository := database.NewAttendanceRepository(db)
	documentRepository := database.NewDocumentRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	phoneValidator := validator.NewPhoneValidator()
	auditService := services.NewAuditService(db, cfg.Security.EnableAuditLog, logger)
	directoryService := services.NewDirectoryService(staffRepository, documentRepository, blobs, phoneValidator, logger)
	attendanceService := services.NewAttendanceService(attendanceRepository, staffRepository, logger)
	documentService := services.NewDocumentService(documentRepository, staffRepository, blobs, logger)

	// Initialize and start cron service
	cronService := services.NewCronService(db, blobs.Dir(), logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Initialize Telegram bot listener
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()

	if cfg.Telegram.Mode == "polling" {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			logger.Fatalf("Failed to connect to Telegram: %v", err)
		}

		gateway := telegram.NewBotGateway(api)
		reconciler := services.NewReconcilerService(
			staffRepository,
			attendanceRepository,
			blobs,
			gateway,
			phoneValidator,
			cfg.Attendance.MergeWindow,
			logger,
		)

		listener := bot.NewListener(api, bot.NewRouter(phoneValidator), reconciler, cfg.Telegram.PollTimeout, logger)
		go listener.Run(listenerCtx)
	} else {
		logger.Info("Telegram transport disabled, skipping listener")
	}

	logger.Info("Services initialized")

	// Initialize handlers
	staffHandler := handlers.NewStaffHandler(directoryService, documentService, auditService, blobs, logger)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, logger)
	documentHandler := handlers.NewDocumentHandler(documentService, auditService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Uploaded blobs (selfies, documents, profile pictures)
	router.Static(cfg.Storage.PublicPrefix, blobs.Dir())

	// API routes
	api := router.Group("/api")
	api.Use(middleware.OwnerAuth(jwtService, cfg.Security.AuthRequired))
	{
		staff := api.Group("/staff")
		{
			staff.GET("", staffHandler.List)
			staff.POST("", staffHandler.Create)

			// Registered before /:id so gin does not treat "attendance" as an ID.
			staff.GET("/attendance/today", attendanceHandler.Today)

			staff.GET("/:id", staffHandler.Get)
			staff.PUT("/:id", staffHandler.Update)
			staff.DELETE("/:id", staffHandler.Delete)

			staff.GET("/:id/attendance", attendanceHandler.DayEntries)
			staff.GET("/:id/payroll", attendanceHandler.Payroll)

			staff.POST("/:id/documents", documentHandler.Upload)
			staff.DELETE("/:id/documents/:docId", documentHandler.Delete)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop the Telegram listener and cron jobs
	stopListener()
	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
