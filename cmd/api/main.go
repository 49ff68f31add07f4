package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"resume-ats/internal/config"
	"resume-ats/internal/handlers"
	"resume-ats/internal/repositories"
	"resume-ats/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	candidateRepo := repositories.NewCandidateRepository(db)
	batchRepo := repositories.NewBatchRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize object storage
	var store services.ObjectStore
	switch cfg.Storage.Backend {
	case "gcs":
		store, err = services.NewGCSObjectStore(context.Background(), cfg.Storage.Bucket)
		if err != nil {
			log.Fatalf("❌ Failed to initialize GCS storage: %v", err)
		}
		log.Printf("✅ GCS storage initialized (bucket %s)\n", cfg.Storage.Bucket)
	default:
		store, err = services.NewDiskObjectStore(cfg.Storage.UploadPath)
		if err != nil {
			log.Fatalf("❌ Failed to initialize local storage: %v", err)
		}
		log.Printf("✅ Local storage initialized (%s)\n", cfg.Storage.UploadPath)
	}

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant-backed semantic search when configured
	var resumeIndex services.ResumeIndex
	if cfg.Qdrant.URL != "" {
		resumeIndex, err = services.NewQdrantResumeIndex(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := resumeIndex.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("⚠️  QDRANT_URL not set. Semantic search disabled.")
	}

	// Initialize pipeline services
	ocrService := services.NewTwoTierOCR(geminiService)
	extractor := services.NewTextExtractor(ocrService)
	structurer := services.NewLLMStructurer(geminiService, cfg.Gemini.Timeout)
	classifier := services.NewClassifierService()
	matcher := services.NewMatcherService(jobRepo, candidateRepo)

	processor := services.NewResumeProcessor(
		batchRepo,
		candidateRepo,
		store,
		extractor,
		structurer,
		classifier,
		resumeIndex,
		cfg.Worker.Concurrency,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(processor, cfg.Storage.MaxFileSize)
	batchHandler := handlers.NewBatchHandler(batchRepo)
	candidateHandler := handlers.NewCandidateHandler(candidateRepo, store, resumeIndex)
	jobHandler := handlers.NewJobHandler(jobRepo, matcher)
	dashboardHandler := handlers.NewDashboardHandler(candidateRepo, batchRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume ATS API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 25,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}
		return c.JSON(fiber.Map{
			"status":          "healthy",
			"database":        dbStatus,
			"semantic_search": resumeIndex != nil,
			"time":            time.Now(),
		})
	})

	// Batch ingestion
	api.Post("/resumes/upload", uploadHandler.HandleUpload)
	api.Get("/batches", batchHandler.HandleList)
	api.Get("/batches/:batch_id", batchHandler.HandleGet)

	// Candidates
	api.Get("/candidates", candidateHandler.HandleList)
	api.Get("/candidates/search", candidateHandler.HandleSearch)
	api.Get("/candidates/:id", candidateHandler.HandleGet)
	api.Get("/candidates/:id/resume", candidateHandler.HandleResumeURL)
	api.Patch("/candidates/:id/status", candidateHandler.HandleUpdateStatus)
	api.Delete("/candidates/:id", candidateHandler.HandleDelete)

	// Job requirements and matching
	api.Post("/jobs", jobHandler.HandleCreate)
	api.Get("/jobs", jobHandler.HandleList)
	api.Get("/jobs/:id/matches", jobHandler.HandleMatch)

	// Dashboard
	api.Get("/dashboard/stats", dashboardHandler.HandleStats)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume ATS API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resumes/upload",
				"GET /api/v1/batches/:batch_id",
				"GET /api/v1/candidates",
				"GET /api/v1/candidates/search",
				"POST /api/v1/jobs",
				"GET /api/v1/jobs/:id/matches",
				"GET /api/v1/dashboard/stats",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
