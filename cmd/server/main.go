package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"coursearchitect/internal/config"
	"coursearchitect/internal/database"
	"coursearchitect/internal/export"
	"coursearchitect/internal/extract"
	"coursearchitect/internal/generate"
	"coursearchitect/internal/handlers"
	"coursearchitect/internal/jobs"
	"coursearchitect/internal/library"
	"coursearchitect/internal/logging"
	"coursearchitect/internal/middleware"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Course Architect Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s, Model: %s)", cfg.Port, cfg.DatabasePath, cfg.GeminiModel)

	// Initialize SQLite KV store
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Document extraction pipeline: poppler rasterization + Vision OCR.
	// The OCR engine is created lazily per document, so missing Vision
	// credentials only surface when a scanned page actually needs OCR.
	rasterizer := extract.NewRasterizer(cfg.PdftoppmPath, cfg.RenderDPI)
	recognizerFactory := extract.NewVisionRecognizerFactory(cfg.OCRLanguages)
	extractor := extract.New(rasterizer, recognizerFactory)
	log.Printf("📄 Extraction pipeline ready (pdftoppm=%s, dpi=%d, ocr_langs=%v)", cfg.PdftoppmPath, cfg.RenderDPI, cfg.OCRLanguages)

	// Gemini generation service
	genService, err := generate.NewService(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize generation service: %v", err)
	}
	assistant := generate.NewAssistant(genService)
	log.Println("✅ Generation service initialized")

	// PDF renderer looks content up straight from the store.
	renderer := export.NewRenderer(func(itemID string) (string, bool) {
		content, ok, err := db.GetContent(itemID)
		if err != nil {
			log.Printf("⚠️  Content lookup failed for %s: %v", itemID, err)
			return "", false
		}
		return content, ok
	})

	libService := library.NewService(db)

	// Background jobs
	scheduler := jobs.NewJobScheduler()
	if cfg.BackupEnabled {
		scheduler.Register("library_snapshot", jobs.NewLibrarySnapshotJob(libService, cfg.BackupDir))
		log.Printf("🕐 Background jobs: library snapshot (daily 3 AM UTC, dir=%s)", cfg.BackupDir)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start job scheduler: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Course Architect v1.0",
		ReadTimeout:  300 * time.Second, // generation streams can run for minutes
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  300 * time.Second,
		BodyLimit:    50 * 1024 * 1024, // multi-file document uploads
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("coursearchitect")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Rate limiting
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Generate=%d/min, Upload=%d/min, Export=%d/min, WS=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.GenerateMax,
		rateLimitConfig.UploadMax,
		rateLimitConfig.ExportMax,
		rateLimitConfig.WebSocketMax,
	)

	// Fiber's CORS middleware does not allow AllowCredentials with
	// wildcard origins; credentials are unnecessary here anyway.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: cfg.AllowedOrigins != "*",
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", cfg.AllowedOrigins)

	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	courseHandler := handlers.NewCourseHandler()
	contentHandler := handlers.NewContentHandler(db)
	contextHandler := handlers.NewContextHandler(db)
	sourcesHandler := handlers.NewSourcesHandler(extractor, db)
	generateHandler := handlers.NewGenerateHandler(genService, db)
	libraryHandler := handlers.NewLibraryHandler(libService)
	exportHandler := handlers.NewExportHandler(renderer)
	assistantHandler := handlers.NewAssistantHandler(assistant)
	themeHandler := handlers.NewThemeHandler(db)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")

	api.Get("/course", courseHandler.GetStructure)
	api.Get("/course/units/:unitID", courseHandler.GetUnit)
	api.Get("/course/items/:itemID", courseHandler.GetItem)

	api.Get("/content/:itemID", contentHandler.Get)
	api.Put("/content/:itemID", contentHandler.Save)
	api.Delete("/content/:itemID", contentHandler.Delete)
	api.Get("/content/:itemID/preview", contentHandler.Preview)

	api.Get("/context", contextHandler.Get)
	api.Put("/context", contextHandler.Set)
	api.Delete("/context", contextHandler.Clear)

	api.Post("/sources/upload", middleware.UploadRateLimiter(rateLimitConfig), sourcesHandler.Upload)

	api.Post("/generate", middleware.GenerateRateLimiter(rateLimitConfig), generateHandler.Generate)

	api.Get("/library", libraryHandler.List)
	api.Get("/library/export", libraryHandler.Export)
	api.Post("/library/import", libraryHandler.Import)

	api.Get("/export/course", middleware.ExportRateLimiter(rateLimitConfig), exportHandler.Course)
	api.Get("/export/units/:unitID", middleware.ExportRateLimiter(rateLimitConfig), exportHandler.Unit)

	api.Post("/assistant/chat", middleware.GenerateRateLimiter(rateLimitConfig), assistantHandler.Chat)
	api.Post("/assistant/search", middleware.GenerateRateLimiter(rateLimitConfig), assistantHandler.Search)

	api.Get("/theme", themeHandler.Get)
	api.Put("/theme", themeHandler.Set)

	// WebSocket endpoints: generation streaming and upload progress
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Use("/ws", middleware.WebSocketRateLimiter(rateLimitConfig))
	app.Get("/ws/generate", websocket.New(generateHandler.Stream))
	app.Get("/ws/uploads/:id", websocket.New(sourcesHandler.Progress))

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		scheduler.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
