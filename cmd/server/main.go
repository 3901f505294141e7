package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/eemerson/paybox-server/internal/api"
	"github.com/eemerson/paybox-server/internal/config"
	"github.com/eemerson/paybox-server/internal/logger"
	"github.com/eemerson/paybox-server/internal/navitel"
	"github.com/eemerson/paybox-server/internal/ocr"
	"github.com/eemerson/paybox-server/internal/repository"
	"github.com/eemerson/paybox-server/internal/service"
	"github.com/eemerson/paybox-server/internal/storage"
)

func main() {
	// A missing .env is fine in production; the environment is already set.
	_ = godotenv.Load()

	log := logger.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Blob storage and attachment ingestion
	uploader, err := storage.NewS3Uploader(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up blob storage")
	}
	ingestor := storage.NewIngestor(uploader, log)

	// Create service
	svc := service.NewDefaultService(repo, ingestor, cfg.Auth.JWTSecret, log)

	// Vision OCR client
	extractor, err := ocr.NewClient(context.Background(), cfg.OCR, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up OCR client")
	}

	// GPS vendor client
	fleet := navitel.NewClient(cfg.Navitel)

	// Create API handler
	handler := api.NewHandler(svc, extractor, fleet, log)

	// Set up Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(log))

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", serverAddr).Msg("starting server")
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
