package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/huggingface"
	"github.com/pricelens/backend/internal/infrastructure/serpapi"
	"github.com/pricelens/backend/internal/infrastructure/session"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Session TTL: %s", cfg.Session.TTL)

	// Initialize infrastructure dependencies
	sessionStore := session.NewMemoryStore(cfg.Session.TTL)

	searchClient := serpapi.NewClient(cfg.SerpAPI.APIKey, cfg.SerpAPI.BaseURL, cfg.SerpAPI.Timeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		searchClient.SetDebug(true)
		log.Printf("SerpAPI client debug mode enabled")
	}

	// Query normalization is optional; without a token searches just use the raw query
	var normalizer domain.QueryNormalizer
	if cfg.HuggingFace.Token != "" {
		normalizer = huggingface.NewNormalizer(
			cfg.HuggingFace.Token,
			cfg.HuggingFace.BaseURL,
			cfg.HuggingFace.Model,
			cfg.HuggingFace.Timeout,
		)
		log.Printf("Query normalization enabled: %s", cfg.HuggingFace.Model)
	} else {
		log.Printf("Query normalization disabled (no Hugging Face token configured)")
	}

	// Initialize usecase layer
	resolver := usecase.NewResolver(searchClient)
	comparisonService := usecase.NewComparisonService(resolver, normalizer, cfg.Retailers)

	for _, r := range cfg.Retailers {
		log.Printf("Retailer configured: %s", r.Domain)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService, sessionStore, cfg)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, sessionStore)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
