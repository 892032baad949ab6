package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ImpactGLX323/IntelliFlow/internal/analytics"
	"github.com/ImpactGLX323/IntelliFlow/internal/auth"
	"github.com/ImpactGLX323/IntelliFlow/internal/config"
	"github.com/ImpactGLX323/IntelliFlow/internal/db"
	"github.com/ImpactGLX323/IntelliFlow/internal/llm"
	"github.com/ImpactGLX323/IntelliFlow/internal/middleware"
	"github.com/ImpactGLX323/IntelliFlow/internal/rag"
	"github.com/ImpactGLX323/IntelliFlow/internal/roadmap"
	"github.com/ImpactGLX323/IntelliFlow/internal/routes"
	"github.com/ImpactGLX323/IntelliFlow/internal/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Telemetry
	tp, err := telemetry.Init(ctx, cfg.OTelServiceName, cfg.OTelEndpoint, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to init telemetry: %v", err)
	}

	metrics, err := telemetry.NewGenAIMetrics(tp.Meter)
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}

	// Database
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// LLM client
	var primary llm.Provider
	switch cfg.LLMProvider {
	case "ollama":
		primary = llm.NewOllamaProvider(cfg.OllamaBaseURL)
	case "google":
		primary = llm.NewGoogleProvider(cfg.GoogleAPIKey)
	default:
		primary = llm.NewOpenAIProvider(cfg.OpenAIAPIKey)
	}

	var fallback llm.Provider
	if cfg.FallbackProvider == "anthropic" && cfg.AnthropicAPIKey != "" {
		fallback = llm.NewAnthropicProvider(cfg.AnthropicAPIKey)
	}

	llmClient := &llm.Client{
		Primary:              primary,
		Fallback:             fallback,
		Tracer:               tp.Tracer,
		Metrics:              metrics,
		PrimaryProvider:      cfg.LLMProvider,
		FallbackProviderName: cfg.FallbackProvider,
		FallbackModel:        cfg.FallbackModel,
	}

	// Copilot
	generator := &roadmap.Generator{
		Context:     &rag.ContextBuilder{DB: pool, Tracer: tp.Tracer},
		Embedder:    llm.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel),
		LLM:         llmClient,
		Splitter:    rag.NewSplitter(),
		Tracer:      tp.Tracer,
		Metrics:     metrics,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	}

	engine := &analytics.Engine{DB: pool, Tracer: tp.Tracer, Metrics: metrics}
	authSvc := auth.NewService(pool, cfg.JWTSecret, cfg.TokenTTL)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.OTelHTTP(cfg.OTelServiceName))

	r.Get("/api/health", routes.HealthHandler(cfg.OTelServiceName))
	r.Post("/api/auth/register", routes.RegisterHandler(authSvc))
	r.Post("/api/auth/login", routes.LoginHandler(authSvc))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authSvc))

		r.Get("/api/products", routes.ListProductsHandler(pool))
		r.Post("/api/products", routes.CreateProductHandler(pool))
		r.Get("/api/products/{id}", routes.GetProductHandler(pool))
		r.Put("/api/products/{id}", routes.UpdateProductHandler(pool))
		r.Delete("/api/products/{id}", routes.DeleteProductHandler(pool))
		r.Get("/api/products/{id}/history", routes.ProductHistoryHandler(pool))

		r.Get("/api/sales", routes.ListSalesHandler(pool))
		r.Post("/api/sales", routes.CreateSaleHandler(pool))
		r.Get("/api/sales/{id}", routes.GetSaleHandler(pool))

		r.Get("/api/analytics/dashboard", routes.DashboardHandler(engine))
		r.Get("/api/analytics/best-sellers", routes.BestSellersHandler(engine))
		r.Get("/api/analytics/inventory-risks", routes.InventoryRisksHandler(engine))

		r.Post("/api/copilot/roadmap", routes.RoadmapHandler(generator))
		r.Get("/api/copilot/insights", routes.InsightsHandler(generator))

		r.Get("/api/alerts", routes.ListAlertsHandler(pool))
		r.Post("/api/alerts/{id}/resolve", routes.ResolveAlertHandler(pool))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting %s on :%s", cfg.OTelServiceName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	pool.Close()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("Telemetry shutdown error: %v", err)
	}
}
