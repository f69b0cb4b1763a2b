package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"punchease/internal/api"
	"punchease/internal/auth"
	"punchease/internal/config"
	"punchease/internal/manager"
	"punchease/internal/messaging"
	"punchease/internal/metrics"
	"punchease/internal/storage"
	"punchease/internal/tenant"
)

// @title PunchEase API
// @version 1.0
// @description Multi-tenant workforce management API with slug-scoped company portals
// @host localhost:8080
// @BasePath /
// @schemes http

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Init Metrics
	metrics.Init()

	// Load Configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded")

	// Setup JWT Secret
	auth.SetSecret(cfg.Auth.JWTSecret)

	// Init PostgreSQL
	db, err := storage.NewStorage(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.DB.Close()
	log.Println("PostgreSQL connected")

	// Init RabbitMQ
	rabbitClient, err := messaging.NewRabbitClient(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitClient.Close()
	log.Println("RabbitMQ connected")

	// Init CompanyManager
	rabbitConn := rabbitClient.GetConnection()
	cm := manager.NewCompanyManager(rabbitConn, rabbitClient, db, cfg.Workers)

	// Start background loop for updating queue depth metrics
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			for _, companyID := range cm.ListCompanyIDs() {
				rabbitClient.UpdateQueueDepth(companyID)
			}
		}
	}()

	// Recover Existing Companies
	companies, err := db.ListCompanies()
	if err != nil {
		log.Fatalf("Failed to load companies: %v", err)
	}

	for _, company := range companies {
		if err := cm.Register(company.ID); err != nil {
			log.Printf("⚠️ Failed to recover company %s: %v", company.ID, err)
			continue
		}
		log.Printf("🔁 Recovered company %s (%s)", company.ID, company.Slug)
	}

	// Init API
	resolver := tenant.NewResolver(db)
	apiHandler := api.NewAPI(cm, db, resolver, rabbitClient, cfg)
	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: apiHandler.Router(),
	}

	// Graceful Shutdown Setup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 Starting API server on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done() // Wait for interrupt signal
	log.Println("Shutdown initiated...")

	// Shutdown sequence
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	// Stop all company change feeds
	cm.ShutdownAll()

	log.Println("Graceful shutdown complete")
}
