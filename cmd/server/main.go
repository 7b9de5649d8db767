package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helioscrm/pipeline/internal/api"
	"github.com/helioscrm/pipeline/internal/auth"
	"github.com/helioscrm/pipeline/internal/config"
	"github.com/helioscrm/pipeline/internal/db"
	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/export"
	"github.com/helioscrm/pipeline/internal/middleware"
	"github.com/helioscrm/pipeline/internal/repository"
	"github.com/helioscrm/pipeline/internal/service"
	"github.com/helioscrm/pipeline/internal/store"

	"github.com/rs/cors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create the table-store client and repositories
	client := store.NewPgxClient(conn.Pool)
	historyRepo := repository.NewHistoryRepository(client)
	statusChangeRepo := repository.NewStatusChangeRepository(client)
	activityRepo := repository.NewActivityRepository(client)
	dealRepo := repository.NewDealRepository(conn.Pool)
	contractRepo := repository.NewContractRepository(conn.Pool)
	customerRepo := repository.NewCustomerRepository(conn.Pool)

	// Create services
	recorder := service.NewHistoryRecorder(historyRepo, statusChangeRepo, time.Now)
	policy := domain.NewEditWindowPolicy(cfg.EditWindow, time.Now)

	dealService := service.NewDealService(dealRepo, activityRepo, recorder, nil)
	contractService := service.NewContractService(contractRepo, activityRepo, recorder, nil)
	customerService := service.NewCustomerService(customerRepo, activityRepo, recorder)
	activityService := service.NewActivityService(activityRepo, policy)
	timelineService := service.NewTimelineService(activityRepo, statusChangeRepo, historyRepo)

	handler := api.NewHandler(dealService, contractService, customerService, activityService, timelineService, cfg.TimelinePageSize)
	exportHandler := export.NewHTTPHandler(export.NewService(timelineService))

	mux := handler.Routes()
	mux.Handle("GET /api/export/timeline", exportHandler)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	root := middleware.LoggingMiddleware(
		auth.Middleware([]byte(cfg.AuthSecret))(
			corsHandler.Handler(mux),
		),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting pipeline server on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
