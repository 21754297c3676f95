package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/diagnosis/receipt-downloader/internal/http/handlers"
	"github.com/diagnosis/receipt-downloader/internal/render"
	"github.com/diagnosis/receipt-downloader/internal/repo/postgres"
	"github.com/diagnosis/receipt-downloader/internal/service"
	"github.com/diagnosis/receipt-downloader/internal/web"
	"github.com/diagnosis/receipt-downloader/pkg/config"
	"github.com/diagnosis/receipt-downloader/pkg/database"
	"github.com/diagnosis/receipt-downloader/pkg/logger"
	mw "github.com/diagnosis/receipt-downloader/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to database. A missing DATABASE_URL is not fatal: the
	// service runs and every store-dependent route reports unavailable.
	ctx := context.Background()
	var pool *pgxpool.Pool
	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set; receipt lookups will report store unavailable")
	} else {
		var err error
		pool, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	receiptRepo := postgres.NewReceiptRepo(pool)
	verifyService := service.NewVerifyService(receiptRepo)

	renderer := render.NewChromeRenderer(cfg.Render)
	defer renderer.Close()

	h := handlers.NewReceiptHandler(verifyService, renderer)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("receipts"))
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", h.Home)
	r.Get("/health", handlers.Health)
	r.Mount("/receipt", h.Routes())
	r.Handle("/static/*", http.StripPrefix("/static/", web.StaticHandler()))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down receipt service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Receipt service shutdown error", "error", err)
		}
	}()

	logger.Info("Receipt service listening", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Receipt service failed", "error", err)
		os.Exit(1)
	}
}
