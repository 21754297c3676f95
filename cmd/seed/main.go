// Administrative seeding tool. Inserts a receipt row for demos and
// testing; the customer-facing service never writes.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/diagnosis/receipt-downloader/internal/domain"
	"github.com/diagnosis/receipt-downloader/internal/repo/postgres"
	"github.com/diagnosis/receipt-downloader/internal/utils"
	"github.com/diagnosis/receipt-downloader/pkg/config"
	"github.com/diagnosis/receipt-downloader/pkg/database"
	"github.com/diagnosis/receipt-downloader/pkg/logger"
)

func main() {
	var (
		id          = flag.String("id", "", "receipt id (generated when empty)")
		name        = flag.String("name", "", "customer name (required)")
		phone       = flag.String("phone", "", "customer phone (required)")
		email       = flag.String("email", "", "customer email")
		amount      = flag.Float64("amount", 0, "amount")
		description = flag.String("description", "", "description")
		method      = flag.String("method", "", "payment method")
		status      = flag.String("status", string(domain.ReceiptCompleted), "status")
	)
	flag.Parse()

	if *name == "" || *phone == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !utils.IsValidPhone(*phone) {
		logger.Error("phone must contain at least 7 digits", "phone", *phone)
		os.Exit(2)
	}
	st, ok := domain.ParseReceiptStatus(*status)
	if !ok {
		logger.Error("unknown status", "status", *status)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required for seeding")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	receiptID := *id
	if receiptID == "" {
		receiptID = "R-" + strings.ToUpper(uuid.NewString()[:8])
	}

	rec := &domain.Receipt{
		ReceiptID:     receiptID,
		CustomerName:  *name,
		CustomerPhone: *phone,
		CustomerEmail: *email,
		Amount:        *amount,
		Description:   *description,
		PaymentMethod: *method,
		Status:        st,
		CreatedAt:     time.Now(),
	}

	repo := postgres.NewReceiptRepo(pool)
	if err := repo.Insert(ctx, rec); err != nil {
		logger.Error("Failed to insert receipt", "error", err)
		os.Exit(1)
	}

	logger.Info("receipt seeded", "receipt_id", rec.ReceiptID, "row_id", rec.ID)
}
