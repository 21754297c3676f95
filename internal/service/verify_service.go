package service

import (
	"context"
	"fmt"

	"github.com/diagnosis/receipt-downloader/internal/domain"
	"github.com/diagnosis/receipt-downloader/internal/repo/postgres"
	"github.com/diagnosis/receipt-downloader/internal/utils"
)

// VerifyService proves a caller owns a receipt by matching the phone
// number they supply against the stored one. Both the HTML view path and
// the PDF download path run this in full on every request; there is no
// session and no cached verification result.
type VerifyService interface {
	Verify(ctx context.Context, receiptID, claimedPhone string) (*domain.Receipt, error)
}

type verifyService struct {
	repo postgres.ReceiptRepo
}

func NewVerifyService(repo postgres.ReceiptRepo) VerifyService {
	return &verifyService{repo: repo}
}

func (s *verifyService) Verify(ctx context.Context, receiptID, claimedPhone string) (*domain.Receipt, error) {
	receiptID = utils.NormalizeString(receiptID)
	if receiptID == "" {
		return nil, fmt.Errorf("%w: receipt id is required", domain.ErrInvalidInput)
	}

	claimed := utils.DigitsOnly(claimedPhone)
	if claimed == "" {
		return nil, fmt.Errorf("%w: phone number is required", domain.ErrInvalidInput)
	}

	if !s.repo.Available() {
		return nil, domain.ErrStoreUnavailable
	}

	rec, err := s.repo.GetByReceiptID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if rec == nil {
		return nil, domain.ErrReceiptNotFound
	}

	// Exact digit-sequence equality. No country-code normalization and no
	// fuzzy matching: the caller must know the number as stored.
	if claimed != utils.DigitsOnly(rec.CustomerPhone) {
		return nil, domain.ErrPhoneMismatch
	}

	return rec, nil
}
