package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/dto"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
)

// tokenLedgerService guards the token balances. Every mutation funnels into
// the repository's conditional updates; this layer adds key derivation,
// validation and the purchase flow.
type tokenLedgerService struct {
	tokenRepo portsrepo.TokenRepositoryFacade
}

// NewTokenLedgerService creates a new token ledger service.
func NewTokenLedgerService(tokenRepo portsrepo.TokenRepositoryFacade) portssvc.TokenLedgerSvcFacade {
	return &tokenLedgerService{tokenRepo: tokenRepo}
}

var _ portssvc.TokenLedgerSvcFacade = (*tokenLedgerService)(nil)

// CreateAccount opens an empty token account for a paying company.
func (s *tokenLedgerService) CreateAccount(ctx context.Context, req dto.CreateTokenAccountRequest, userID string) (*domain.TokenAccount, error) {
	now := time.Now().UTC()
	account := domain.TokenAccount{
		AccountID: uuid.NewString(),
		Balance:   0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.tokenRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create token account: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Token account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

// GetAccount retrieves an account with its current balance.
func (s *tokenLedgerService) GetAccount(ctx context.Context, accountID string) (*domain.TokenAccount, error) {
	return s.tokenRepo.FindAccountByID(ctx, accountID)
}

// ListEntries returns recent ledger entries for an account, newest first.
func (s *tokenLedgerService) ListEntries(ctx context.Context, accountID string, limit int) ([]domain.TokenEntry, error) {
	if _, err := s.tokenRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.tokenRepo.ListEntries(ctx, accountID, limit)
}

// Debit atomically charges tokens from an account. Insufficient balance is
// a normal outcome surfaced as apperrors.ErrInsufficientTokens; it is never
// retried here and leaves the balance untouched.
func (s *tokenLedgerService) Debit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: debit amount must be positive", apperrors.ErrValidation)
	}

	result, err := s.tokenRepo.ApplyDebit(ctx, accountID, amount, idempotencyKey)
	if err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	if result.Applied {
		logger.Info("Tokens debited",
			slog.String("account_id", accountID),
			slog.Int64("amount", amount),
			slog.Int64("balance_after", result.BalanceAfter),
		)
	} else {
		logger.Info("Debit deduplicated by idempotency key",
			slog.String("account_id", accountID),
			slog.String("idempotency_key", idempotencyKey),
		)
	}
	return result, nil
}

// Credit atomically adds tokens to an account.
func (s *tokenLedgerService) Credit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit amount must be positive", apperrors.ErrValidation)
	}

	result, err := s.tokenRepo.ApplyCredit(ctx, accountID, amount, idempotencyKey)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Tokens credited",
		slog.String("account_id", accountID),
		slog.Int64("amount", amount),
		slog.Bool("applied", result.Applied),
	)
	return result, nil
}

// Reverse refunds the debit recorded under the key and consumes the key, so
// the operation that charged it can be retried and will debit again. Used to
// compensate a charge whose paired state change failed to persist.
func (s *tokenLedgerService) Reverse(ctx context.Context, accountID string, amount int64, idempotencyKey string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: reversal amount must be positive", apperrors.ErrValidation)
	}

	if err := s.tokenRepo.ReverseEntry(ctx, accountID, amount, idempotencyKey); err != nil {
		return err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Debit reversed",
		slog.String("account_id", accountID),
		slog.Int64("amount", amount),
		slog.String("idempotency_key", idempotencyKey),
	)
	return nil
}

// Purchase credits a bought token pack and records the monetary price. The
// credit and the purchase row are written in one repository transaction, and
// the credit carries the purchase's idempotency key, so a retried request
// neither adds the tokens twice nor records a second purchase.
func (s *tokenLedgerService) Purchase(ctx context.Context, accountID string, req dto.PurchaseTokensRequest, userID string) (*domain.TokenPurchase, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: purchase price must not be negative", apperrors.ErrValidation)
	}

	purchase := domain.TokenPurchase{
		PurchaseID:   uuid.NewString(),
		AccountID:    accountID,
		Tokens:       req.Tokens,
		Price:        req.Price,
		CurrencyCode: req.CurrencyCode,
		CreatedAt:    time.Now().UTC(),
	}

	key := req.IdempotencyKey
	if key == "" {
		key = purchase.PurchaseID + ":purchase"
	}

	result, err := s.tokenRepo.ApplyCreditWithPurchase(ctx, accountID, req.Tokens, key, purchase)
	if err != nil {
		return nil, fmt.Errorf("failed to credit purchased tokens: %w", err)
	}
	if !result.Applied {
		// Replayed purchase; the original already credited and was recorded.
		middleware.GetLoggerFromCtx(ctx).Info("Purchase replay ignored", slog.String("idempotency_key", key))
		return &purchase, nil
	}

	middleware.GetLoggerFromCtx(ctx).Info("Token pack purchased",
		slog.String("account_id", accountID),
		slog.Int64("tokens", req.Tokens),
		slog.String("price", req.Price.String()),
	)
	return &purchase, nil
}
