package services

import (
	"context"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	"github.com/HireDeck/hiredeck_backend/internal/dto"
)

// TokenLedgerReaderSvc defines read operations on the token ledger.
type TokenLedgerReaderSvc interface {
	// GetAccount retrieves a token account with its current balance.
	GetAccount(ctx context.Context, accountID string) (*domain.TokenAccount, error)

	// ListEntries returns recent ledger entries for an account, newest first.
	ListEntries(ctx context.Context, accountID string, limit int) ([]domain.TokenEntry, error)
}

// TokenLedgerWriterSvc defines balance-changing operations. Both operations
// take a caller-supplied idempotency key so a retried network call never
// charges or refunds twice.
type TokenLedgerWriterSvc interface {
	// CreateAccount creates an empty token account.
	CreateAccount(ctx context.Context, req dto.CreateTokenAccountRequest, userID string) (*domain.TokenAccount, error)

	// Debit atomically charges tokens. Insufficient balance is reported as
	// apperrors.ErrInsufficientTokens and leaves the balance untouched.
	Debit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error)

	// Credit atomically adds tokens.
	Credit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error)

	// Reverse refunds the debit recorded under the key and consumes the key,
	// so the operation that charged it can be retried and debit again.
	// Compensates a debit whose paired state transition failed.
	Reverse(ctx context.Context, accountID string, amount int64, idempotencyKey string) error

	// Purchase credits a bought token pack and records the monetary price.
	Purchase(ctx context.Context, accountID string, req dto.PurchaseTokensRequest, userID string) (*domain.TokenPurchase, error)
}

// TokenLedgerSvcFacade combines all token ledger service interfaces.
type TokenLedgerSvcFacade interface {
	TokenLedgerReaderSvc
	TokenLedgerWriterSvc
}
