package repositories

import (
	"context"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
)

// TokenAccountReader defines read operations for token accounts.
type TokenAccountReader interface {
	// FindAccountByID retrieves a token account by its identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.TokenAccount, error)

	// ListEntries returns the most recent ledger entries for an account,
	// newest first.
	ListEntries(ctx context.Context, accountID string, limit int) ([]domain.TokenEntry, error)
}

// TokenAccountWriter defines mutating operations on token accounts. All
// balance changes are conditional single-statement updates so that the
// non-negative invariant holds under concurrent callers without any
// application-level locking.
type TokenAccountWriter interface {
	// SaveAccount inserts a new account with a zero balance.
	SaveAccount(ctx context.Context, account domain.TokenAccount) error

	// ApplyDebit atomically decrements the balance iff it covers the amount
	// and records the entry. A repeated idempotency key replays the recorded
	// outcome with Applied=false. Returns apperrors.ErrInsufficientTokens
	// when the balance does not cover the amount.
	ApplyDebit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error)

	// ApplyCredit atomically increments the balance and records the entry,
	// with the same idempotency-key semantics as ApplyDebit.
	ApplyCredit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error)

	// ApplyCreditWithPurchase credits a bought token pack and records the
	// purchase in the same transaction, so the balance never carries tokens
	// without a matching purchase row. Idempotency-key semantics as
	// ApplyCredit; a replayed key skips the purchase row too.
	ApplyCreditWithPurchase(ctx context.Context, accountID string, amount int64, idempotencyKey string, purchase domain.TokenPurchase) (*domain.DebitResult, error)

	// ReverseEntry refunds the debit recorded under the key and deletes it in
	// the same transaction. Consuming the key makes a later call that carries
	// it debit for real instead of replaying the reversed outcome. Reversing
	// a key with no recorded debit is a no-op.
	ReverseEntry(ctx context.Context, accountID string, amount int64, idempotencyKey string) error
}

// TokenRepositoryFacade combines all token ledger persistence operations.
type TokenRepositoryFacade interface {
	TokenAccountReader
	TokenAccountWriter
}
