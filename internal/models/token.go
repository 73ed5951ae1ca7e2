package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenAccount is the persisted token balance row. The balance column
// carries a CHECK (balance >= 0) constraint; all mutations go through
// conditional updates in the repository.
type TokenAccount struct {
	AccountID string `db:"account_id"`
	Balance   int64  `db:"balance"`
	AuditFields
}

// EntryType is the direction of a ledger entry row.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// TokenEntry is an applied ledger operation row. idempotency_key carries a
// unique index so a replayed operation surfaces as a conflict rather than a
// second balance mutation.
type TokenEntry struct {
	EntryID        string    `db:"entry_id"`
	AccountID      string    `db:"account_id"`
	Amount         int64     `db:"amount"`
	EntryType      EntryType `db:"entry_type"`
	IdempotencyKey string    `db:"idempotency_key"` // Nullable
	BalanceAfter   int64     `db:"balance_after"`
	CreatedAt      time.Time `db:"created_at"`
}

// TokenPurchase is a recorded token-pack top-up.
type TokenPurchase struct {
	PurchaseID   string          `db:"purchase_id"`
	AccountID    string          `db:"account_id"`
	Tokens       int64           `db:"tokens"`
	Price        decimal.Decimal `db:"price"`
	CurrencyCode string          `db:"currency_code"`
	CreatedAt    time.Time       `db:"created_at"`
}
