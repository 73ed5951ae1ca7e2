package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenAccount holds the prepaid publication-token balance for a paying
// company. The balance is integral by contract and never goes below zero;
// it is mutated exclusively through the ledger's atomic operations.
type TokenAccount struct {
	AccountID string `json:"accountID"` // Primary key (UUID)
	Balance   int64  `json:"balance"`
	AuditFields
}

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// TokenEntry is a single applied ledger operation. Entries are append-only
// and double as the idempotency record: a retried operation carrying the
// same key replays the recorded outcome instead of mutating the balance
// again. Refused debits are not recorded.
type TokenEntry struct {
	EntryID        string    `json:"entryID"` // Primary key (UUID)
	AccountID      string    `json:"accountID"`
	Amount         int64     `json:"amount"` // Always positive; direction is EntryType
	EntryType      EntryType `json:"entryType"`
	IdempotencyKey string    `json:"idempotencyKey,omitempty"`
	BalanceAfter   int64     `json:"balanceAfter"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TokenPurchase records a token-pack top-up and the monetary price paid.
// Purchases credit the account balance in the same ledger operation.
type TokenPurchase struct {
	PurchaseID   string          `json:"purchaseID"` // Primary key (UUID)
	AccountID    string          `json:"accountID"`
	Tokens       int64           `json:"tokens"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// DebitResult reports the outcome of a successful debit. Applied is false
// when the operation was deduplicated by idempotency key; callers that
// compensate a debit on a later failure must only do so when their own call
// actually applied it.
type DebitResult struct {
	Applied      bool
	BalanceAfter int64
}
