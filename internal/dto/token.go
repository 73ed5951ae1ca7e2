package dto

import (
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTokenAccountRequest defines the data needed to open a token account.
type CreateTokenAccountRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
}

// PurchaseTokensRequest defines a token-pack top-up.
type PurchaseTokensRequest struct {
	Tokens       int64           `json:"tokens" binding:"required,gt=0"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	// Optional caller dedup key so a retried purchase credits once.
	IdempotencyKey string `json:"idempotencyKey"`
}

// TokenAccountResponse mirrors domain.TokenAccount.
type TokenAccountResponse struct {
	AccountID     string    `json:"accountID"`
	Balance       int64     `json:"balance"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// TokenEntryResponse mirrors domain.TokenEntry for audit listings.
type TokenEntryResponse struct {
	EntryID      string           `json:"entryID"`
	Amount       int64            `json:"amount"`
	EntryType    domain.EntryType `json:"entryType"`
	BalanceAfter int64            `json:"balanceAfter"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// PurchaseResponse mirrors domain.TokenPurchase.
type PurchaseResponse struct {
	PurchaseID   string          `json:"purchaseID"`
	AccountID    string          `json:"accountID"`
	Tokens       int64           `json:"tokens"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToTokenAccountResponse converts a domain.TokenAccount to its DTO.
func ToTokenAccountResponse(acc *domain.TokenAccount) TokenAccountResponse {
	return TokenAccountResponse{
		AccountID:     acc.AccountID,
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToTokenEntryResponses converts ledger entries to their DTO form.
func ToTokenEntryResponses(entries []domain.TokenEntry) []TokenEntryResponse {
	out := make([]TokenEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = TokenEntryResponse{
			EntryID:      e.EntryID,
			Amount:       e.Amount,
			EntryType:    e.EntryType,
			BalanceAfter: e.BalanceAfter,
			CreatedAt:    e.CreatedAt,
		}
	}
	return out
}

// ToPurchaseResponse converts a domain.TokenPurchase to its DTO.
func ToPurchaseResponse(p *domain.TokenPurchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:   p.PurchaseID,
		AccountID:    p.AccountID,
		Tokens:       p.Tokens,
		Price:        p.Price,
		CurrencyCode: p.CurrencyCode,
		CreatedAt:    p.CreatedAt,
	}
}
