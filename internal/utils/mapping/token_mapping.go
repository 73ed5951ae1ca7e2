package mapping

import (
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	"github.com/HireDeck/hiredeck_backend/internal/models"
)

// ToModelTokenAccount converts a domain TokenAccount to a model TokenAccount
func ToModelTokenAccount(d domain.TokenAccount) models.TokenAccount {
	return models.TokenAccount{
		AccountID: d.AccountID,
		Balance:   d.Balance,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainTokenAccount converts a model TokenAccount to a domain TokenAccount
func ToDomainTokenAccount(m models.TokenAccount) domain.TokenAccount {
	return domain.TokenAccount{
		AccountID: m.AccountID,
		Balance:   m.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainTokenEntry converts a model TokenEntry to a domain TokenEntry
func ToDomainTokenEntry(m models.TokenEntry) domain.TokenEntry {
	return domain.TokenEntry{
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		Amount:         m.Amount,
		EntryType:      domain.EntryType(m.EntryType),
		IdempotencyKey: m.IdempotencyKey,
		BalanceAfter:   m.BalanceAfter,
		CreatedAt:      m.CreatedAt,
	}
}

// ToModelTokenPurchase converts a domain TokenPurchase to a model TokenPurchase
func ToModelTokenPurchase(d domain.TokenPurchase) models.TokenPurchase {
	return models.TokenPurchase{
		PurchaseID:   d.PurchaseID,
		AccountID:    d.AccountID,
		Tokens:       d.Tokens,
		Price:        d.Price,
		CurrencyCode: d.CurrencyCode,
		CreatedAt:    d.CreatedAt,
	}
}
