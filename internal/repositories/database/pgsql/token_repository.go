package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	portsrepo "github.com/HireDeck/hiredeck_backend/internal/core/ports/repositories"
	"github.com/HireDeck/hiredeck_backend/internal/models"
	"github.com/HireDeck/hiredeck_backend/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTokenRepository struct {
	BaseRepository
}

// NewTokenRepository creates a new repository for token ledger data.
func NewTokenRepository(pool *pgxpool.Pool) portsrepo.TokenRepositoryFacade {
	return &PgxTokenRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTokenRepository implements portsrepo.TokenRepositoryFacade
var _ portsrepo.TokenRepositoryFacade = (*PgxTokenRepository)(nil)

// SaveAccount inserts a new token account with its starting balance.
func (r *PgxTokenRepository) SaveAccount(ctx context.Context, account domain.TokenAccount) error {
	modelAcc := mapping.ToModelTokenAccount(account)

	query := `
		INSERT INTO token_accounts (account_id, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Balance,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: token account %s already exists", apperrors.ErrDuplicate, modelAcc.AccountID)
		}
		return fmt.Errorf("%w: failed to save token account %s: %w", apperrors.ErrLedgerUnavailable, modelAcc.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves a token account by its ID.
func (r *PgxTokenRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.TokenAccount, error) {
	query := `
		SELECT account_id, balance, created_at, created_by, last_updated_at, last_updated_by
		FROM token_accounts
		WHERE account_id = $1;
	`
	var modelAcc models.TokenAccount
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&modelAcc.AccountID,
		&modelAcc.Balance,
		&modelAcc.CreatedAt,
		&modelAcc.CreatedBy,
		&modelAcc.LastUpdatedAt,
		&modelAcc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find token account %s: %w", apperrors.ErrLedgerUnavailable, accountID, err)
	}

	domainAcc := mapping.ToDomainTokenAccount(modelAcc)
	return &domainAcc, nil
}

// ApplyDebit atomically decrements the balance and records the entry.
// The balance check and decrement happen in one conditional UPDATE, never as
// a read followed by a write, so concurrent debits racing for the same
// tokens serialize at the storage layer and the non-negative invariant
// holds. The entries table's unique idempotency_key index closes the window
// where two calls with the same key both pass the replay lookup: the loser's
// insert conflicts and its whole transaction, including the balance update,
// rolls back.
func (r *PgxTokenRepository) ApplyDebit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error) {
	return r.applyEntry(ctx, accountID, amount, models.Debit, idempotencyKey)
}

// ApplyCredit atomically increments the balance and records the entry, with
// the same idempotency semantics as ApplyDebit.
func (r *PgxTokenRepository) ApplyCredit(ctx context.Context, accountID string, amount int64, idempotencyKey string) (*domain.DebitResult, error) {
	return r.applyEntry(ctx, accountID, amount, models.Credit, idempotencyKey)
}

// errKeyRace marks a lost insert race on the idempotency key's unique index.
// The loser's transaction is aborted; callers resolve the winner's outcome
// outside it.
var errKeyRace = errors.New("concurrent duplicate of idempotency key")

func (r *PgxTokenRepository) applyEntry(ctx context.Context, accountID string, amount int64, entryType models.EntryType, idempotencyKey string) (*domain.DebitResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: ledger amount must be positive, got %d", apperrors.ErrValidation, amount)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	defer r.Rollback(ctx, tx) // No-op once committed

	result, err := r.applyEntryTx(ctx, tx, accountID, amount, entryType, idempotencyKey)
	if err != nil {
		if errors.Is(err, errKeyRace) {
			return r.resolveKeyRace(ctx, accountID, amount, entryType, idempotencyKey)
		}
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	return result, nil
}

// applyEntryTx runs the replay lookup, conditional balance update and entry
// insert inside the caller's transaction. Returns errKeyRace when a
// concurrent call with the same key won the insert.
func (r *PgxTokenRepository) applyEntryTx(ctx context.Context, tx pgx.Tx, accountID string, amount int64, entryType models.EntryType, idempotencyKey string) (*domain.DebitResult, error) {
	// Replay lookup: an already-applied operation with this key is a no-op
	// that returns the originally recorded outcome.
	if idempotencyKey != "" {
		replayed, err := r.findEntryByKey(ctx, tx, accountID, amount, entryType, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if replayed != nil {
			return replayed, nil
		}
	}

	var balanceAfter int64
	var err error
	if entryType == models.Debit {
		// Conditional update: decrement only if the balance covers the amount.
		updateQuery := `
			UPDATE token_accounts
			SET balance = balance - $2, last_updated_at = $3
			WHERE account_id = $1 AND balance >= $2
			RETURNING balance;
		`
		err = tx.QueryRow(ctx, updateQuery, accountID, amount, time.Now().UTC()).Scan(&balanceAfter)
	} else {
		updateQuery := `
			UPDATE token_accounts
			SET balance = balance + $2, last_updated_at = $3
			WHERE account_id = $1
			RETURNING balance;
		`
		err = tx.QueryRow(ctx, updateQuery, accountID, amount, time.Now().UTC()).Scan(&balanceAfter)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the account is missing or (for debits) the balance did
			// not cover the amount. Distinguish the two.
			exists, existsErr := r.accountExists(ctx, tx, accountID)
			if existsErr != nil {
				return nil, existsErr
			}
			if !exists {
				return nil, fmt.Errorf("%w: token account %s", apperrors.ErrNotFound, accountID)
			}
			return nil, fmt.Errorf("%w: account %s cannot cover %d tokens", apperrors.ErrInsufficientTokens, accountID, amount)
		}
		return nil, fmt.Errorf("%w: failed to update balance for account %s: %w", apperrors.ErrLedgerUnavailable, accountID, err)
	}

	entryQuery := `
		INSERT INTO token_entries (entry_id, account_id, amount, entry_type, idempotency_key, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	var key sql.NullString
	if idempotencyKey != "" {
		key = sql.NullString{String: idempotencyKey, Valid: true}
	}
	_, err = tx.Exec(ctx, entryQuery, uuid.NewString(), accountID, amount, entryType, key, balanceAfter, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w %s", errKeyRace, idempotencyKey)
		}
		return nil, fmt.Errorf("%w: failed to record ledger entry for account %s: %w", apperrors.ErrLedgerUnavailable, accountID, err)
	}

	return &domain.DebitResult{Applied: true, BalanceAfter: balanceAfter}, nil
}

// resolveKeyRace handles losing the insert race on the key's unique index.
// The loser's balance update rolled back with its aborted transaction; the
// winner's committed entry is the operation's outcome, so re-run the replay
// lookup outside the transaction and report it as deduplicated. A winner
// that has not committed yet surfaces as ErrDuplicate for the caller to
// retry.
func (r *PgxTokenRepository) resolveKeyRace(ctx context.Context, accountID string, amount int64, entryType models.EntryType, idempotencyKey string) (*domain.DebitResult, error) {
	replayed, err := r.findEntryByKey(ctx, r.Pool, accountID, amount, entryType, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}
	return nil, fmt.Errorf("%w: concurrent operation with idempotency key %s is still in flight", apperrors.ErrDuplicate, idempotencyKey)
}

// rowQuerier is satisfied by pgx.Tx and *pgxpool.Pool.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// findEntryByKey looks up a previously applied operation for the key and
// validates that the replay carries the same intended effect.
func (r *PgxTokenRepository) findEntryByKey(ctx context.Context, q rowQuerier, accountID string, amount int64, entryType models.EntryType, idempotencyKey string) (*domain.DebitResult, error) {
	query := `
		SELECT account_id, amount, entry_type, balance_after
		FROM token_entries
		WHERE idempotency_key = $1;
	`
	var recorded models.TokenEntry
	err := q.QueryRow(ctx, query, idempotencyKey).Scan(
		&recorded.AccountID,
		&recorded.Amount,
		&recorded.EntryType,
		&recorded.BalanceAfter,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to check idempotency key %s: %w", apperrors.ErrLedgerUnavailable, idempotencyKey, err)
	}

	if recorded.AccountID != accountID || recorded.Amount != amount || recorded.EntryType != entryType {
		return nil, fmt.Errorf("%w: idempotency key %s was used with a different operation", apperrors.ErrValidation, idempotencyKey)
	}

	return &domain.DebitResult{Applied: false, BalanceAfter: recorded.BalanceAfter}, nil
}

func (r *PgxTokenRepository) accountExists(ctx context.Context, tx pgx.Tx, accountID string) (bool, error) {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM token_accounts WHERE account_id = $1;`, accountID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to check token account %s: %w", apperrors.ErrLedgerUnavailable, accountID, err)
	}
	return true, nil
}

// ListEntries returns the most recent ledger entries for an account.
func (r *PgxTokenRepository) ListEntries(ctx context.Context, accountID string, limit int) ([]domain.TokenEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT entry_id, account_id, amount, entry_type, COALESCE(idempotency_key, ''), balance_after, created_at
		FROM token_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query ledger entries for account %s: %w", apperrors.ErrLedgerUnavailable, accountID, err)
	}
	defer rows.Close()

	entries := []domain.TokenEntry{}
	for rows.Next() {
		var m models.TokenEntry
		err := rows.Scan(
			&m.EntryID,
			&m.AccountID,
			&m.Amount,
			&m.EntryType,
			&m.IdempotencyKey,
			&m.BalanceAfter,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan ledger entry row: %w", apperrors.ErrLedgerUnavailable, err)
		}
		entries = append(entries, mapping.ToDomainTokenEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating ledger entry rows: %w", apperrors.ErrLedgerUnavailable, err)
	}

	return entries, nil
}

// ApplyCreditWithPurchase credits a bought token pack and records the
// purchase row in one transaction: a failed purchase insert rolls the credit
// back too. A replayed key returns the original outcome and writes nothing;
// the first attempt already recorded its purchase.
func (r *PgxTokenRepository) ApplyCreditWithPurchase(ctx context.Context, accountID string, amount int64, idempotencyKey string, purchase domain.TokenPurchase) (*domain.DebitResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: ledger amount must be positive, got %d", apperrors.ErrValidation, amount)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	defer r.Rollback(ctx, tx)

	result, err := r.applyEntryTx(ctx, tx, accountID, amount, models.Credit, idempotencyKey)
	if err != nil {
		if errors.Is(err, errKeyRace) {
			return r.resolveKeyRace(ctx, accountID, amount, models.Credit, idempotencyKey)
		}
		return nil, err
	}

	if result.Applied {
		if err := r.insertPurchase(ctx, tx, purchase); err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	return result, nil
}

func (r *PgxTokenRepository) insertPurchase(ctx context.Context, tx pgx.Tx, purchase domain.TokenPurchase) error {
	modelPurchase := mapping.ToModelTokenPurchase(purchase)

	query := `
		INSERT INTO token_purchases (purchase_id, account_id, tokens, price, currency_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query,
		modelPurchase.PurchaseID,
		modelPurchase.AccountID,
		modelPurchase.Tokens,
		modelPurchase.Price,
		modelPurchase.CurrencyCode,
		modelPurchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save purchase %s: %w", apperrors.ErrLedgerUnavailable, modelPurchase.PurchaseID, err)
	}
	return nil
}

// ReverseEntry refunds the debit recorded under the key and deletes its
// entry in the same transaction. Deleting the row consumes the idempotency
// record, so a retry of the operation that charged it debits for real
// instead of replaying a reversed charge. A key with no recorded debit is a
// no-op: the reversal already happened or the charge never committed.
func (r *PgxTokenRepository) ReverseEntry(ctx context.Context, accountID string, amount int64, idempotencyKey string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: ledger amount must be positive, got %d", apperrors.ErrValidation, amount)
	}
	if idempotencyKey == "" {
		return fmt.Errorf("%w: reversal requires the original idempotency key", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	defer r.Rollback(ctx, tx)

	var entryID string
	err = tx.QueryRow(ctx, `
		DELETE FROM token_entries
		WHERE idempotency_key = $1 AND account_id = $2 AND amount = $3 AND entry_type = $4
		RETURNING entry_id;
	`, idempotencyKey, accountID, amount, models.Debit).Scan(&entryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("%w: failed to reverse entry for key %s: %w", apperrors.ErrLedgerUnavailable, idempotencyKey, err)
	}

	var balanceAfter int64
	err = tx.QueryRow(ctx, `
		UPDATE token_accounts
		SET balance = balance + $2, last_updated_at = $3
		WHERE account_id = $1
		RETURNING balance;
	`, accountID, amount, time.Now().UTC()).Scan(&balanceAfter)
	if err != nil {
		return fmt.Errorf("%w: failed to refund account %s: %w", apperrors.ErrLedgerUnavailable, accountID, err)
	}

	// Keep the refund visible in the audit trail. It carries no key: a
	// reversal must never itself be replayed as a credit.
	_, err = tx.Exec(ctx, `
		INSERT INTO token_entries (entry_id, account_id, amount, entry_type, idempotency_key, balance_after, created_at)
		VALUES ($1, $2, $3, $4, NULL, $5, $6);
	`, uuid.NewString(), accountID, amount, models.Credit, balanceAfter, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: failed to record reversal entry for account %s: %w", apperrors.ErrLedgerUnavailable, accountID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	return nil
}
