package purchases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spinvault/backend/internal/repos/purchases"
)

var _ purchases.Purchases = (*purchasesRepo)(nil)

type purchasesRepo struct{ db *sql.DB }

func New(db *sql.DB) *purchasesRepo {
	return &purchasesRepo{db: db}
}

func (r *purchasesRepo) Insert(tx *sql.Tx, userID uint64, txSignature string, amountLamports, spinsAdded int64) error {
	_, err := tx.Exec(`
		INSERT INTO purchases (user_id, tx_signature, amount_lamports, spins_added, status)
		VALUES ($1, $2, $3, $4, 'completed')
	`, userID, txSignature, amountLamports, spinsAdded)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return purchases.ErrDuplicateTransaction
			}
		}

		return fmt.Errorf("insert purchase: %w", err)
	}

	return nil
}

func (r *purchasesRepo) GetBySignature(ctx context.Context, txSignature string) (*purchases.Purchase, error) {
	var p purchases.Purchase

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, tx_signature, amount_lamports, spins_added, status, created_at
		FROM purchases
		WHERE tx_signature = $1
	`, txSignature).Scan(&p.ID, &p.UserID, &p.TxSignature, &p.AmountLamports, &p.SpinsAdded, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, purchases.ErrPurchaseNotFound
		}

		return nil, fmt.Errorf("get purchase by signature: %w", err)
	}

	return &p, nil
}
