// Package payment validates real-money Solana payments against the chain and
// credits purchased spins exactly once per transaction signature.
package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spinvault/backend/internal/infra/pgutils"
	"github.com/spinvault/backend/internal/repos/purchases"
	"github.com/spinvault/backend/internal/repos/users"
)

type Service struct {
	db        *sql.DB
	users     users.Users
	purchases purchases.Purchases
	verifier  *Verifier
	catalog   Catalog
	treasury  string
}

func NewService(db *sql.DB, usersRepo users.Users, purchasesRepo purchases.Purchases, verifier *Verifier, catalog Catalog, treasuryWallet string) *Service {
	return &Service{
		db:        db,
		users:     usersRepo,
		purchases: purchasesRepo,
		verifier:  verifier,
		catalog:   catalog,
		treasury:  treasuryWallet,
	}
}

func (s *Service) Packages() []Package {
	return s.catalog.List()
}

func (s *Service) TreasuryWallet() string {
	return s.treasury
}

type Receipt struct {
	TxSignature  string
	Amount       int64
	SpinsAdded   int64
	SpinsBalance int64
}

// Purchase verifies the payment and credits the package.
//
// The duplicate lookup before verification short-circuits replays without an
// RPC round trip; the authoritative exactly-once guard is the unique
// constraint on tx_signature, checked inside the same transaction that
// credits the spins. Two concurrent purchases with one signature therefore
// end as one credit and one ErrDuplicateTransaction.
func (s *Service) Purchase(ctx context.Context, userID uint64, walletAddress, txSignature string, packageID int) (*Receipt, error) {
	pkg, err := s.catalog.ByID(packageID)
	if err != nil {
		return nil, err
	}

	_, err = s.purchases.GetBySignature(ctx, txSignature)
	if err == nil {
		slog.Info("purchase rejected", "tx", txSignature, "reason", "already processed")

		return nil, ErrDuplicateTransaction
	}

	if !errors.Is(err, purchases.ErrPurchaseNotFound) {
		return nil, fmt.Errorf("check existing purchase: %w", err)
	}

	verdict := s.verifier.Verify(ctx, txSignature, walletAddress, pkg.PriceLamports)
	if !verdict.Valid {
		slog.Info("purchase rejected", "tx", txSignature, "wallet", walletAddress, "reason", verdict.Reason)

		return nil, verdict.Reason
	}

	var receipt *Receipt

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.purchases.Insert(tx, userID, txSignature, verdict.Amount, pkg.Spins)
		if err != nil {
			if errors.Is(err, purchases.ErrDuplicateTransaction) {
				return ErrDuplicateTransaction
			}

			return fmt.Errorf("record purchase: %w", err)
		}

		locked, err := s.users.LockByID(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		err = s.users.AdjustSpins(tx, userID, pkg.Spins)
		if err != nil {
			return fmt.Errorf("credit spins: %w", err)
		}

		receipt = &Receipt{
			TxSignature:  txSignature,
			Amount:       verdict.Amount,
			SpinsAdded:   pkg.Spins,
			SpinsBalance: locked.SpinsBalance + pkg.Spins,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("purchase completed",
		"wallet", walletAddress,
		"tx", txSignature,
		"package_id", pkg.ID,
		"spins_added", pkg.Spins,
		"amount_lamports", verdict.Amount,
	)

	return receipt, nil
}
