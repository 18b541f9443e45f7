package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spinvault/backend/internal/solana"
)

// Verdict is the pure output of on-chain verification, never persisted.
// Reason is nil exactly when Valid is true.
type Verdict struct {
	Valid     bool
	Amount    int64
	Sender    string
	Receiver  string
	BlockTime *time.Time
	Reason    error
}

// Verifier checks a claimed payment against the external ledger.
type Verifier struct {
	ledger   solana.Ledger
	treasury string
}

func NewVerifier(ledger solana.Ledger, treasuryWallet string) *Verifier {
	return &Verifier{ledger: ledger, treasury: treasuryWallet}
}

// Verify fetches the transaction and validates execution status, sender,
// receiver, and the amount actually moved.
//
// The amount is the receiver's balance delta, not the sender's, so network
// fees paid by the sender do not distort it. Account ordering follows the
// ledger's convention: index 0 is the fee payer (sender), index 1 the
// destination.
//
// Verification failure of any kind, including an unreachable ledger, comes
// back as an invalid verdict, never as a fault.
func (v *Verifier) Verify(ctx context.Context, txSignature, expectedSender string, expectedLamports int64) Verdict {
	tx, err := v.ledger.GetTransaction(ctx, txSignature)
	if err != nil {
		if errors.Is(err, solana.ErrTransactionNotFound) {
			return invalid(ErrTransactionNotFound)
		}

		slog.Error("ledger query failed", "tx", txSignature, "error", err)

		return invalid(fmt.Errorf("%w: %v", ErrLedgerUnavailable, err))
	}

	if tx.Failed {
		return invalid(ErrTransactionFailed)
	}

	if len(tx.AccountKeys) < 2 || len(tx.PreBalances) < 2 || len(tx.PostBalances) < 2 {
		return invalid(ErrTransactionFailed)
	}

	sender := tx.AccountKeys[0]
	if sender != expectedSender {
		return invalid(ErrSenderMismatch)
	}

	receiver := tx.AccountKeys[1]
	if receiver != v.treasury {
		return invalid(ErrReceiverMismatch)
	}

	amount := tx.PostBalances[1] - tx.PreBalances[1]
	if amount < expectedLamports {
		return invalid(fmt.Errorf("%w: expected %d lamports, received %d", ErrInsufficientPayment, expectedLamports, amount))
	}

	verdict := Verdict{
		Valid:    true,
		Amount:   amount,
		Sender:   sender,
		Receiver: receiver,
	}

	if tx.BlockTime != nil {
		at := time.Unix(*tx.BlockTime, 0).UTC()
		verdict.BlockTime = &at
	}

	return verdict
}

func invalid(reason error) Verdict {
	return Verdict{Valid: false, Reason: reason}
}
