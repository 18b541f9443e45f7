package payment

import "errors"

var (
	ErrUnknownPackage       = errors.New("unknown package")
	ErrDuplicateTransaction = errors.New("transaction already processed")

	// Verification verdict reasons, each a distinct failure mode of the
	// on-chain check.
	ErrTransactionNotFound = errors.New("transaction not found on blockchain")
	ErrTransactionFailed   = errors.New("transaction failed on blockchain")
	ErrSenderMismatch      = errors.New("transaction sender does not match user wallet")
	ErrReceiverMismatch    = errors.New("transaction receiver does not match treasury wallet")
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrLedgerUnavailable covers RPC transport failures and timeouts; the
	// client may retry with the same transaction signature.
	ErrLedgerUnavailable = errors.New("ledger temporarily unavailable")
)
