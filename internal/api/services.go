package api

import (
	"context"

	"github.com/spinvault/backend/internal/repos/rewards"
	"github.com/spinvault/backend/internal/repos/spins"
	"github.com/spinvault/backend/internal/repos/users"
	"github.com/spinvault/backend/internal/services/auth"
	"github.com/spinvault/backend/internal/services/payment"
	"github.com/spinvault/backend/internal/services/spin"
)

// Service surfaces consumed by the HTTP layer, small enough to fake in
// handler tests.

type AuthService interface {
	Challenge(ctx context.Context, walletAddress string) (string, error)
	Login(ctx context.Context, walletAddress, signature string) (*auth.LoginResult, error)
	Refresh(refreshToken string) (string, error)
	VerifyAccess(token string) (*auth.TokenClaims, error)
}

type SpinService interface {
	Execute(ctx context.Context, userID uint64) (*spin.Result, error)
	ClaimDaily(ctx context.Context, userID uint64) (*spin.ClaimResult, error)
	Configuration(ctx context.Context) ([]rewards.Reward, error)
	History(ctx context.Context, userID uint64, limit int) ([]spins.Record, error)
}

type PaymentService interface {
	Packages() []payment.Package
	TreasuryWallet() string
	Purchase(ctx context.Context, userID uint64, walletAddress, txSignature string, packageID int) (*payment.Receipt, error)
}

// UserReader covers the profile endpoint's read-only needs.
type UserReader interface {
	GetByWallet(ctx context.Context, wallet string) (*users.User, error)
}
