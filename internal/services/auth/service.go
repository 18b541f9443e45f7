// Package auth implements wallet-ownership authentication: single-use signed
// challenges, Ed25519 signature checks, and JWT session credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spinvault/backend/internal/repos/users"
	"github.com/spinvault/backend/internal/wallet"
)

type Service struct {
	users       users.Users
	nonces      NonceStore
	tokens      *TokenIssuer
	nonceMaxAge time.Duration
	now         func() time.Time
}

func NewService(usersRepo users.Users, nonces NonceStore, tokens *TokenIssuer, nonceMaxAge time.Duration) *Service {
	return &Service{
		users:       usersRepo,
		nonces:      nonces,
		tokens:      tokens,
		nonceMaxAge: nonceMaxAge,
		now:         time.Now,
	}
}

// Challenge issues a fresh nonce for the wallet, replacing any unconsumed one.
func (s *Service) Challenge(ctx context.Context, walletAddress string) (string, error) {
	nonce, err := wallet.NewNonce(s.now())
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	err = s.nonces.Put(ctx, walletAddress, nonce)
	if err != nil {
		return "", fmt.Errorf("store nonce: %w", err)
	}

	slog.Info("auth challenge issued", "wallet", walletAddress)

	return nonce, nil
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *users.User
}

// Login consumes the wallet's nonce, checks freshness and signature, then
// mints session credentials for the (possibly just-created) user.
//
// The nonce is removed from the store before any check runs, so a concurrent
// login with the same nonce sees it absent.
func (s *Service) Login(ctx context.Context, walletAddress, signature string) (*LoginResult, error) {
	nonce, ok, err := s.nonces.Take(ctx, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("take nonce: %w", err)
	}

	if !ok {
		return nil, ErrNonceNotFound
	}

	if !wallet.NonceFresh(nonce, s.nonceMaxAge, s.now()) {
		return nil, ErrNonceExpired
	}

	if !wallet.VerifySignature(walletAddress, signature, nonce) {
		slog.Info("auth login rejected", "wallet", walletAddress, "reason", "bad signature")

		return nil, ErrInvalidSignature
	}

	user, err := s.users.GetByWallet(ctx, walletAddress)
	if err != nil {
		if !errors.Is(err, users.ErrUserNotFound) {
			return nil, fmt.Errorf("get user: %w", err)
		}

		user, err = s.users.Create(ctx, walletAddress)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	accessToken, err := s.tokens.IssueAccess(user.ID, user.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefresh(user.ID, user.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	slog.Info("auth login successful", "wallet", walletAddress, "user_id", user.ID)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh mints a new access token from a valid refresh token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	accessToken, err := s.tokens.IssueAccess(claims.UserID, claims.Wallet)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	return accessToken, nil
}

// VerifyAccess validates an access token and returns its claims. Used by the
// HTTP auth middleware.
func (s *Service) VerifyAccess(token string) (*TokenClaims, error) {
	return s.tokens.VerifyAccess(token)
}
