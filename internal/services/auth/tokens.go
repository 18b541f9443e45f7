package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spinvault/backend/internal/config"
)

// TokenClaims is the minimal payload session credentials carry downstream.
type TokenClaims struct {
	UserID uint64 `json:"userId"`
	Wallet string `json:"walletAddress"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 session credentials. Access and
// refresh tokens are signed with distinct secrets so one kind can never be
// replayed as the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg config.AuthConfig) (*TokenIssuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token secrets must be set")
	}

	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

func (i *TokenIssuer) IssueAccess(userID uint64, wallet string) (string, error) {
	return i.issue(userID, wallet, i.accessSecret, i.accessTTL)
}

func (i *TokenIssuer) IssueRefresh(userID uint64, wallet string) (string, error) {
	return i.issue(userID, wallet, i.refreshSecret, i.refreshTTL)
}

func (i *TokenIssuer) VerifyAccess(token string) (*TokenClaims, error) {
	return i.verify(token, i.accessSecret)
}

func (i *TokenIssuer) VerifyRefresh(token string) (*TokenClaims, error) {
	return i.verify(token, i.refreshSecret)
}

func (i *TokenIssuer) issue(userID uint64, wallet string, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()

	claims := &TokenClaims{
		UserID: userID,
		Wallet: wallet,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (i *TokenIssuer) verify(token string, secret []byte) (*TokenClaims, error) {
	claims := new(TokenClaims)

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}

		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrInvalidToken
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
