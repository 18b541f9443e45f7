package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spinvault/backend/internal/config"
)

func testIssuer(t *testing.T, clock *fakeClock) *TokenIssuer {
	t.Helper()

	issuer, err := NewTokenIssuer(config.AuthConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     24 * time.Hour,
		RefreshTTL:    168 * time.Hour,
	})
	require.NoError(t, err)

	if clock != nil {
		issuer.now = clock.Now
	}

	return issuer
}

func TestTokenIssuer_RejectsSharedSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer(config.AuthConfig{
		AccessSecret:  "same",
		RefreshSecret: "same",
	})
	require.Error(t, err)
}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t, nil)

	token, err := issuer.IssueAccess(42, "WalletPubkey")
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "WalletPubkey", claims.Wallet)
	require.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_KindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t, nil)

	access, err := issuer.IssueAccess(1, "w")
	require.NoError(t, err)

	refresh, err := issuer.IssueRefresh(1, "w")
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.VerifyRefresh(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_AccessExpiresIndependently(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	issuer := testIssuer(t, clock)

	access, err := issuer.IssueAccess(1, "w")
	require.NoError(t, err)

	refresh, err := issuer.IssueRefresh(1, "w")
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	_, err = issuer.VerifyAccess(access)
	require.ErrorIs(t, err, ErrTokenExpired)

	_, err = issuer.VerifyRefresh(refresh)
	require.NoError(t, err, "refresh token outlives the access token")
}

func TestTokenIssuer_GarbageTokens(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t, nil)

	for _, token := range []string{"", "not.a.jwt", "a.b"} {
		_, err := issuer.VerifyAccess(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenIssuer_TamperedTokenRejected(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t, nil)

	token, err := issuer.IssueAccess(7, "w")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"

	_, err = issuer.VerifyAccess(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}
