package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spinvault/backend/internal/repos/rewards"
	"github.com/spinvault/backend/internal/repos/spins"
	"github.com/spinvault/backend/internal/repos/users"
	"github.com/spinvault/backend/internal/services/auth"
	"github.com/spinvault/backend/internal/services/payment"
	"github.com/spinvault/backend/internal/services/spin"
)

const (
	testWallet = "7Ld8cWD3eYMVbd4dcBNaWMTLJz3A6mBpedSjGnFMEXg1"
	goodToken  = "valid-access-token"
)

type fakeAuth struct {
	nonce      string
	nonceErr   error
	login      *auth.LoginResult
	loginErr   error
	refreshed  string
	refreshErr error
}

func (f *fakeAuth) Challenge(context.Context, string) (string, error) {
	return f.nonce, f.nonceErr
}

func (f *fakeAuth) Login(context.Context, string, string) (*auth.LoginResult, error) {
	return f.login, f.loginErr
}

func (f *fakeAuth) Refresh(string) (string, error) {
	return f.refreshed, f.refreshErr
}

func (f *fakeAuth) VerifyAccess(token string) (*auth.TokenClaims, error) {
	if token != goodToken {
		return nil, auth.ErrInvalidToken
	}

	return &auth.TokenClaims{UserID: 7, Wallet: testWallet}, nil
}

type fakeSpin struct {
	result    *spin.Result
	execErr   error
	claim     *spin.ClaimResult
	claimErr  error
	table     []rewards.Reward
	tableErr  error
	history   []spins.Record
	histErr   error
	histLimit int
}

func (f *fakeSpin) Execute(context.Context, uint64) (*spin.Result, error) {
	return f.result, f.execErr
}

func (f *fakeSpin) ClaimDaily(context.Context, uint64) (*spin.ClaimResult, error) {
	return f.claim, f.claimErr
}

func (f *fakeSpin) Configuration(context.Context) ([]rewards.Reward, error) {
	return f.table, f.tableErr
}

func (f *fakeSpin) History(_ context.Context, _ uint64, limit int) ([]spins.Record, error) {
	f.histLimit = limit
	return f.history, f.histErr
}

type fakePayment struct {
	packages []payment.Package
	treasury string
	receipt  *payment.Receipt
	err      error
}

func (f *fakePayment) Packages() []payment.Package { return f.packages }
func (f *fakePayment) TreasuryWallet() string      { return f.treasury }

func (f *fakePayment) Purchase(context.Context, uint64, string, string, int) (*payment.Receipt, error) {
	return f.receipt, f.err
}

type fakeUserReader struct {
	user *users.User
	err  error
}

func (f *fakeUserReader) GetByWallet(context.Context, string) (*users.User, error) {
	return f.user, f.err
}

type testDeps struct {
	auth    *fakeAuth
	spin    *fakeSpin
	payment *fakePayment
	users   *fakeUserReader
}

func newTestRouter(d testDeps) http.Handler {
	if d.auth == nil {
		d.auth = &fakeAuth{}
	}
	if d.spin == nil {
		d.spin = &fakeSpin{}
	}
	if d.payment == nil {
		d.payment = &fakePayment{}
	}
	if d.users == nil {
		d.users = &fakeUserReader{}
	}

	return NewRouter(d.auth, d.spin, d.payment, d.users)
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	err := json.Unmarshal(rec.Body.Bytes(), &out)
	require.NoError(t, err, "body: %s", rec.Body.String())

	return out
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(testDeps{})

	rec := doRequest(t, h, http.MethodGet, "/healthz", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNonceHandler(t *testing.T) {
	fa := &fakeAuth{nonce: "Sign this message to authenticate with SpinVault: 1700000000000-abcd"}
	h := newTestRouter(testDeps{auth: fa})

	rec := doRequest(t, h, http.MethodGet, "/api/auth/nonce?wallet="+testWallet, nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, fa.nonce, decode(t, rec)["nonce"])
}

func TestNonceHandler_MissingWallet(t *testing.T) {
	h := newTestRouter(testDeps{})

	rec := doRequest(t, h, http.MethodGet, "/api/auth/nonce", nil, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	fa := &fakeAuth{
		login: &auth.LoginResult{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         &users.User{ID: 7, WalletAddress: testWallet, SpinsBalance: 3},
		},
	}
	h := newTestRouter(testDeps{auth: fa})

	rec := doRequest(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"walletAddress": testWallet,
		"signature":     "c2ln",
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, "access", body["accessToken"])
	require.Equal(t, "refresh", body["refreshToken"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, testWallet, user["walletAddress"])
	require.Equal(t, float64(3), user["spinsBalance"])
}

func TestLoginHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		loginErr   error
		wantStatus int
	}{
		{
			name:       "missing fields",
			body:       map[string]string{"walletAddress": testWallet},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "nonce not found",
			body:       map[string]string{"walletAddress": testWallet, "signature": "c2ln"},
			loginErr:   auth.ErrNonceNotFound,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "nonce expired",
			body:       map[string]string{"walletAddress": testWallet, "signature": "c2ln"},
			loginErr:   auth.ErrNonceExpired,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad signature",
			body:       map[string]string{"walletAddress": testWallet, "signature": "c2ln"},
			loginErr:   auth.ErrInvalidSignature,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(testDeps{auth: &fakeAuth{loginErr: tt.loginErr}})

			rec := doRequest(t, h, http.MethodPost, "/api/auth/login", tt.body, "")

			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRefreshHandler(t *testing.T) {
	h := newTestRouter(testDeps{auth: &fakeAuth{refreshed: "new-access"}})

	rec := doRequest(t, h, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refreshToken": "refresh",
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "new-access", decode(t, rec)["accessToken"])
}

func TestRefreshHandler_Expired(t *testing.T) {
	h := newTestRouter(testDeps{auth: &fakeAuth{refreshErr: auth.ErrTokenExpired}})

	rec := doRequest(t, h, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refreshToken": "stale",
	}, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "no token", token: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", token: "garbage", wantStatus: http.StatusForbidden},
		{name: "valid token", token: goodToken, wantStatus: http.StatusOK},
	}

	fu := &fakeUserReader{user: &users.User{ID: 7, WalletAddress: testWallet}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(testDeps{users: fu})

			rec := doRequest(t, h, http.MethodGet, "/api/user/me", nil, tt.token)

			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestConfigurationHandler(t *testing.T) {
	fs := &fakeSpin{table: []rewards.Reward{
		{SegmentIndex: 1, RewardType: rewards.TypeNone, Label: "Good Luck", Weight: 30},
		{SegmentIndex: 2, RewardType: rewards.TypePoints, RewardValue: 50, Label: "50 Points", Weight: 25},
	}}
	h := newTestRouter(testDeps{spin: fs})

	rec := doRequest(t, h, http.MethodGet, "/api/spin/configuration", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)

	config, ok := decode(t, rec)["config"].([]any)
	require.True(t, ok)
	require.Len(t, config, 2)

	first, ok := config[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "none", first["type"])
	require.Equal(t, "Good Luck", first["label"])
}

func TestExecuteSpinHandler(t *testing.T) {
	fs := &fakeSpin{result: &spin.Result{
		Outcome: spin.Outcome{
			SegmentIndex: 3,
			RewardType:   rewards.TypePoints,
			RewardValue:  100,
			Message:      "100 Points",
		},
		SpinsBalance: 4,
		TotalRewards: 100,
	}}
	h := newTestRouter(testDeps{spin: fs})

	rec := doRequest(t, h, http.MethodPost, "/api/spin/execute", nil, goodToken)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, float64(4), body["spinsBalance"])

	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(3), result["index"])
	require.Equal(t, "points", result["type"])
}

func TestExecuteSpinHandler_InsufficientSpins(t *testing.T) {
	h := newTestRouter(testDeps{spin: &fakeSpin{execErr: spin.ErrInsufficientSpins}})

	rec := doRequest(t, h, http.MethodPost, "/api/spin/execute", nil, goodToken)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDailyClaimHandler(t *testing.T) {
	h := newTestRouter(testDeps{spin: &fakeSpin{claim: &spin.ClaimResult{SpinsBalance: 1}}})

	rec := doRequest(t, h, http.MethodPost, "/api/spin/daily-claim", nil, goodToken)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decode(t, rec)["spinsBalance"])
}

func TestDailyClaimHandler_AlreadyClaimed(t *testing.T) {
	next := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	h := newTestRouter(testDeps{spin: &fakeSpin{
		claimErr: &spin.DailyClaimedError{NextClaimAt: next},
	}})

	rec := doRequest(t, h, http.MethodPost, "/api/spin/daily-claim", nil, goodToken)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "2025-06-01T12:00:00Z", decode(t, rec)["nextClaimAt"])
}

func TestHistoryHandler(t *testing.T) {
	fs := &fakeSpin{history: []spins.Record{
		{
			Result:      "100 Points",
			RewardType:  "points",
			RewardValue: 100,
			CreatedAt:   time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}}
	h := newTestRouter(testDeps{spin: fs})

	rec := doRequest(t, h, http.MethodGet, "/api/spin/history?limit=10", nil, goodToken)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 10, fs.histLimit)

	history, ok := decode(t, rec)["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
}

func TestHistoryHandler_BadLimit(t *testing.T) {
	h := newTestRouter(testDeps{})

	rec := doRequest(t, h, http.MethodGet, "/api/spin/history?limit=abc", nil, goodToken)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPackagesHandler(t *testing.T) {
	fp := &fakePayment{
		packages: []payment.Package{
			{ID: 1, Name: "Starter", Spins: 10, PriceLamports: 100_000_000},
		},
		treasury: testWallet,
	}
	h := newTestRouter(testDeps{payment: fp})

	rec := doRequest(t, h, http.MethodGet, "/api/payment/packages", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, testWallet, body["treasuryWallet"])

	packages, ok := body["packages"].([]any)
	require.True(t, ok)
	require.Len(t, packages, 1)

	first, ok := packages[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "0.1", first["priceSol"])
}

func TestPurchaseHandler(t *testing.T) {
	fp := &fakePayment{receipt: &payment.Receipt{
		TxSignature:  "sig",
		Amount:       100_000_000,
		SpinsAdded:   10,
		SpinsBalance: 13,
	}}
	h := newTestRouter(testDeps{payment: fp})

	rec := doRequest(t, h, http.MethodPost, "/api/payment/purchase-spins", map[string]any{
		"txSignature": "sig",
		"packageId":   1,
	}, goodToken)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(13), decode(t, rec)["spinsBalance"])
}

func TestPurchaseHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unknown package", err: payment.ErrUnknownPackage, wantStatus: http.StatusBadRequest},
		{name: "duplicate", err: payment.ErrDuplicateTransaction, wantStatus: http.StatusConflict},
		{name: "ledger down", err: payment.ErrLedgerUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "tx not found", err: payment.ErrTransactionNotFound, wantStatus: http.StatusBadRequest},
		{name: "wrong receiver", err: payment.ErrReceiverMismatch, wantStatus: http.StatusBadRequest},
		{name: "underpaid", err: payment.ErrInsufficientPayment, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(testDeps{payment: &fakePayment{err: tt.err}})

			rec := doRequest(t, h, http.MethodPost, "/api/payment/purchase-spins", map[string]any{
				"txSignature": "sig",
				"packageId":   1,
			}, goodToken)

			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestMeHandler_NotFound(t *testing.T) {
	h := newTestRouter(testDeps{users: &fakeUserReader{err: users.ErrUserNotFound}})

	rec := doRequest(t, h, http.MethodGet, "/api/user/me", nil, goodToken)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
