package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spinvault/backend/internal/api"
	"github.com/spinvault/backend/internal/infra/logging"
	"github.com/spinvault/backend/internal/infra/pgutils"
	purchasespg "github.com/spinvault/backend/internal/repos/purchases/postgres"
	rewardspg "github.com/spinvault/backend/internal/repos/rewards/postgres"
	spinspg "github.com/spinvault/backend/internal/repos/spins/postgres"
	userspg "github.com/spinvault/backend/internal/repos/users/postgres"
	"github.com/spinvault/backend/internal/services/auth"
	"github.com/spinvault/backend/internal/services/payment"
	"github.com/spinvault/backend/internal/services/spin"
	"github.com/spinvault/backend/internal/solana"
	"github.com/spinvault/backend/pkg/envconf"
	"github.com/spinvault/backend/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres.DSN, pgutils.PoolConfig{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close database pool")
		return db.Close()
	})

	// --- Repositories ---
	usersRepo := userspg.New(db)
	spinsRepo := spinspg.New(db)
	rewardsRepo := rewardspg.New(db)
	purchasesRepo := purchasespg.New(db)

	// --- Auth ---
	nonces, err := newNonceStore(cfg.Auth.RedisURL, cfg.Auth.NonceTTL)
	if err != nil {
		return fmt.Errorf("init nonce store: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return fmt.Errorf("init token issuer: %w", err)
	}

	authSvc := auth.NewService(usersRepo, nonces, tokens, cfg.Auth.NonceTTL)

	// --- Spins ---
	spinSvc := spin.NewService(db, usersRepo, spinsRepo, rewardsRepo)

	// --- Payments ---
	ledger := solana.NewClient(cfg.Solana.RPCURL, cfg.Solana.RPCTimeout)
	verifier := payment.NewVerifier(ledger, cfg.Solana.TreasuryWallet)
	catalog := payment.NewCatalog(cfg.Packages)
	paymentSvc := payment.NewService(db, usersRepo, purchasesRepo, verifier, catalog, cfg.Solana.TreasuryWallet)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, authSvc, spinSvc, paymentSvc, usersRepo)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

// newNonceStore picks the shared Redis store when a URL is configured and the
// in-process store otherwise. Single-instance deployments do not need Redis.
func newNonceStore(redisURL string, ttl time.Duration) (auth.NonceStore, error) {
	if redisURL == "" {
		return auth.NewMemoryNonceStore(ttl, time.Now), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close redis client")
		return client.Close()
	})

	return auth.NewRedisNonceStore(client, ttl), nil
}
