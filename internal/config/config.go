package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"30s"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// AuthConfig carries token signing material and challenge lifetimes.
// Access and refresh secrets must differ: sharing one secret would let a
// refresh token pass as an access token.
type AuthConfig struct {
	AccessSecret  string        `env:"JWT_SECRET"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"168h"`
	NonceTTL      time.Duration `env:"AUTH_NONCE_TTL" envDefault:"5m"`

	// Optional shared nonce store for multi-instance deployments.
	// Empty means the in-process store is used.
	RedisURL string `env:"AUTH_REDIS_URL" envDefault:""`
}

type SolanaConfig struct {
	RPCURL         string        `env:"SOLANA_RPC_URL" envDefault:"https://api.devnet.solana.com"`
	TreasuryWallet string        `env:"TREASURY_WALLET"`
	RPCTimeout     time.Duration `env:"SOLANA_RPC_TIMEOUT" envDefault:"10s"`
}

// PackagesConfig prices the purchasable spin packages in lamports.
type PackagesConfig struct {
	Price10 int64 `env:"PACKAGE_10_SPINS_PRICE" envDefault:"100000000"`
	Price25 int64 `env:"PACKAGE_25_SPINS_PRICE" envDefault:"200000000"`
	Price50 int64 `env:"PACKAGE_50_SPINS_PRICE" envDefault:"350000000"`
}
