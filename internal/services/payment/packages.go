package payment

import (
	"github.com/shopspring/decimal"

	"github.com/spinvault/backend/internal/config"
)

const lamportsPerSOL = 1_000_000_000

// Package is a purchasable spin bundle priced in lamports.
type Package struct {
	ID            int
	Name          string
	Spins         int64
	PriceLamports int64
}

// PriceSOL renders the lamport price as an exact SOL decimal for display.
func (p Package) PriceSOL() decimal.Decimal {
	return decimal.New(p.PriceLamports, -9)
}

// Catalog holds the configured packages in display order.
type Catalog struct {
	packages []Package
}

func NewCatalog(cfg config.PackagesConfig) Catalog {
	return Catalog{packages: []Package{
		{ID: 10, Name: "Starter Pack", Spins: 10, PriceLamports: cfg.Price10},
		{ID: 25, Name: "Pro Pack", Spins: 25, PriceLamports: cfg.Price25},
		{ID: 50, Name: "Premium Pack", Spins: 50, PriceLamports: cfg.Price50},
	}}
}

func (c Catalog) List() []Package {
	return c.packages
}

func (c Catalog) ByID(id int) (Package, error) {
	for _, p := range c.packages {
		if p.ID == id {
			return p, nil
		}
	}

	return Package{}, ErrUnknownPackage
}
