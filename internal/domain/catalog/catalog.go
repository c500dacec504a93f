// Package catalog holds the read-only pressing (laundromat) reference data
// and the garment tariff table. The application never mutates catalog data;
// it is provided by an injected Repository so a real data source can replace
// the built-in set without touching the rest of the system.
package catalog

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested pressing does not exist.
var ErrNotFound = errors.New("pressing not found")

// PricingMode describes how a pressing bills: per kilo, per piece, or either.
type PricingMode string

const (
	PricingKilo  PricingMode = "kilo"
	PricingPiece PricingMode = "piece"
	PricingBoth  PricingMode = "both"
)

// Valid reports whether m is a known pricing mode.
func (m PricingMode) Valid() bool {
	return m == PricingKilo || m == PricingPiece || m == PricingBoth
}

// Coords is a geographic position.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Pressing is a laundering service provider listed in the catalog.
type Pressing struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Rating        float64         `json:"rating"`
	Distance      float64         `json:"distance"`
	PricePerKilo  decimal.Decimal `json:"pricePerKilo"`
	PricePerPiece decimal.Decimal `json:"pricePerPiece"`
	Delivery      bool            `json:"delivery"`
	PricingMode   PricingMode     `json:"pricingType"`
	Phone         string          `json:"phone,omitempty"`
	Coords        Coords          `json:"coords"`
}

// Filter narrows a pressing listing. Zero values mean "no constraint".
type Filter struct {
	// Search matches case-insensitively against the pressing name.
	Search string
	// Delivery, when non-nil, requires the delivery capability flag to match.
	Delivery *bool
	// PricingMode, when set, keeps pressings billing in that mode (a "both"
	// pressing matches either specific mode).
	PricingMode PricingMode
}

// Repository defines read operations over the pressing catalog.
type Repository interface {
	List(ctx context.Context) ([]Pressing, error)
	GetByID(ctx context.Context, id string) (*Pressing, error)
	Filter(ctx context.Context, f Filter) ([]Pressing, error)
}

// matches reports whether p satisfies every constraint in f.
func matches(p *Pressing, f Filter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Delivery != nil && p.Delivery != *f.Delivery {
		return false
	}
	if f.PricingMode != "" && p.PricingMode != f.PricingMode && p.PricingMode != PricingBoth {
		return false
	}
	return true
}
