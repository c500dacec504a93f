package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

var _ Repository = (*StaticRepository)(nil)

// StaticRepository serves a fixed in-memory pressing list. It backs the demo
// deployment and the tests; production wiring can load an ingested catalog
// file instead (see NewFileRepository).
type StaticRepository struct {
	pressings []Pressing
}

// NewStaticRepository returns a repository over the built-in demo catalog.
func NewStaticRepository() *StaticRepository {
	return &StaticRepository{pressings: builtinPressings()}
}

// NewStaticRepositoryWith returns a repository over the given pressing list.
func NewStaticRepositoryWith(pressings []Pressing) *StaticRepository {
	return &StaticRepository{pressings: pressings}
}

// List returns a copy of every pressing in the catalog.
func (r *StaticRepository) List(_ context.Context) ([]Pressing, error) {
	return append([]Pressing(nil), r.pressings...), nil
}

// GetByID returns the pressing with the given id or ErrNotFound.
func (r *StaticRepository) GetByID(_ context.Context, id string) (*Pressing, error) {
	for i := range r.pressings {
		if r.pressings[i].ID == id {
			p := r.pressings[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Filter returns the pressings matching f, preserving catalog order.
func (r *StaticRepository) Filter(_ context.Context, f Filter) ([]Pressing, error) {
	out := make([]Pressing, 0, len(r.pressings))
	for i := range r.pressings {
		if matches(&r.pressings[i], f) {
			out = append(out, r.pressings[i])
		}
	}
	return out, nil
}

// builtinPressings is the demo catalog around Douala.
func builtinPressings() []Pressing {
	return []Pressing{
		{
			ID:            "1",
			Name:          "Zako Express",
			Rating:        4.9,
			Distance:      0.5,
			PricePerKilo:  decimal.NewFromInt(2500),
			PricePerPiece: decimal.NewFromInt(500),
			Delivery:      true,
			PricingMode:   PricingBoth,
			Phone:         "699123456",
			Coords:        Coords{Lat: 4.052, Lng: 9.704},
		},
		{
			ID:            "2",
			Name:          "Lessive Premium",
			Rating:        4.8,
			Distance:      1.2,
			PricePerKilo:  decimal.NewFromInt(2800),
			PricePerPiece: decimal.NewFromInt(600),
			Delivery:      false,
			PricingMode:   PricingKilo,
			Phone:         "678234567",
			Coords:        Coords{Lat: 4.06, Lng: 9.71},
		},
		{
			ID:            "3",
			Name:          "Pressing Central",
			Rating:        4.7,
			Distance:      1.8,
			PricePerKilo:  decimal.NewFromInt(2300),
			PricePerPiece: decimal.NewFromInt(450),
			Delivery:      true,
			PricingMode:   PricingPiece,
			Phone:         "697345678",
			Coords:        Coords{Lat: 4.045, Lng: 9.715},
		},
		{
			ID:            "4",
			Name:          "Quick Wash",
			Rating:        4.6,
			Distance:      2.1,
			PricePerKilo:  decimal.NewFromInt(2400),
			PricePerPiece: decimal.NewFromInt(480),
			Delivery:      false,
			PricingMode:   PricingBoth,
			Phone:         "656456789",
			Coords:        Coords{Lat: 4.055, Lng: 9.69},
		},
	}
}
