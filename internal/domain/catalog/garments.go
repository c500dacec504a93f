package catalog

import "github.com/shopspring/decimal"

// Garment is a reference entry in the laundry tariff table: a garment type
// with its average weight (for per-kilo estimation) and a default per-piece
// price used when a pressing does not override it.
type Garment struct {
	Type       string          `json:"type"`
	Label      string          `json:"label"`
	WeightKg   decimal.Decimal `json:"weightKg"`
	PiecePrice decimal.Decimal `json:"piecePrice"`
	Category   string          `json:"category"`
}

const (
	CategoryClothing  = "Vêtements"
	CategoryHousehold = "Linge de maison"
)

var garments = []Garment{
	{Type: "tshirt", Label: "T-Shirt", WeightKg: decimal.NewFromFloat(0.2), PiecePrice: decimal.NewFromInt(500), Category: CategoryClothing},
	{Type: "shirt", Label: "Chemise", WeightKg: decimal.NewFromFloat(0.25), PiecePrice: decimal.NewFromInt(600), Category: CategoryClothing},
	{Type: "pants", Label: "Pantalon", WeightKg: decimal.NewFromFloat(0.5), PiecePrice: decimal.NewFromInt(800), Category: CategoryClothing},
	{Type: "shorts", Label: "Culotte", WeightKg: decimal.NewFromFloat(0.3), PiecePrice: decimal.NewFromInt(400), Category: CategoryClothing},
	{Type: "shoes", Label: "Chaussure", WeightKg: decimal.NewFromFloat(0.5), PiecePrice: decimal.NewFromInt(1000), Category: CategoryClothing},
	{Type: "wedding_dress", Label: "Robe de mariage", WeightKg: decimal.NewFromFloat(1.0), PiecePrice: decimal.NewFromInt(5000), Category: CategoryClothing},
	{Type: "evening_dress", Label: "Robe de soirée", WeightKg: decimal.NewFromFloat(0.8), PiecePrice: decimal.NewFromInt(3000), Category: CategoryClothing},
	{Type: "sheets", Label: "Draps", WeightKg: decimal.NewFromFloat(0.8), PiecePrice: decimal.NewFromInt(1000), Category: CategoryHousehold},
	{Type: "curtain_light", Label: "Rideau (Léger)", WeightKg: decimal.NewFromFloat(0.5), PiecePrice: decimal.NewFromInt(1500), Category: CategoryHousehold},
	{Type: "curtain_heavy", Label: "Rideau (Lourd)", WeightKg: decimal.NewFromFloat(1.5), PiecePrice: decimal.NewFromInt(2500), Category: CategoryHousehold},
	{Type: "pillowcase", Label: "Taie d'oreiller", WeightKg: decimal.NewFromFloat(0.2), PiecePrice: decimal.NewFromInt(300), Category: CategoryHousehold},
	{Type: "chair_cover", Label: "Housse de chaise", WeightKg: decimal.NewFromFloat(0.3), PiecePrice: decimal.NewFromInt(700), Category: CategoryHousehold},
	{Type: "duvet", Label: "Couette", WeightKg: decimal.NewFromFloat(2.5), PiecePrice: decimal.NewFromInt(3500), Category: CategoryHousehold},
	{Type: "tablecloth", Label: "Nappe", WeightKg: decimal.NewFromFloat(0.6), PiecePrice: decimal.NewFromInt(1200), Category: CategoryHousehold},
}

// Garments returns a copy of the full tariff table.
func Garments() []Garment {
	return append([]Garment(nil), garments...)
}

// GarmentByType looks up a tariff entry by garment type.
func GarmentByType(t string) (*Garment, bool) {
	for i := range garments {
		if garments[i].Type == t {
			g := garments[i]
			return &g, true
		}
	}
	return nil, false
}
