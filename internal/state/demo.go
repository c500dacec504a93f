package state

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zakolabs/zako-backend/internal/domain/order"
)

// demoOrders is the fixed order set backfilled into a rehydrated user whose
// history is empty. A presentation concession for the demo environment, not a
// business rule.
func demoOrders(now time.Time) []order.Order {
	day := 24 * time.Hour
	return []order.Order{
		{
			ID:           "CMD001",
			PressingID:   "pressing-1",
			PressingName: "Presto Pressing",
			Items: []order.Item{
				{Type: "shirt", Quantity: 5, Price: decimal.NewFromInt(600)},
				{Type: "pants", Quantity: 2, Price: decimal.NewFromInt(800)},
			},
			Total:             decimal.NewFromInt(4600),
			Status:            order.StatusWashing,
			CreatedAt:         now.Add(-2 * day),
			EstimatedDelivery: now.Add(1 * day),
			CollectMethod:     order.FulfillmentDelivery,
			Photos:            []string{"/photo1.jpg", "/photo2.jpg"},
		},
		{
			ID:           "CMD002",
			PressingID:   "pressing-2",
			PressingName: "Douala Wash",
			Items: []order.Item{
				{Type: "sheets", Quantity: 2, Price: decimal.NewFromInt(1000)},
			},
			Total:             decimal.NewFromInt(2000),
			Status:            order.StatusReady,
			CreatedAt:         now.Add(-3 * day),
			EstimatedDelivery: now.Add(-1 * day),
			CollectMethod:     order.FulfillmentCollect,
		},
		{
			ID:           "CMD003",
			PressingID:   "pressing-3",
			PressingName: "Aqua Clean",
			Items: []order.Item{
				{Type: "tshirt", Quantity: 10, Price: decimal.NewFromInt(500)},
			},
			Total:             decimal.NewFromInt(5000),
			Status:            order.StatusDelivered,
			CreatedAt:         now.Add(-7 * day),
			EstimatedDelivery: now.Add(-5 * day),
			CollectMethod:     order.FulfillmentDelivery,
		},
	}
}
