// Package order holds the order data model: line items, fulfillment methods,
// and the order status state machine.
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryEstimate is the fixed offset between order placement and the
// estimated ready time.
const DeliveryEstimate = 3 * 24 * time.Hour

// Fulfillment is how the customer receives the finished laundry.
type Fulfillment string

const (
	// FulfillmentCollect means the customer drops off and picks up themselves.
	FulfillmentCollect Fulfillment = "collect"
	// FulfillmentDelivery means the pressing picks up and delivers.
	FulfillmentDelivery Fulfillment = "delivery"
)

// Valid reports whether f is a known fulfillment method.
func (f Fulfillment) Valid() bool {
	return f == FulfillmentCollect || f == FulfillmentDelivery
}

// Item is a single cart or order line: a garment type with a quantity and the
// unit price snapshotted when the line was added.
type Item struct {
	Type     string          `json:"type"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order is a placed transaction. The pressing name and phone are denormalized
// snapshots taken at placement time; later catalog changes never affect them.
// Total is likewise computed once at placement and never recomputed.
type Order struct {
	ID                string          `json:"id"`
	PressingID        string          `json:"pressingId"`
	PressingName      string          `json:"pressingName"`
	PressingPhone     string          `json:"pressingPhone,omitempty"`
	Items             []Item          `json:"items"`
	Total             decimal.Decimal `json:"total"`
	Status            Status          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	CollectMethod     Fulfillment     `json:"collectMethod"`
	Photos            []string        `json:"photos,omitempty"`
}

// TotalOf sums price × quantity over the given items.
func TotalOf(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Clone returns a deep copy of the order, so callers can hand out snapshots
// without exposing the internal slices to mutation.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]Item(nil), o.Items...)
	if o.Photos != nil {
		c.Photos = append([]string(nil), o.Photos...)
	}
	return &c
}
