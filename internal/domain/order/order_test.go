package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalOf(t *testing.T) {
	items := []Item{
		{Type: "shirt", Quantity: 3, Price: decimal.NewFromInt(600)},
		{Type: "pants", Quantity: 2, Price: decimal.NewFromInt(800)},
	}
	assert.True(t, decimal.NewFromInt(3400).Equal(TotalOf(items)))
	assert.True(t, decimal.Zero.Equal(TotalOf(nil)))
}

func TestOrderClone(t *testing.T) {
	o := &Order{
		ID:     "o1",
		Items:  []Item{{Type: "shirt", Quantity: 1, Price: decimal.NewFromInt(600)}},
		Photos: []string{"/a.jpg"},
		Status: StatusPending,
	}

	c := o.Clone()
	require.NotNil(t, c)
	c.Items[0].Quantity = 99
	c.Photos[0] = "/b.jpg"
	c.Status = StatusDelivered

	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, "/a.jpg", o.Photos[0])
	assert.Equal(t, StatusPending, o.Status)

	var nilOrder *Order
	assert.Nil(t, nilOrder.Clone())
}

func TestFulfillmentValid(t *testing.T) {
	assert.True(t, FulfillmentCollect.Valid())
	assert.True(t, FulfillmentDelivery.Valid())
	assert.False(t, Fulfillment("pickup").Valid())
}
