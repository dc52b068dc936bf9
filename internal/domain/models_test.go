package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(amount string) Money {
	return Money{Amount: decimal.RequireFromString(amount), CurrencyCode: "USD"}
}

func TestMoneyTimes(t *testing.T) {
	got := usd("12.5").Times(3)
	assert.True(t, decimal.RequireFromString("37.5").Equal(got.Amount))
	assert.Equal(t, "USD", got.CurrencyCode)
}

func TestLineTotalUsesLineCurrency(t *testing.T) {
	l := Line{ID: "l1", Quantity: 2, Merchandise: Merchandise{Price: Money{Amount: decimal.RequireFromString("9.99"), CurrencyCode: "EUR"}}}
	total := l.Total()
	assert.Equal(t, "EUR", total.CurrencyCode)
	assert.Equal(t, "19.98", total.Amount.StringFixed(2))
}

func TestCartItemCount(t *testing.T) {
	var nilCart *Cart
	assert.Equal(t, 0, nilCart.ItemCount())

	c := &Cart{Lines: []Line{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 5, c.ItemCount())
}

func TestProductVariants(t *testing.T) {
	p := &Product{Variants: []Variant{
		{ID: "v1", Title: "S", AvailableForSale: false},
		{ID: "v2", Title: "M", AvailableForSale: true},
	}}

	first := p.FirstAvailableVariant()
	require.NotNil(t, first)
	assert.Equal(t, "v2", first.ID)
	assert.Equal(t, "S", p.Variant("v1").Title)
	assert.Nil(t, p.Variant("missing"))

	none := &Product{Variants: []Variant{{ID: "v1"}}}
	assert.Nil(t, none.FirstAvailableVariant())
}

func TestStorageBackendIsValid(t *testing.T) {
	assert.True(t, StorageCookie.IsValid())
	assert.True(t, StoragePostgres.IsValid())
	assert.False(t, StorageBackend("sqlite").IsValid())
}
