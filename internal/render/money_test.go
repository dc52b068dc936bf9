package render

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jafarshop/storefront-embed/internal/domain"
)

func money(amount, code string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), CurrencyCode: code}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name   string
		money  domain.Money
		locale string
		want   string
	}{
		{"usd", money("12.5", "USD"), "en-US", "$12.50"},
		{"line total", money("12.5", "USD").Times(3), "en-US", "$37.50"},
		{"default locale", money("1234.5", "USD"), "", "$1,234.50"},
		{"unknown code", money("12.5", "XYZ"), "en-US", "XYZ 12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.money, tt.locale))
		})
	}
}

func TestFormatMoneyUsesLineCurrency(t *testing.T) {
	assert.Equal(t, "€9.99", FormatMoney(money("9.99", "EUR"), "en-US"))
}
