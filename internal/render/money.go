package render

import (
	"sync"

	"github.com/bojanz/currency"

	"github.com/jafarshop/storefront-embed/internal/domain"
)

// DefaultLocale is used when no locale is configured
const DefaultLocale = "en-US"

var (
	formattersMu sync.Mutex
	formatters   = map[string]*currency.Formatter{}
)

func formatterFor(locale string) *currency.Formatter {
	if locale == "" {
		locale = DefaultLocale
	}
	formattersMu.Lock()
	defer formattersMu.Unlock()
	f, ok := formatters[locale]
	if !ok {
		f = currency.NewFormatter(currency.NewLocale(locale))
		formatters[locale] = f
	}
	return f
}

// FormatMoney formats m the way the locale writes currency amounts, e.g. 12.5 USD in en-US is "$12.50".
// A currency code the CLDR data does not know falls back to "XYZ 12.50".
func FormatMoney(m domain.Money, locale string) string {
	amount, err := currency.NewAmount(m.Amount.String(), m.CurrencyCode)
	if err != nil {
		return m.CurrencyCode + " " + m.Amount.StringFixed(2)
	}
	return formatterFor(locale).Format(amount)
}
