package matching

import "github.com/shopspring/decimal"

// ConvertToEUR converts amount into EUR using the configured approximate
// rates. This is a tolerance-band aid, not accounting-grade conversion:
// the wide non-EUR amount tolerance absorbs the imprecision. Unknown
// currencies pass through unchanged.
func (m *Matcher) ConvertToEUR(amount decimal.Decimal, currency string) decimal.Decimal {
	rate, ok := m.config.ConversionRates[currency]
	if !ok {
		return amount
	}
	return amount.Mul(decimal.NewFromFloat(rate))
}
