package scanning

import "strings"

// Supported receipt currencies. EUR doubles as the default.
const (
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyUSD = "USD"
)

func countAny(text string, tokens ...string) int {
	n := 0
	for _, t := range tokens {
		n += strings.Count(text, t)
	}
	return n
}

// DetectCurrency guesses the receipt currency from symbol and code counts.
// Any EUR evidence wins outright; otherwise GBP and USD compete by count,
// with country-name hints as a last resort before the EUR default.
func DetectCurrency(text string) string {
	eur := countAny(text, "EUR", "€")
	gbp := countAny(text, "GBP", "£")
	usd := countAny(text, "USD", "$")

	if eur > 0 {
		return CurrencyEUR
	}
	if gbp > 0 && gbp > usd {
		return CurrencyGBP
	}
	if usd > 0 {
		return CurrencyUSD
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "united kingdom") || strings.Contains(lower, "ireland"):
		return CurrencyGBP
	case strings.Contains(lower, "usa") || strings.Contains(lower, "united states"):
		return CurrencyUSD
	case strings.Contains(lower, "germany") || strings.Contains(lower, "deutschland") ||
		strings.Contains(lower, "mwst") || strings.Contains(lower, "rechnung"):
		return CurrencyEUR
	}

	return CurrencyEUR
}
