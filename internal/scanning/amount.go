package scanning

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Amounts outside this range are treated as OCR noise rather than totals.
var (
	minPlausibleAmount = decimal.NewFromFloat(0.01)
	maxPlausibleAmount = decimal.NewFromInt(999999)
)

// amountPattern is one entry of the extraction cascade. The first capture
// group must be the raw amount token.
type amountPattern struct {
	name string
	re   *regexp.Regexp
}

// amountPatterns is evaluated strictly in order: the first pattern that
// yields any plausible candidate wins, even if a later pattern would have
// matched a "better" looking number. Keyword-anchored totals come before
// generic ones, which come before bare currency-adjacent numbers.
var amountPatterns = []amountPattern{
	{"amount-paid", regexp.MustCompile(`(?i)amount\s+paid[:\s]*[€$£]?\s*(\d(?:[\d.,]*\d)?)`)},
	{"grand-total", regexp.MustCompile(`(?i)grand\s+total[:\s]*[€$£]?\s*(\d(?:[\d.,]*\d)?)`)},
	{"gesamtbetrag", regexp.MustCompile(`(?i)gesamtbetrag[:\s]*(\d(?:[\d.,]*\d)?)\s*(?:€|EUR)?`)},
	{"endsumme", regexp.MustCompile(`(?i)endsumme[:\s]*(\d(?:[\d.,]*\d)?)\s*(?:€|EUR)?`)},
	{"summe-eur", regexp.MustCompile(`(?i)summe[:\s]*(\d(?:[\d.,]*\d)?)\s*(?:€|EUR)`)},
	{"rechnungsbetrag", regexp.MustCompile(`(?i)rechnungsbetrag[:\s]*(\d(?:[\d.,]*\d)?)\s*(?:€|EUR)?`)},
	{"endbetrag", regexp.MustCompile(`(?i)endbetrag[:\s]*(\d(?:[\d.,]*\d)?)\s*(?:€|EUR)?`)},
	{"total", regexp.MustCompile(`(?i)total[:\s]*[€$£]?\s*(\d(?:[\d.,]*\d)?)`)},
	{"currency-adjacent", regexp.MustCompile(`[€$£]\s*(\d(?:[\d.,]*\d)?)|\b(\d(?:[\d.,]*\d)?)\s*[€$£]`)},
}

// ExtractAmount pulls the total amount out of raw receipt text. Candidates
// are normalized according to the detected number format and filtered to a
// plausible range; within the winning pattern the last match in document
// order is returned, since totals tend to appear after subtotals. Returns
// nil when nothing plausible is found.
func ExtractAmount(text string) *decimal.Decimal {
	format := DetectNumberFormat(text)

	for _, pattern := range amountPatterns {
		matches := pattern.re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		var last *decimal.Decimal
		for _, m := range matches {
			raw := m[1]
			if raw == "" && len(m) > 2 {
				raw = m[2]
			}
			amount, err := decimal.NewFromString(NormalizeAmount(raw, format))
			if err != nil {
				continue
			}
			if amount.LessThan(minPlausibleAmount) || amount.GreaterThan(maxPlausibleAmount) {
				continue
			}
			last = &amount
		}
		if last != nil {
			return last
		}
	}

	return nil
}
