package scanning

import (
	"regexp"
	"strings"
)

// NumberFormat identifies the numeric convention a receipt uses for amounts
type NumberFormat string

const (
	NumberFormatGerman  NumberFormat = "german"  // 1.234,56
	NumberFormatEnglish NumberFormat = "english" // 1,234.56
)

var (
	reGermanThousands  = regexp.MustCompile(`\d+\.\d{3},\d{2}`)
	reEnglishThousands = regexp.MustCompile(`\d+,\d{3}\.\d{2}`)
	reGermanPlain      = regexp.MustCompile(`\d{1,3},\d{2}`)
	reEnglishPlain     = regexp.MustCompile(`\d{1,3}\.\d{2}`)
)

// DetectNumberFormat decides whether a receipt's numeric tokens follow the
// German (1.234,56) or English (1,234.56) convention. Thousands+decimal
// matches count double because they are unambiguous; a €/EUR marker nudges
// the vote towards German. Ties resolve to English.
func DetectNumberFormat(text string) NumberFormat {
	german := 2 * len(reGermanThousands.FindAllString(text, -1))
	english := 2 * len(reEnglishThousands.FindAllString(text, -1))

	german += len(reGermanPlain.FindAllString(text, -1))
	english += len(reEnglishPlain.FindAllString(text, -1))

	if strings.Contains(text, "€") || strings.Contains(text, "EUR") {
		german++
	}

	if german > english {
		return NumberFormatGerman
	}
	return NumberFormatEnglish
}

// NormalizeAmount rewrites an amount string into plain decimal notation
// ("1234.56") according to the given convention.
func NormalizeAmount(amount string, format NumberFormat) string {
	amount = strings.TrimSpace(amount)
	if format == NumberFormatGerman {
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.ReplaceAll(amount, ",", ".")
		return amount
	}
	return strings.ReplaceAll(amount, ",", "")
}
