package matching

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// MerchantSimilarity scores how well a transaction description matches a
// merchant name, 0-100. Partial ratio rather than plain edit distance: a
// clean merchant name embedded in a noisy statement line ("REWE" in
// "REWE SAGT DANKE/Berlin") still scores 100.
func MerchantSimilarity(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.PartialRatio(a, b)
}
