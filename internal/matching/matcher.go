package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zombor/receipt-reconciler/internal/scanning"
)

// Merchant-score tiers for the acceptance and trade-off rules.
const (
	strongMerchantScore = 70 // confident merchant evidence on its own
	mediumMerchantScore = 40
	lowMerchantScore    = 25

	weakDateScore    = 40 // minimum date support when amount is missing
	minimalDateScore = 20 // minimum date support behind a strong merchant

	// exactAmountEpsilon is the relative difference under which an amount
	// match counts as exact for the uniqueness boost.
	exactAmountEpsilon = 0.001
)

// Matcher pairs transactions with receipts. It holds only immutable
// configuration; every MatchAll call is independent.
type Matcher struct {
	config Config
}

// NewMatcher creates a Matcher, failing fast on invalid configuration
func NewMatcher(config Config) (*Matcher, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating matcher config: %w", err)
	}
	return &Matcher{config: config}, nil
}

// IsAmountMatch compares two amounts by absolute value. The relative
// difference is taken against the smaller amount and must stay strictly
// under the tolerance band selected by isEUR, so a difference exactly at
// the tolerance does not match.
func (m *Matcher) IsAmountMatch(a1, a2 decimal.Decimal, isEUR bool) (bool, float64) {
	a1 = a1.Abs()
	a2 = a2.Abs()

	if a1.IsZero() || a2.IsZero() {
		if a1.IsZero() && a2.IsZero() {
			return true, 0
		}
		return false, 1
	}

	smaller := decimal.Min(a1, a2)
	diff, _ := a1.Sub(a2).Abs().Div(smaller).Float64()

	tolerance := m.config.AmountToleranceEUR
	if !isEUR {
		tolerance = m.config.AmountToleranceNonEUR
	}
	return diff < tolerance, diff
}

// dateProximityScore maps the day distance between transaction and receipt
// to a 0-100 auxiliary score.
func dateProximityScore(daysDiff int) int {
	switch {
	case daysDiff == 0:
		return 100
	case daysDiff <= 7:
		return 90
	case daysDiff <= 14:
		return 70
	case daysDiff <= 21:
		return 50
	case daysDiff <= 30:
		return 30
	default:
		return max(0, 30-daysDiff)
	}
}

// foreignCurrencyMarkers in a transaction description put the pair into
// the wide tolerance band even when the receipt itself looks like EUR.
var foreignCurrencyMarkers = []string{"USD", "GBP", "FOREIGN"}

// MatchTransactionToReceipt evaluates a single transaction/receipt pair.
// Business-rule rejections are outcomes, not errors: they come back as
// isMatch=false with the reason recorded in the details.
func (m *Matcher) MatchTransactionToReceipt(t Transaction, r *scanning.Receipt) (bool, int, *MatchDetails) {
	details := &MatchDetails{}
	upperDesc := strings.ToUpper(t.Description)

	// Taxes and bank fees never have receipts; reject before any signal
	// gets a chance to look plausible.
	for _, kw := range m.config.ExclusionKeywords {
		if strings.Contains(upperDesc, kw) {
			details.RejectedReason = fmt.Sprintf("excluded category keyword %q", kw)
			return false, 0, details
		}
	}

	isEUR := true
	for _, marker := range foreignCurrencyMarkers {
		if strings.Contains(upperDesc, marker) {
			isEUR = false
			break
		}
	}

	receiptAmount := r.Amount
	if r.Amount != nil && r.Currency != "" && r.Currency != scanning.CurrencyEUR {
		converted := m.ConvertToEUR(*r.Amount, r.Currency)
		details.ReceiptCurrency = r.Currency
		details.ReceiptAmountOriginal = r.Amount
		details.ReceiptAmountConverted = &converted
		receiptAmount = &converted
		// conversion always carries FX uncertainty
		isEUR = false
	}
	details.IsEUR = isEUR

	hasAmount := receiptAmount != nil
	if hasAmount {
		details.AmountMatch, details.AmountDiffPercent = m.IsAmountMatch(t.Amount, *receiptAmount, isEUR)
	}

	details.MerchantScore = MerchantSimilarity(t.Description, r.Merchant)
	details.MerchantMatch = details.MerchantScore >= m.config.MerchantThreshold

	if t.Date != nil && r.Date != nil {
		days := int(math.Abs(t.Date.Sub(*r.Date).Hours() / 24))
		details.DaysDiff = days
		details.DateScore = dateProximityScore(days)
	}

	isMatch := false
	switch {
	case details.AmountMatch:
		isMatch = true
	case !hasAmount && details.MerchantScore >= m.config.MerchantThreshold && details.DateScore >= weakDateScore:
		isMatch = true
		details.MatchedWithoutAmount = true
	case details.MerchantScore >= strongMerchantScore && details.DateScore >= minimalDateScore:
		isMatch = true
		details.MatchedWithoutAmount = true
	}

	if isMatch {
		if canonical, ok := m.namedKnownMerchant(t.Description); ok {
			if !m.receiptNamesMerchant(r.Merchant, canonical) && details.MerchantScore < strongMerchantScore {
				isMatch = false
				details.RejectedReason = fmt.Sprintf("transaction names %s but receipt merchant %q does not", canonical, r.Merchant)
			}
		}
	}

	// The weaker the merchant evidence, the more exact the amount must be.
	if isMatch && hasAmount {
		ok := true
		switch {
		case details.MerchantScore >= m.config.MerchantThreshold:
		case details.MerchantScore >= mediumMerchantScore:
			ok = details.AmountDiffPercent <= 0.05
		case details.MerchantScore >= lowMerchantScore:
			ok = details.AmountDiffPercent <= 0.03
		default:
			ok = details.AmountDiffPercent <= 0.01
		}
		if !ok {
			isMatch = false
			details.RejectedReason = fmt.Sprintf("merchant score %d too low for amount difference %.2f%%",
				details.MerchantScore, details.AmountDiffPercent*100)
		}
	}

	confidence := 0.0
	if details.AmountMatch {
		confidence += 100 * m.config.Weights.Amount * (1 - math.Min(details.AmountDiffPercent, 1))
	}
	confidence += float64(details.MerchantScore) * m.config.Weights.Merchant
	confidence += float64(details.DateScore) * m.config.Weights.Date

	return isMatch, clampConfidence(int(math.Floor(confidence))), details
}

// namedKnownMerchant reports whether the transaction description clearly
// names one of the configured well-known merchants.
func (m *Matcher) namedKnownMerchant(description string) (string, bool) {
	lower := strings.ToLower(description)
	for canonical, variants := range m.config.KnownMerchants {
		for _, v := range variants {
			if strings.Contains(lower, v) {
				return canonical, true
			}
		}
	}
	return "", false
}

// receiptNamesMerchant reports whether the receipt merchant text contains
// any accepted variant of the canonical merchant.
func (m *Matcher) receiptNamesMerchant(merchant, canonical string) bool {
	lower := strings.ToLower(merchant)
	for _, v := range m.config.KnownMerchants[canonical] {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// FindBestMatch evaluates every candidate receipt and keeps the accepted
// one with the strictly highest confidence; ties keep the first seen.
func (m *Matcher) FindBestMatch(t Transaction, receipts []*scanning.Receipt) (*scanning.Receipt, int, *MatchDetails) {
	var best *scanning.Receipt
	var bestConfidence int
	var bestDetails *MatchDetails

	for _, r := range receipts {
		isMatch, confidence, details := m.MatchTransactionToReceipt(t, r)
		if isMatch && confidence > bestConfidence {
			best = r
			bestConfidence = confidence
			bestDetails = details
		}
	}
	return best, bestConfidence, bestDetails
}

// MatchAll pairs every transaction with at most one receipt, processing
// transactions in input order and consuming each receipt at most once.
// Greedy and order-dependent on purpose: an earlier transaction's best
// match is committed before later transactions are considered.
func (m *Matcher) MatchAll(transactions []Transaction, receipts []*scanning.Receipt) []MatchResult {
	// how often each absolute amount recurs across the whole batch
	amountFreq := make(map[string]int, len(transactions))
	for _, t := range transactions {
		amountFreq[amountKey(t.Amount)]++
	}

	used := make(map[string]bool)
	results := make([]MatchResult, 0, len(transactions))

	for i, t := range transactions {
		available := make([]*scanning.Receipt, 0, len(receipts))
		for _, r := range receipts {
			if !used[r.Filename] {
				available = append(available, r)
			}
		}

		result := MatchResult{
			TransactionIndex: i,
			Transaction:      t,
		}

		if best, confidence, details := m.FindBestMatch(t, available); best != nil {
			// An exact amount that no other transaction shares is strong
			// evidence on its own, whatever the merchant text looked like.
			if details.AmountMatch && details.AmountDiffPercent < exactAmountEpsilon &&
				amountFreq[amountKey(t.Amount)] == 1 {
				confidence = clampConfidence(confidence + m.config.UniqueExactBoost)
				details.ExactAmountBoost = true
			}

			result.Matched = true
			result.Receipt = best
			result.Confidence = confidence
			result.Details = details
			used[best.Filename] = true
		}

		results = append(results, result)
	}

	return results
}

func amountKey(amount decimal.Decimal) string {
	return amount.Abs().StringFixed(2)
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
