package matching

import "fmt"

// Weights splits the confidence score between the three signals. The
// defaults encode the 50/35/15 amount/merchant/date split.
type Weights struct {
	Amount   float64
	Merchant float64
	Date     float64
}

// Config is the complete, immutable matcher configuration. Construct it
// with DefaultConfig and override fields before handing it to NewMatcher;
// the matcher never mutates it.
type Config struct {
	// AmountToleranceEUR is the relative error band for same-currency
	// comparisons (0.001 = 0.1%, near-exact).
	AmountToleranceEUR float64

	// AmountToleranceNonEUR is the wider band for cross-currency
	// comparisons, absorbing FX spread and card fees.
	AmountToleranceNonEUR float64

	// MerchantThreshold is the minimum similarity score for a merchant
	// match.
	MerchantThreshold int

	// UniqueExactBoost is added to confidence when an exact amount match
	// is unique within the batch.
	UniqueExactBoost int

	Weights Weights

	// ConversionRates maps currency codes to approximate EUR multipliers.
	// Unknown currencies pass through at 1.0.
	ConversionRates map[string]float64

	// KnownMerchants maps a canonical merchant to the textual variants a
	// genuine receipt from that merchant would contain. Used to reject
	// amount coincidences against well-known recurring billers.
	KnownMerchants map[string][]string

	// ExclusionKeywords are upper-cased description substrings that must
	// never consume a receipt (taxes, bank fees).
	ExclusionKeywords []string
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		AmountToleranceEUR:    0.001,
		AmountToleranceNonEUR: 0.20,
		MerchantThreshold:     60,
		UniqueExactBoost:      30,
		Weights: Weights{
			Amount:   0.50,
			Merchant: 0.35,
			Date:     0.15,
		},
		ConversionRates: map[string]float64{
			"EUR": 1.0,
			"GBP": 1.19,
			"USD": 0.92,
		},
		KnownMerchants: map[string][]string{
			"spotify":  {"spotify", "spoti"},
			"beatport": {"beatport"},
			"amazon":   {"amazon", "amzn"},
			"google":   {"google"},
			"netflix":  {"netflix"},
			"apple":    {"apple"},
			"paypal":   {"paypal"},
		},
		ExclusionKeywords: []string{
			"MEHRWERTSTEUER",
			"UMSATZSTEUER",
			"ABSCHLUSS",
			"KONTOFÜHRUNG",
			"BANK FEE",
			"SERVICE FEE",
			"MONTHLY FEE",
			"GEBÜHR",
		},
	}
}

// Validate rejects configurations that would make matching meaningless.
// Called before any matching begins; a bad config is a programmer error.
func (c Config) Validate() error {
	if c.AmountToleranceEUR < 0 || c.AmountToleranceEUR > 1 {
		return fmt.Errorf("amount tolerance (EUR) must be between 0 and 1, got %v", c.AmountToleranceEUR)
	}
	if c.AmountToleranceNonEUR < 0 || c.AmountToleranceNonEUR > 1 {
		return fmt.Errorf("amount tolerance (non-EUR) must be between 0 and 1, got %v", c.AmountToleranceNonEUR)
	}
	if c.MerchantThreshold < 0 || c.MerchantThreshold > 100 {
		return fmt.Errorf("merchant threshold must be between 0 and 100, got %d", c.MerchantThreshold)
	}
	if c.UniqueExactBoost < 0 || c.UniqueExactBoost > 100 {
		return fmt.Errorf("unique exact boost must be between 0 and 100, got %d", c.UniqueExactBoost)
	}
	return nil
}
