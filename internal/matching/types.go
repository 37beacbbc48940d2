package matching

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zombor/receipt-reconciler/internal/scanning"
)

// Transaction is one bank-statement line. The sign of Amount distinguishes
// debits from credits; Description is the raw statement text including any
// bank jargon and reference codes. Transactions are read-only to the
// matcher.
type Transaction struct {
	Date        *time.Time      `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// MatchDetails records why a pair was accepted or rejected, for audit
type MatchDetails struct {
	AmountMatch          bool    `json:"amount_match"`
	AmountDiffPercent    float64 `json:"amount_diff_percent"`
	MerchantMatch        bool    `json:"merchant_match"`
	MerchantScore        int     `json:"merchant_score"`
	IsEUR                bool    `json:"is_eur"`
	DateScore            int     `json:"date_score"`
	DaysDiff             int     `json:"days_diff"`
	MatchedWithoutAmount bool    `json:"matched_without_amount,omitempty"`
	ExactAmountBoost     bool    `json:"exact_amount_boost,omitempty"`
	RejectedReason       string  `json:"rejected_reason,omitempty"`

	ReceiptCurrency        string           `json:"receipt_currency,omitempty"`
	ReceiptAmountOriginal  *decimal.Decimal `json:"receipt_amount_original,omitempty"`
	ReceiptAmountConverted *decimal.Decimal `json:"receipt_amount_converted,omitempty"`
}

// MatchResult is the outcome for one transaction, in input order. Receipt,
// Confidence and Details are only set when Matched is true.
type MatchResult struct {
	TransactionIndex int               `json:"transaction_index"`
	Transaction      Transaction       `json:"transaction"`
	Matched          bool              `json:"matched"`
	Receipt          *scanning.Receipt `json:"receipt,omitempty"`
	Confidence       int               `json:"confidence,omitempty"`
	Details          *MatchDetails     `json:"match_details,omitempty"`
}

// Report summarizes a batch of match results
type Report struct {
	TotalTransactions int     `json:"total_transactions"`
	Matched           int     `json:"matched"`
	Unmatched         int     `json:"unmatched"`
	MatchRate         float64 `json:"match_rate"`
	AverageConfidence float64 `json:"average_confidence"`
}
