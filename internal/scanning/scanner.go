package scanning

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Receipt holds everything extracted from one receipt file. Field pointers
// are nil when extraction failed for that field; a receipt with only its
// Filename and Path set is the degraded result of an unreadable file.
type Receipt struct {
	Filename string           `json:"filename"`
	Path     string           `json:"path"`
	Text     string           `json:"text"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     *time.Time       `json:"date"`
	Merchant string           `json:"merchant,omitempty"`
	Currency string           `json:"currency"`
	IsImage  bool             `json:"is_image"`
}

// TextExtractor turns a receipt file into raw text
type TextExtractor interface {
	// ExtractText extracts the text content of the file at path
	ExtractText(ctx context.Context, path string) (string, error)
}

// OCREngine recognizes text in a PNG image
type OCREngine interface {
	// Recognize runs OCR over PNG image data and returns the raw text
	Recognize(ctx context.Context, png []byte) (string, error)
	// Close releases engine resources
	Close() error
}

// DefaultReferenceYear is the known-good year that obvious OCR year
// misreads snap back to.
const DefaultReferenceYear = 2026

// FieldExtractor derives structured receipt fields from raw text
type FieldExtractor struct {
	referenceYear int
	timeSource    TimeSource
}

// NewFieldExtractor creates a FieldExtractor with the real clock
func NewFieldExtractor(referenceYear int) *FieldExtractor {
	return NewFieldExtractorWithTime(referenceYear, &systemTimeSource{})
}

// NewFieldExtractorWithTime creates a FieldExtractor with a custom time
// source for testing
func NewFieldExtractorWithTime(referenceYear int, ts TimeSource) *FieldExtractor {
	if referenceYear == 0 {
		referenceYear = DefaultReferenceYear
	}
	return &FieldExtractor{referenceYear: referenceYear, timeSource: ts}
}

// ExtractFields populates a Receipt's structured fields from its raw text.
// Every extractor is best-effort: a field that cannot be derived stays at
// its zero value rather than failing the receipt.
func (e *FieldExtractor) ExtractFields(r *Receipt) {
	r.Amount = ExtractAmount(r.Text)
	r.Date = e.ExtractDate(r.Text)
	r.Merchant = ExtractMerchant(r.Text)
	r.Currency = DetectCurrency(r.Text)
}
