package scanning

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// systemTimeSource provides the real current time
type systemTimeSource struct{}

func (t *systemTimeSource) Now() time.Time {
	return time.Now()
}

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,

	"januar": time.January, "februar": time.February, "märz": time.March,
	"marz": time.March, "mai": time.May, "juni": time.June, "juli": time.July,
	"oktober": time.October, "dezember": time.December,

	"jan": time.January, "feb": time.February, "mar": time.March,
	"mär": time.March, "apr": time.April, "jun": time.June, "jul": time.July,
	"aug": time.August, "sep": time.September, "sept": time.September,
	"oct": time.October, "okt": time.October, "nov": time.November,
	"dec": time.December, "dez": time.December,
}

func monthByName(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if m, ok := monthsByName[name]; ok {
		return m, true
	}
	if len(name) > 3 {
		if m, ok := monthsByName[name[:3]]; ok {
			return m, true
		}
	}
	return 0, false
}

const monthAlt = `[a-zA-ZäöüÄÖÜ]+\.?`

// Keyword-anchored date fields are tried before any generic shape; the
// captured remainder is fed back through the generic shape list.
var dateKeywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)date\s+paid[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?i)paid\s+on[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?i)invoice\s+date[:\s]+([^\n]+)`),
}

// Email-receipt style "2 January 2026 at 14:05".
var reEmailStyleDate = regexp.MustCompile(`(?i)(\d{1,2})\.?\s+(` + monthAlt + `)\s+(\d{4})\s+at\s+\d{1,2}:\d{2}`)

// datePattern is one generic date shape; parse turns the submatches into a
// calendar date, reporting false for nonsense like month 14.
type datePattern struct {
	name  string
	re    *regexp.Regexp
	parse func(m []string) (time.Time, bool)
}

var datePatterns = []datePattern{
	{"den-dmy", regexp.MustCompile(`(?i)\bden\s+(\d{1,2})\.(\d{1,2})\.(\d{4})`), parseDayMonthYear},
	{"day-monthname-year", regexp.MustCompile(`(?i)\b(\d{1,2})\.?\s+(` + monthAlt + `)\s+(\d{4})\b`), parseDayNamedMonthYear},
	{"monthname-day-year", regexp.MustCompile(`(?i)\b(` + monthAlt + `)\s+(\d{1,2}),?\s+(\d{4})\b`), parseNamedMonthDayYear},
	{"numeric-dotted", regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{2,4})\b`), parseDayMonthYear},
	{"numeric-slashed", regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`), parseDayMonthYear},
	{"iso", regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`), parseISO},
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject rollovers like Feb 30
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

func expandYear(year int) int {
	if year < 100 {
		return 2000 + year
	}
	return year
}

// parseDayMonthYear interprets ambiguous numeric dates day-first, the
// dominant convention on German receipts. Swaps only when day-first is
// impossible.
func parseDayMonthYear(m []string) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := expandYear(atoi(m[3]))
	if d, ok := makeDate(year, month, day); ok {
		return d, true
	}
	return makeDate(year, day, month)
}

func parseDayNamedMonthYear(m []string) (time.Time, bool) {
	month, ok := monthByName(m[2])
	if !ok {
		return time.Time{}, false
	}
	return makeDate(atoi(m[3]), int(month), atoi(m[1]))
}

func parseNamedMonthDayYear(m []string) (time.Time, bool) {
	month, ok := monthByName(m[1])
	if !ok {
		return time.Time{}, false
	}
	return makeDate(atoi(m[3]), int(month), atoi(m[2]))
}

func parseISO(m []string) (time.Time, bool) {
	return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// parseDateCandidate runs the generic shape list over a snippet of text,
// first shape with a match wins.
func parseDateCandidate(text string) (time.Time, bool) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := p.parse(m); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// ExtractDate pulls the transaction date out of raw receipt text. Keyword
// fields are preferred over bare date shapes; parsed dates pass through
// the year-misread correction before being accepted.
func (e *FieldExtractor) ExtractDate(text string) *time.Time {
	for _, re := range dateKeywordPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := parseDateCandidate(m[1]); ok {
			if d2 := e.correctDate(d); d2 != nil {
				return d2
			}
		}
	}

	if m := reEmailStyleDate.FindStringSubmatch(text); m != nil {
		if d, ok := parseDayNamedMonthYear(m); ok {
			if d2 := e.correctDate(d); d2 != nil {
				return d2
			}
		}
	}

	if d, ok := parseDateCandidate(text); ok {
		return e.correctDate(d)
	}
	return nil
}

// correctDate applies the OCR-misread year policy: years past the known-good
// reference year snap back to it, and dates still in the future are pushed
// back a year (at most twice). Dates that remain implausible are dropped.
func (e *FieldExtractor) correctDate(d time.Time) *time.Time {
	if d.Year() > e.referenceYear {
		d = time.Date(e.referenceYear, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}

	now := e.timeSource.Now()
	for i := 0; i < 2 && d.After(now); i++ {
		d = d.AddDate(-1, 0, 0)
	}
	if d.After(now) || d.Year() > now.Year()+1 {
		return nil
	}
	return &d
}
