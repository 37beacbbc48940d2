package scanning

import (
	"regexp"
	"strings"
)

var (
	reRecipientField = regexp.MustCompile(`(?i)empfänger:\s*([^\n]+)`)
	reIssuedByField  = regexp.MustCompile(`(?i)ausgestellt von:?\s*([^\n]+)`)

	// company name ending in a legal-form suffix, e.g. "Vattenfall Europe Sales GmbH"
	reCompanySuffix = regexp.MustCompile(`([\p{L}][\p{L}\d&.,'\- ]*?\s(?:GmbH|AG|OHG|KG|UG|Ltd|Inc|LLC|Corp|ApS|AS)\b\.?)`)

	reFirstDigit = regexp.MustCompile(`\d`)
	reUUID       = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	reDigits     = regexp.MustCompile(`\d`)
	reBillTo     = regexp.MustCompile(`(?i)\s*bill(?:ed)?\s+to\b`)
)

// lines containing these are ids/contact data, not merchant names
var companyLineExclusions = []string{
	"steuernummer", "steuer-nr", "ust-id", "ust.-id", "vat", "umsatzsteuer",
	"@", "http", "www.",
}

var companyFormKeywords = []string{
	"inc", "llc", "gmbh", "ltd", "corp", "ag", "kg", "ug", "ohg", "aps",
}

// header/boilerplate tokens that disqualify a line as a merchant name
var merchantBoilerplate = []string{
	"receipt", "invoice", "rechnung", "quittung", "kassenbon", "beleg",
	"date", "datum", "number", "nummer", "no.", "nr.", "tel", "fax",
	"page", "seite", "kundennummer", "order",
}

// ExtractMerchant pulls the merchant name out of raw receipt text. Rules
// are tried in order, first hit wins: explicit recipient/issuer fields,
// a document-wide legal-form suffix search, a company-form keyword scan
// over the first lines, and finally the first substantial header line.
// Returns "" when nothing qualifies.
func ExtractMerchant(text string) string {
	if m := reRecipientField.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}

	if m := reIssuedByField.FindStringSubmatch(text); m != nil {
		name := m[1]
		// the issuer field often runs straight into the street address
		if loc := reFirstDigit.FindStringIndex(name); loc != nil {
			name = name[:loc[0]]
		}
		name = strings.TrimRight(strings.TrimSpace(name), ",")
		if name != "" {
			return name
		}
	}

	for _, line := range strings.Split(text, "\n") {
		m := reCompanySuffix.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if containsAnyFold(line, companyLineExclusions) {
			continue
		}
		return strings.TrimSpace(m[1])
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if containsAnyFold(line, companyLineExclusions) {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range companyFormKeywords {
			if !containsWord(lower, kw) {
				continue
			}
			// "Acme Corp bill to John Doe" keeps only the issuer half
			if loc := reBillTo.FindStringIndex(line); loc != nil {
				line = strings.TrimSpace(line[:loc[0]])
			}
			if line != "" {
				return line
			}
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= 5 {
			continue
		}
		if containsAnyFold(line, merchantBoilerplate) || containsAnyFold(line, companyLineExclusions) {
			continue
		}
		if reUUID.MatchString(line) || mostlyNumeric(line) {
			continue
		}
		return line
	}

	return ""
}

func containsAnyFold(s string, tokens []string) bool {
	s = strings.ToLower(s)
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// containsWord reports whether lower contains kw as a whole word, so that
// "ag" does not fire on "Verlag".
func containsWord(lower, kw string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func mostlyNumeric(line string) bool {
	digits := len(reDigits.FindAllString(line, -1))
	return digits*2 > len(line)
}
