package matching

// GenerateReport summarizes a batch of match results. Average confidence
// is taken over matched results only.
func GenerateReport(results []MatchResult) Report {
	report := Report{TotalTransactions: len(results)}

	confidenceSum := 0
	for _, r := range results {
		if r.Matched {
			report.Matched++
			confidenceSum += r.Confidence
		}
	}
	report.Unmatched = report.TotalTransactions - report.Matched

	if report.TotalTransactions > 0 {
		report.MatchRate = float64(report.Matched) / float64(report.TotalTransactions) * 100
	}
	if report.Matched > 0 {
		report.AverageConfidence = float64(confidenceSum) / float64(report.Matched)
	}
	return report
}
