package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/receipt-reconciler/internal/history"
	"github.com/zombor/receipt-reconciler/internal/matching"
	"github.com/zombor/receipt-reconciler/internal/scanning"
)

// IDGenerator generates unique IDs for match runs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Processor produces receipt records from a directory of files
type Processor interface {
	ScanDirectory(dir string) ([]string, error)
	ProcessAll(ctx context.Context, paths []string) ([]*scanning.Receipt, error)
}

// Service runs the full reconciliation pipeline: extract receipts, match
// them against transactions, summarize, and record the run.
type Service struct {
	processor   Processor
	matcher     *matching.Matcher
	db          history.DB
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with default ID generator and time source
func NewService(processor Processor, matcher *matching.Matcher, db history.DB) *Service {
	return NewServiceWithDeps(processor, matcher, db, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(processor Processor, matcher *matching.Matcher, db history.DB, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		processor:   processor,
		matcher:     matcher,
		db:          db,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Run reconciles transactions against the receipts in receiptDir and
// returns the completed run. Persisting the run is best-effort: a storage
// failure is logged but does not discard the matching result.
func (s *Service) Run(ctx context.Context, transactions []matching.Transaction, receiptDir string) (*history.MatchRun, error) {
	paths, err := s.processor.ScanDirectory(receiptDir)
	if err != nil {
		return nil, fmt.Errorf("scanning receipts: %w", err)
	}

	slog.Info("processing receipts", "count", len(paths), "dir", receiptDir)
	receipts, err := s.processor.ProcessAll(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("processing receipts: %w", err)
	}

	results := s.matcher.MatchAll(transactions, receipts)
	report := matching.GenerateReport(results)

	run := &history.MatchRun{
		ID:        s.idGenerator.Generate(),
		CreatedAt: s.timeSource.Now(),
		Report:    report,
		Results:   results,
	}

	if err := s.db.SaveRun(run); err != nil {
		slog.Warn("failed to save match run", "run_id", run.ID, "error", err)
	}

	slog.Info("matching complete",
		"run_id", run.ID,
		"transactions", report.TotalTransactions,
		"matched", report.Matched,
		"match_rate", fmt.Sprintf("%.1f%%", report.MatchRate),
	)
	return run, nil
}
