package main

import (
	_ "embed"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/receipt-reconciler/internal/history"
	"github.com/zombor/receipt-reconciler/internal/matching"
	"github.com/zombor/receipt-reconciler/internal/reconcile"
	"github.com/zombor/receipt-reconciler/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("receipt-reconciler")
	var (
		receiptsDir  = fs.StringLong("receipts", "./receipts", "Directory containing receipt files")
		txnsPath     = fs.StringLong("transactions", "transactions.json", "Path to parsed statement transactions (JSON)")
		outPath      = fs.StringLong("out", "", "Write match results JSON to this file instead of stdout")
		dbPath       = fs.StringLong("db", "receipt-reconciler.db", "Match-run history database file path")
		cachePath    = fs.StringLong("cache", "", "OCR text cache database file path (empty disables caching)")
		tesseractBin = fs.StringLong("tesseract", "tesseract", "Path to the tesseract binary")
		ocrLangs     = fs.StringLong("ocr-langs", "deu+eng", "Tesseract language set")
		concurrency  = fs.IntLong("concurrency", 4, "Number of receipts to extract in parallel")
		fileTimeout  = fs.DurationLong("file-timeout", 2*time.Minute, "Per-file extraction timeout")
		eurTol       = fs.Float64Long("eur-tolerance", 0.001, "Relative amount tolerance for EUR matches")
		nonEurTol    = fs.Float64Long("non-eur-tolerance", 0.20, "Relative amount tolerance for cross-currency matches")
		merchantThr  = fs.IntLong("merchant-threshold", 60, "Minimum merchant similarity score")
		refYear      = fs.IntLong("reference-year", scanning.DefaultReferenceYear, "Known-good year for OCR date misread correction")
		showHistory  = fs.BoolLong("history", "List past match runs and exit")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_RECONCILER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *showHistory {
		if err := printHistory(*dbPath); err != nil {
			slog.Error("Failed to list match runs", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	config := matching.DefaultConfig()
	config.AmountToleranceEUR = *eurTol
	config.AmountToleranceNonEUR = *nonEurTol
	config.MerchantThreshold = *merchantThr

	matcher, err := matching.NewMatcher(config)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	transactions, err := loadTransactions(*txnsPath)
	if err != nil {
		slog.Error("Failed to load transactions", "path", *txnsPath, "error", err)
		os.Exit(1)
	}

	db, err := history.NewBoltDB(*dbPath, history.DefaultRetention)
	if err != nil {
		slog.Error("Failed to initialize history database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ocr := scanning.NewTesseract(*tesseractBin, *ocrLangs)
	defer ocr.Close()

	var extractor scanning.TextExtractor = scanning.NewExtractor(ocr)
	if *cachePath != "" {
		cache, err := scanning.NewTextCache(*cachePath)
		if err != nil {
			slog.Error("Failed to initialize OCR cache", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		extractor = scanning.NewCachedExtractor(extractor, cache)
	}

	fields := scanning.NewFieldExtractor(*refYear)
	processor := scanning.NewProcessor(extractor, fields, *concurrency, *fileTimeout)
	service := reconcile.NewService(processor, matcher, db)

	// Allow Ctrl-C to abort a long OCR scan cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := service.Run(ctx, transactions, *receiptsDir)
	if err != nil {
		slog.Error("Reconciliation failed", "error", err)
		os.Exit(1)
	}

	if err := writeResults(*outPath, run); err != nil {
		slog.Error("Failed to write results", "error", err)
		os.Exit(1)
	}
}

func printHistory(dbPath string) error {
	db, err := history.NewBoltDB(dbPath, history.DefaultRetention)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no match runs recorded")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%s  %s  %d/%d matched (%.1f%%)\n",
			run.CreatedAt.Format(time.RFC3339),
			run.ID,
			run.Report.Matched,
			run.Report.TotalTransactions,
			run.Report.MatchRate,
		)
	}
	return nil
}

func loadTransactions(path string) ([]matching.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transactions file: %w", err)
	}
	var transactions []matching.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("parsing transactions file: %w", err)
	}
	return transactions, nil
}

func writeResults(path string, run *history.MatchRun) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results file: %w", err)
	}
	return nil
}
