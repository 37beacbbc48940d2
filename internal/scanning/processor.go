package scanning

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Processor turns a directory of receipt files into Receipt records.
// Extraction over many files is embarrassingly parallel, so files are
// processed by a bounded worker pool; matching downstream stays
// single-threaded.
type Processor struct {
	extractor   TextExtractor
	fields      *FieldExtractor
	concurrency int
	fileTimeout time.Duration
}

// NewProcessor creates a Processor. concurrency bounds the number of files
// extracted at once (OCR engines degrade badly under contention);
// fileTimeout caps the time spent on any single file, zero meaning no cap.
func NewProcessor(extractor TextExtractor, fields *FieldExtractor, concurrency int, fileTimeout time.Duration) *Processor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{
		extractor:   extractor,
		fields:      fields,
		concurrency: concurrency,
		fileTimeout: fileTimeout,
	}
}

// ScanDirectory lists the receipt files in dir, sorted by name
func (p *Processor) ScanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading receipts directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsReceiptPath(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ProcessAll extracts every file into a Receipt, preserving input order.
// A file that cannot be read or recognized degrades to a receipt with nil
// fields instead of failing the batch; only context cancellation aborts.
func (p *Processor) ProcessAll(ctx context.Context, paths []string) ([]*Receipt, error) {
	receipts := make([]*Receipt, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			receipts[i] = p.ProcessFile(ctx, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return receipts, nil
}

// ProcessFile extracts one file into a Receipt. Never returns nil: on
// failure the receipt carries the filename and nothing else.
func (p *Processor) ProcessFile(ctx context.Context, path string) *Receipt {
	receipt := &Receipt{
		Filename: filepath.Base(path),
		Path:     path,
		Currency: CurrencyEUR,
		IsImage:  IsImagePath(path),
	}

	if p.fileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.fileTimeout)
		defer cancel()
	}

	text, err := p.extractor.ExtractText(ctx, path)
	if err != nil {
		slog.Warn("failed to extract text, keeping receipt with empty fields",
			"filename", receipt.Filename,
			"error", err,
		)
		return receipt
	}

	receipt.Text = text
	p.fields.ExtractFields(receipt)
	return receipt
}
