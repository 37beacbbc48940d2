package scanning

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Runner lets us stub the external OCR command in tests
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		slog.Error("exec failed",
			"cmd", name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// Tesseract runs the tesseract binary as an OCR engine. The binary is a
// black box: we hand it a PNG on disk and read raw text from stdout.
type Tesseract struct {
	binary    string
	languages string
	runner    Runner
}

// NewTesseract creates a Tesseract engine. languages is a tesseract -l
// value such as "deu+eng".
func NewTesseract(binary, languages string) *Tesseract {
	return NewTesseractWithRunner(binary, languages, execRunner{})
}

// NewTesseractWithRunner creates a Tesseract engine with a custom command
// runner for testing
func NewTesseractWithRunner(binary, languages string, runner Runner) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if languages == "" {
		languages = "deu+eng"
	}
	return &Tesseract{binary: binary, languages: languages, runner: runner}
}

// Recognize writes the PNG to a temp file and OCRs it
func (t *Tesseract) Recognize(ctx context.Context, png []byte) (string, error) {
	tmp, err := os.CreateTemp("", "receipt-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp image: %w", err)
	}

	stdout, stderr, err := t.runner.Run(ctx, t.binary, tmp.Name(), "stdout", "-l", t.languages)
	if err != nil {
		return "", fmt.Errorf("running %s: %w (%s)", filepath.Base(t.binary), err, truncate(string(stderr), 256))
	}
	return string(stdout), nil
}

// Close releases engine resources. The exec-based engine holds none.
func (t *Tesseract) Close() error {
	return nil
}
