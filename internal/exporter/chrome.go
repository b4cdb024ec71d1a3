package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/JOHNINDAKWA/coverly/internal/logging"
)

const (
	// A4 in inches
	paperWidth  = 8.27
	paperHeight = 11.69

	defaultTimeout = 60 * time.Second
)

// ChromeExporter prints documents to PDF with headless Chrome. Pagination is
// left to Chrome, which honours the @page size and break-inside hints the
// templates emit.
type ChromeExporter struct {
	OutputDir  string
	ChromePath string
	Timeout    time.Duration
	log        *logging.Logger
}

func NewChromeExporter(outputDir, chromePath string, timeout time.Duration, log *logging.Logger) *ChromeExporter {
	if log == nil {
		log = logging.Nop()
	}
	return &ChromeExporter{
		OutputDir:  outputDir,
		ChromePath: chromePath,
		Timeout:    timeout,
		log:        log,
	}
}

// Export prints html to a PDF named filename inside OutputDir
func (e *ChromeExporter) Export(ctx context.Context, html, filename string) (*Artifact, error) {
	filename = withExt(filename, ".pdf")

	data, err := e.Print(ctx, html)
	if err != nil {
		return nil, err
	}

	art, err := writeArtifact(e.OutputDir, filename, ContentTypePDF, data)
	if err != nil {
		return nil, err
	}
	e.log.Info("pdf exported", "path", art.Path, "bytes", len(data))
	return art, nil
}

// Print renders html and returns the PDF bytes
func (e *ChromeExporter) Print(ctx context.Context, html string) ([]byte, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	tmpDir, err := os.MkdirTemp("", "coverly-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return nil, fmt.Errorf("failed to stage document: %w", err)
	}

	browserCtx, cancel := e.browserContext(ctx)
	defer cancel()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}
	return pdf, nil
}

func (e *ChromeExporter) browserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	)
	if path := e.chromePath(); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...any) {
		msg := fmt.Sprintf(format, v...)
		// chromedp lags behind the devtools protocol and complains about new enum values
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		e.log.Debug("chromedp", "msg", msg)
	}))

	return ctx, func() {
		cancelCtx()
		cancelAlloc()
	}
}

func (e *ChromeExporter) chromePath() string {
	if e.ChromePath != "" {
		return e.ChromePath
	}
	return os.Getenv("CHROME_PATH")
}
