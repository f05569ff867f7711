package axe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
)

// axeCDNURL serves the audit script when no local copy is configured.
const axeCDNURL = "https://cdnjs.cloudflare.com/ajax/libs/axe-core/4.10.2/axe.min.js"

// auditResult mirrors the shape returned by axe.run().
type auditResult struct {
	Violations []models.Violation `json:"violations"`
}

// ChromeAuditor drives a headless browser, injects the axe-core script
// into the target page and collects rule violations.
type ChromeAuditor struct {
	script  string
	timeout time.Duration
	logger  logger.Logger
}

// NewChromeAuditor loads the audit script from scriptPath, falling back
// to the CDN copy when the path is empty or missing.
func NewChromeAuditor(scriptPath string, timeout time.Duration, log logger.Logger) (*ChromeAuditor, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	script, err := loadScript(scriptPath)
	if err != nil {
		return nil, err
	}

	return &ChromeAuditor{
		script:  script,
		timeout: timeout,
		logger:  log,
	}, nil
}

func loadScript(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
	}

	resp, err := http.Get(axeCDNURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch axe script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch axe script: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read axe script: %w", err)
	}
	return string(data), nil
}

// Run loads the URL in a fresh browser context and evaluates axe.run()
// against the rendered page.
func (a *ChromeAuditor) Run(ctx context.Context, url string) ([]models.Violation, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, a.timeout)
	defer cancelRun()

	var result auditResult
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		// Give client-side rendering a moment to settle.
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(a.script, nil),
		chromedp.Evaluate(`axe.run()`, &result, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("accessibility audit failed for %s: %w", url, err)
	}

	a.logger.Info("Accessibility audit finished",
		logger.String("url", url),
		logger.Int("violations", len(result.Violations)),
	)

	return result.Violations, nil
}
