package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const (
	// engineMaxAge bounds memory growth in the underlying browser across
	// long server uptime. A stale instance is closed and relaunched on the
	// next page request, never reused.
	engineMaxAge = time.Hour

	// defaultReadyTimeout bounds the wait for page content (fonts, images)
	// to settle before capture
	defaultReadyTimeout = 10 * time.Second

	// A4 paper size in inches
	paperWidthA4  = 8.27
	paperHeightA4 = 11.69

	// A4 width/height in CSS pixels at 96 DPI, used for screenshots
	viewportWidthA4  = 794
	viewportHeightA4 = 1123
)

// quiescenceScript resolves once fonts are ready and every image has
// either loaded or errored, with a per-image guard timeout
const quiescenceScript = `
	(function() {
		return Promise.all([
			document.fonts.ready,
			Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
				return new Promise((resolve) => {
					if (img.complete) {
						resolve();
						return;
					}
					const timeout = setTimeout(() => resolve(), 5000);
					img.onload = () => { clearTimeout(timeout); resolve(); };
					img.onerror = () => { clearTimeout(timeout); resolve(); };
				});
			}))
		]);
	})();
`

// detectChromePath detects the path to the Chrome/Chromium executable.
// Checks CHROME_PATH env var first, then common installation paths.
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// BrowserPool owns the single shared headless browser instance. The
// browser is launched lazily on first use and relaunched when it exceeds
// engineMaxAge; pages are request-scoped tabs within it. The lazy-launch
// and staleness checks run under a mutex so concurrent first requests
// cannot race two browser processes into existence.
// Implements PdfEngineInterface.
type BrowserPool struct {
	mu           sync.Mutex
	browserCtx   context.Context
	closers      []context.CancelFunc
	launchedAt   time.Time
	readyTimeout time.Duration

	// injected for tests
	now    func() time.Time
	launch func() (context.Context, []context.CancelFunc, error)
}

// NewBrowserPool creates a new BrowserPool. A zero readyTimeout falls back
// to the 10s default.
func NewBrowserPool(readyTimeout time.Duration) *BrowserPool {
	if readyTimeout == 0 {
		readyTimeout = defaultReadyTimeout
	}
	pool := &BrowserPool{
		readyTimeout: readyTimeout,
		now:          time.Now,
	}
	pool.launch = pool.launchBrowser
	return pool
}

// Ensure BrowserPool implements PdfEngineInterface
var _ PdfEngineInterface = (*BrowserPool)(nil)

// launchBrowser starts a headless browser process. Launch failures surface
// here rather than on the first page action.
func (p *BrowserPool) launchBrowser() (context.Context, []context.CancelFunc, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if chromePath := detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, nil, fmt.Errorf("failed to launch rendering engine: %w", err)
	}

	return browserCtx, []context.CancelFunc{browserCancel, allocCancel}, nil
}

// acquireBrowser returns the shared browser context, relaunching it first
// when the current instance has gone stale
func (p *BrowserPool) acquireBrowser() (context.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browserCtx != nil && p.now().Sub(p.launchedAt) > engineMaxAge {
		log.Printf("♻️  Rendering engine is stale (launched %s ago), relaunching", p.now().Sub(p.launchedAt).Round(time.Minute))
		p.closeLocked()
	}

	if p.browserCtx == nil {
		browserCtx, closers, err := p.launch()
		if err != nil {
			return nil, err
		}
		p.browserCtx = browserCtx
		p.closers = closers
		p.launchedAt = p.now()
		log.Printf("🚀 Rendering engine launched")
	}

	return p.browserCtx, nil
}

// Page opens a new tab in the shared browser. The returned cancel func
// closes the tab and must be called at the end of the request's flow.
func (p *BrowserPool) Page(ctx context.Context) (context.Context, context.CancelFunc, error) {
	browserCtx, err := p.acquireBrowser()
	if err != nil {
		return nil, nil, err
	}

	pageCtx, pageCancel := chromedp.NewContext(browserCtx)
	return pageCtx, pageCancel, nil
}

// loadMarkup loads markup into the page and waits for content quiescence
func loadMarkup(markup string) []chromedp.Action {
	return []chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(quiescenceScript, nil, func(params *runtime.EvaluateParams) *runtime.EvaluateParams {
			return params.WithAwaitPromise(true)
		}),
	}
}

// loadWithTimeout runs the markup-load actions bounded by the ready timeout
func (p *BrowserPool) loadWithTimeout(pageCtx context.Context, markup string) error {
	loadCtx, cancel := context.WithTimeout(pageCtx, p.readyTimeout)
	defer cancel()

	if err := chromedp.Run(loadCtx, loadMarkup(markup)...); err != nil {
		if loadCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("page content did not become ready within %s: %w", p.readyTimeout, err)
		}
		return fmt.Errorf("failed to load markup into page: %w", err)
	}
	return nil
}

// Rasterize loads markup into the page and captures a PNG screenshot at A4
// proportions
func (p *BrowserPool) Rasterize(pageCtx context.Context, markup string) ([]byte, error) {
	if err := chromedp.Run(pageCtx, chromedp.EmulateViewport(viewportWidthA4, viewportHeightA4)); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if err := p.loadWithTimeout(pageCtx, markup); err != nil {
		return nil, err
	}

	var buf []byte
	if err := chromedp.Run(pageCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("captured screenshot is empty")
	}

	return buf, nil
}

// RenderPdf loads markup into the page and prints it as an A4 PDF with the
// given margins and optional header/footer fragments
func (p *BrowserPool) RenderPdf(pageCtx context.Context, markup string, opts PdfOptions) ([]byte, error) {
	if err := p.loadWithTimeout(pageCtx, markup); err != nil {
		return nil, err
	}

	displayHeaderFooter := opts.HeaderHTML != "" || opts.FooterHTML != ""
	marginTop := opts.MarginTop
	marginBottom := opts.MarginBottom
	if displayHeaderFooter {
		// Chrome draws header/footer inside the margins; keep room for them
		if opts.HeaderHTML != "" && marginTop < 10 {
			marginTop = 10
		}
		if opts.FooterHTML != "" && marginBottom < 10 {
			marginBottom = 10
		}
	}

	var pdfBuf []byte
	err := chromedp.Run(pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(paperWidthA4).
			WithPaperHeight(paperHeightA4).
			WithMarginTop(mmToInches(marginTop)).
			WithMarginBottom(mmToInches(marginBottom)).
			WithMarginLeft(mmToInches(opts.MarginLeft)).
			WithMarginRight(mmToInches(opts.MarginRight)).
			WithDisplayHeaderFooter(displayHeaderFooter).
			WithHeaderTemplate(opts.HeaderHTML).
			WithFooterTemplate(opts.FooterHTML).
			Do(ctx)
		if err != nil {
			return err
		}
		pdfBuf = data
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	if len(pdfBuf) == 0 {
		return nil, fmt.Errorf("generated PDF is empty")
	}

	return pdfBuf, nil
}

// mmToInches converts millimeters to inches, the unit PrintToPDF expects
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// closeLocked tears down the current browser instance. Caller holds p.mu.
func (p *BrowserPool) closeLocked() {
	for _, cancel := range p.closers {
		cancel()
	}
	p.browserCtx = nil
	p.closers = nil
	p.launchedAt = time.Time{}
}

// Close tears down the pooled browser on process shutdown
func (p *BrowserPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}
