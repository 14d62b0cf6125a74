package fetch

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// BrowserManager owns the single headless browser process shared by all
// rendered targets. The browser starts lazily on first Acquire, each caller
// gets its own tab, and Shutdown must be called once the owning lifetime
// (request or process) ends. The next Acquire after Shutdown re-initializes.
type BrowserManager struct {
	headless bool
	logger   *zap.Logger

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewBrowserManager builds the manager without starting a browser.
func NewBrowserManager(headless bool, logger *zap.Logger) *BrowserManager {
	return &BrowserManager{headless: headless, logger: logger}
}

// Acquire returns a fresh tab context in the shared browser and a release
// function that closes the tab. Browser-level state is per-process; tabs do
// not share cookies or viewport mutations with each other.
func (m *BrowserManager) Acquire() (context.Context, context.CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browserCtx == nil || m.browserCtx.Err() != nil {
		if err := m.startLocked(); err != nil {
			return nil, nil, err
		}
	}

	tab, cancel := chromedp.NewContext(m.browserCtx)
	return tab, cancel, nil
}

func (m *BrowserManager) startLocked() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(randomUserAgent()),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser process to start now, so a
	// broken Chrome install surfaces here instead of mid-fetch.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return err
	}

	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.browserCancel = browserCancel
	m.logger.Info("headless browser started", zap.Bool("headless", m.headless))
	return nil
}

// Shutdown closes the browser process. Safe to call when no browser is
// running and safe to Acquire again afterwards.
func (m *BrowserManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browserCancel != nil {
		m.browserCancel()
		m.browserCancel = nil
		m.browserCtx = nil
	}
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
	}
	m.logger.Info("headless browser stopped")
}
