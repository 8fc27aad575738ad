// internal/browser/cdp/session.go
package cdp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/internal/config"
)

// maxTouchPoints is advertised to the page when touch emulation is on; zoom
// needs at least two.
const maxTouchPoints = 5

// Session owns one Chrome tab and exposes it as a driver backend.
type Session struct {
	*cdpExecutor

	id          string
	cfg         config.BrowserConfig
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
	closeErr    error
}

// NewSession launches Chrome, applies viewport and touch emulation and
// navigates to the configured start URL. The browser lives until Close or
// until parent is cancelled.
func NewSession(parent context.Context, cfg config.Interface, logger *zap.Logger) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("cdp: configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bc := cfg.Browser()
	if err := bc.Validate(); err != nil {
		return nil, fmt.Errorf("cdp: invalid browser configuration: %w", err)
	}

	id := uuid.NewString()
	log := logger.Named("cdp").With(zap.String("session_id", id))

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, AllocatorOptions(bc)...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Sugar().Debugf))

	s := &Session{
		id:          id,
		cfg:         bc,
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}
	s.cdpExecutor = newExecutor(log.Named("executor"), s.RunActions, bc.OperationTimeout, bc.DispatchRate, bc.DispatchBurst)

	if err := s.initialize(parent); err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Info("Browser session started.", zap.Bool("headless", bc.Headless), zap.String("url", bc.StartURL))
	return s, nil
}

func (s *Session) initialize(ctx context.Context) error {
	// The first Run allocates the browser and must use the tab context itself,
	// otherwise the browser's lifetime would be tied to an operation timeout.
	if err := chromedp.Run(s.ctx); err != nil {
		return fmt.Errorf("cdp: failed to start browser: %w", err)
	}

	actions := []chromedp.Action{
		emulation.SetDeviceMetricsOverride(int64(s.cfg.ViewportWidth), int64(s.cfg.ViewportHeight), 1, s.cfg.EmulateTouch),
	}
	if s.cfg.EmulateTouch {
		actions = append(actions, emulation.SetTouchEmulationEnabled(true).WithMaxTouchPoints(maxTouchPoints))
	}
	if err := s.run(ctx, "emulation setup", actions...); err != nil {
		return err
	}
	if s.cfg.StartURL != "" {
		return s.Navigate(ctx, s.cfg.StartURL)
	}
	return nil
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// RunActions runs chromedp actions against the tab, bounded by ctx as well as
// the session's own lifetime.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := CombineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(combined, actions...)
}

// Navigate loads url and waits for the body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, "navigate", chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = fmt.Errorf("cdp: failed to close browser: %w", err)
		}
		s.cancel()
		s.allocCancel()
		s.logger.Debug("Browser session closed.")
	})
	return s.closeErr
}
