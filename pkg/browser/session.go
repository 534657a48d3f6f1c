package browser

import (
	"context"
	"fmt"
	"sync"

	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/domready/internal/config"
	"github.com/xkilldash9x/domready/pkg/browser/cdp"
	"github.com/xkilldash9x/domready/pkg/dom"
)

// Session is one isolated browser tab plus the environment adapter bound to
// it. DOM snapshots taken through the session feed the adapter's hit-test
// resolution.
type Session struct {
	id      string
	logger  *zap.Logger
	cfg     config.Interface
	taskCtx context.Context
	cancel  context.CancelFunc
	env     *cdp.Env

	mu      sync.Mutex
	tree    *cdp.Tree
	closed  bool
	onClose func()
}

// newSession opens a tab, sets the configured viewport and prepares the
// environment adapter.
func newSession(ctx context.Context, allocatorCtx context.Context, cfg config.Interface, logger *zap.Logger) (*Session, error) {
	taskCtx, cancel := chromedp.NewContext(allocatorCtx)

	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		taskCtx: taskCtx,
		cancel:  cancel,
	}
	s.logger = logger.Named("session").With(zap.String("session_id", s.id))
	s.env = cdp.NewEnv(taskCtx)

	width, height := cfg.Browser().ViewportSize()
	initCtx, cancelInit := context.WithTimeout(taskCtx, launchProbeTimeout)
	defer cancelInit()
	stop := context.AfterFunc(ctx, cancelInit)
	defer stop()

	if err := chromedp.Run(initCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate("about:blank"),
	); err != nil {
		cancel()
		return nil, fmt.Errorf("prepare tab: %w", err)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Env returns the dom.Env bound to this tab.
func (s *Session) Env() *cdp.Env { return s.env }

// run executes an action on the tab, honoring the caller's deadline.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.taskCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads a URL and waits for the document body, bounded by the
// configured navigation timeout.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Navigating.", zap.String("url", url))
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.Browser().NavigationTimeout)
	defer cancel()
	if err := s.run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Snapshot captures the full composed DOM, open shadow roots included, and
// installs it as the adapter's current tree.
func (s *Session) Snapshot(ctx context.Context) (dom.Root, error) {
	var tree *cdp.Tree
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		doc, err := cdpdom.GetDocument().WithDepth(-1).WithPierce(true).Do(ctx)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		tree = cdp.BuildTree(doc)
		return nil
	}))
	if err != nil {
		return nil, err
	}

	s.env.SetTree(tree)
	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
	return tree.Root(), nil
}

// Query resolves a CSS selector against the current snapshot. Snapshot must
// have been called first.
func (s *Session) Query(ctx context.Context, selector string) (dom.Element, error) {
	s.mu.Lock()
	tree := s.tree
	s.mu.Unlock()
	if tree == nil {
		return nil, fmt.Errorf("no snapshot taken for session %s", s.id)
	}

	var el dom.Element
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		id, err := cdpdom.QuerySelector(tree.RootID(), selector).Do(ctx)
		if err != nil {
			return fmt.Errorf("query %q: %w", selector, err)
		}
		if id != 0 {
			el = tree.ElementByID(id)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return el, nil
}

// Close tears down the tab. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	onClose := s.onClose
	s.mu.Unlock()

	s.cancel()
	if onClose != nil {
		onClose()
	}
	s.logger.Debug("Session closed.")
	return nil
}
