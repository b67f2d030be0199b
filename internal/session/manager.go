// Package session owns the single authenticated browser context used for
// platform scraping. Callers acquire tab contexts through the Manager and
// never touch the underlying browser handle directly.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrAuthentication signals an invalid or expired session. It is fatal to
// the current run; callers re-login a bounded number of times at most.
var ErrAuthentication = eris.New("session: authentication failed")

// sessionCookieName is the cookie whose presence marks a logged-in session.
const sessionCookieName = "sessionid"

// ArtifactStore persists the serialized cookie jar between runs.
type ArtifactStore interface {
	LoadSessionArtifact(ctx context.Context, key string) ([]byte, error)
	SaveSessionArtifact(ctx context.Context, key string, payload []byte) error
	DeleteSessionArtifact(ctx context.Context, key string) error
}

// Config controls browser startup and the login flow.
type Config struct {
	BaseURL      string
	Headless     bool
	UserAgent    string
	Username     string
	Password     string
	LoginTimeout time.Duration // deadline for the session cookie to appear
	PollInterval time.Duration
	ArtifactKey  string
}

// Manager lazily starts one browser process, restores or establishes an
// authenticated session, and hands out tab contexts bound to it.
type Manager struct {
	cfg   Config
	store ArtifactStore

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	authenticated bool
}

func New(cfg Config, store ArtifactStore) *Manager {
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = 90 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.ArtifactKey == "" {
		cfg.ArtifactKey = "platform-session"
	}
	return &Manager{cfg: cfg, store: store}
}

// AcquirePage returns a fresh tab context backed by an authenticated
// session, logging in first when necessary. The caller must invoke the
// returned cancel func when done with the page.
func (m *Manager) AcquirePage(ctx context.Context) (context.Context, context.CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureBrowser(); err != nil {
		return nil, nil, err
	}
	if err := m.ensureSession(ctx); err != nil {
		return nil, nil, err
	}
	tabCtx, tabCancel := chromedp.NewContext(m.browserCtx)
	return tabCtx, tabCancel, nil
}

// Invalidate drops the in-memory session, clears browser cookies, and
// deletes the persisted artifact so the next acquire re-authenticates.
func (m *Manager) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.authenticated = false
	if err := m.store.DeleteSessionArtifact(ctx, m.cfg.ArtifactKey); err != nil {
		return eris.Wrap(err, "session: delete artifact")
	}
	if m.browserCtx != nil {
		if err := chromedp.Run(m.browserCtx, network.ClearBrowserCookies()); err != nil {
			return eris.Wrap(err, "session: clear cookies")
		}
	}
	return nil
}

// Close shuts the browser process down.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browserCancel != nil {
		m.browserCancel()
		m.browserCancel = nil
	}
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
	}
	m.browserCtx = nil
	m.authenticated = false
}

func (m *Manager) ensureBrowser() error {
	if m.browserCtx != nil {
		return nil
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 900),
	)
	if m.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(m.cfg.UserAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return eris.Wrap(err, "session: start browser")
	}
	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.browserCancel = browserCancel
	return nil
}

func (m *Manager) ensureSession(ctx context.Context) error {
	if m.authenticated {
		return nil
	}
	if restored, err := m.restoreSession(ctx); err != nil {
		zap.L().Warn("session restore failed, falling back to login", zap.Error(err))
	} else if restored {
		m.authenticated = true
		zap.L().Info("session restored from stored cookies")
		return nil
	}
	if err := m.login(ctx); err != nil {
		return err
	}
	m.authenticated = true
	return nil
}

// restoreSession loads the persisted cookie jar into the browser and
// verifies it still carries a live session cookie.
func (m *Manager) restoreSession(ctx context.Context) (bool, error) {
	payload, err := m.store.LoadSessionArtifact(ctx, m.cfg.ArtifactKey)
	if err != nil {
		return false, eris.Wrap(err, "session: load artifact")
	}
	if len(payload) == 0 {
		return false, nil
	}
	var cookies []savedCookie
	if err := json.Unmarshal(payload, &cookies); err != nil {
		return false, eris.Wrap(err, "session: decode artifact")
	}
	if err := chromedp.Run(m.browserCtx, setCookies(cookies)); err != nil {
		return false, eris.Wrap(err, "session: set cookies")
	}
	if err := chromedp.Run(m.browserCtx,
		chromedp.Navigate(m.cfg.BaseURL),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return false, eris.Wrap(err, "session: navigate")
	}
	return m.hasSessionCookie()
}

// login performs a credential login when credentials are configured, or
// waits for a manual login in the visible browser window otherwise. Either
// way it polls for the session cookie until the deadline.
func (m *Manager) login(ctx context.Context) error {
	loginURL := m.cfg.BaseURL + "/accounts/login/"
	if err := chromedp.Run(m.browserCtx,
		chromedp.Navigate(loginURL),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return eris.Wrap(ErrAuthentication, "navigate to login")
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		err := chromedp.Run(m.browserCtx,
			chromedp.WaitVisible(`input[name="username"]`, chromedp.ByQuery),
			chromedp.SendKeys(`input[name="username"]`, m.cfg.Username, chromedp.ByQuery),
			chromedp.SendKeys(`input[name="password"]`, m.cfg.Password, chromedp.ByQuery),
			chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		)
		if err != nil {
			return eris.Wrap(ErrAuthentication, "submit credentials")
		}
	} else {
		zap.L().Info("no credentials configured, waiting for manual login",
			zap.Duration("deadline", m.cfg.LoginTimeout))
	}

	deadline := time.Now().Add(m.cfg.LoginTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return eris.Wrap(ErrAuthentication, "cancelled while waiting for login")
		case <-time.After(m.cfg.PollInterval):
		}
		ok, err := m.hasSessionCookie()
		if err != nil {
			return eris.Wrap(ErrAuthentication, "read cookies")
		}
		if ok {
			if err := m.persistCookies(ctx); err != nil {
				zap.L().Warn("persisting session cookies failed", zap.Error(err))
			}
			zap.L().Info("login successful")
			return nil
		}
	}
	return eris.Wrap(ErrAuthentication, "session cookie never appeared")
}

func (m *Manager) hasSessionCookie() (bool, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(m.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return false, err
	}
	for _, c := range cookies {
		if c.Name == sessionCookieName && c.Value != "" {
			return true, nil
		}
	}
	return false, nil
}

func (m *Manager) persistCookies(ctx context.Context) error {
	var cookies []*network.Cookie
	err := chromedp.Run(m.browserCtx, chromedp.ActionFunc(func(cctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(cctx)
		return err
	}))
	if err != nil {
		return eris.Wrap(err, "session: get cookies")
	}
	saved := make([]savedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, savedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		})
	}
	payload, err := json.Marshal(saved)
	if err != nil {
		return eris.Wrap(err, "session: encode cookies")
	}
	return m.store.SaveSessionArtifact(ctx, m.cfg.ArtifactKey, payload)
}

type savedCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"http_only"`
	Secure   bool    `json:"secure"`
}

func setCookies(cookies []savedCookie) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			param := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithHTTPOnly(c.HTTPOnly).
				WithSecure(c.Secure)
			if c.Expires > 0 {
				exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
				param = param.WithExpires(&exp)
			}
			if err := param.Do(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
