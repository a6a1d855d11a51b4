// Package auth coordinates the client's session lifecycle: backend
// warmup, token and profile checks, role gating, and the login flow.
// Page controllers call InitializeAuthCheck before rendering protected
// content and react to the success/failure callbacks.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pinhsin/worksite/internal/client/api"
	"github.com/pinhsin/worksite/internal/client/session"
	"github.com/pinhsin/worksite/internal/client/warmup"
	"github.com/pinhsin/worksite/internal/models"
)

// ErrAuthRequired is returned by RequireRole when no profile is held.
var ErrAuthRequired = errors.New("authentication required")

// ErrInsufficientRole is returned by RequireRole when the current
// profile's rank is below the required one.
var ErrInsufficientRole = errors.New("insufficient permissions")

const defaultRevalidateDelay = 2 * time.Second

// Coordinator is the single entry point page controllers use to gate
// rendering behind authentication and backend availability.
type Coordinator struct {
	api    *api.Client
	store  *session.Store
	prober *warmup.Prober
	log    *zap.Logger

	// revalidateDelay postpones the detached profile refresh until
	// after the main check flow has completed.
	revalidateDelay time.Duration

	mu          sync.Mutex
	modal       ModalState
	overlay     OverlayState
	modalSubs   []func(ModalState)
	overlaySubs []func(OverlayState)
	noticeSubs  []func(Notice)
	loginSubs   []func(models.Profile)
	logoutSubs  []func()
	adminInit   func(models.Profile)

	// background tracks the detached revalidation goroutine so tests
	// can wait for it.
	background sync.WaitGroup
}

// NewCoordinator wires the coordinator to its collaborators. All of
// them are constructed once at application start and passed in
// explicitly; the coordinator performs no global lookups.
func NewCoordinator(client *api.Client, store *session.Store, prober *warmup.Prober, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		api:             client,
		store:           store,
		prober:          prober,
		log:             log,
		revalidateDelay: defaultRevalidateDelay,
		modal:           ModalState{ButtonLabel: defaultLoginLabel},
	}
}

// CheckOptions controls one InitializeAuthCheck call.
type CheckOptions struct {
	// RequireAdmin rejects any profile whose role is not admin, even
	// with otherwise valid credentials.
	RequireAdmin bool
	// OnSuccess receives the profile once every check passed.
	OnSuccess func(models.Profile)
	// OnFailure is invoked when the session cannot be established.
	OnFailure func()
}

// InitializeAuthCheck runs the full session check: backend warmup,
// local token check, profile fetch (cached profiles are trusted
// optimistically and revalidated in the background), and the admin
// role gate. Exactly one of OnSuccess/OnFailure is invoked per call.
func (c *Coordinator) InitializeAuthCheck(ctx context.Context, opts CheckOptions) {
	fail := func() {
		if opts.OnFailure != nil {
			opts.OnFailure()
		}
	}

	c.setOverlay(true, "Connecting to backend service...")

	if !c.prober.Run(ctx, func(msg string) { c.setOverlay(true, msg) }) {
		// The prober left its terminal message on the overlay.
		fail()
		return
	}

	c.setOverlay(true, "Verifying your identity...")

	if !c.store.IsAuthenticated() {
		c.setOverlay(false, "")
		fail()
		c.showLoginModal()
		return
	}

	profile := c.store.Profile()
	if profile != nil {
		// Optimistic path: trust the cache for this check and refresh
		// it quietly once the main flow is done.
		c.revalidateInBackground()
	} else {
		fetched, err := c.api.CurrentUser(ctx)
		if err != nil {
			c.log.Warn("profile fetch failed, forcing re-login", zap.Error(err))
			_ = c.store.Clear()
			c.setOverlay(false, "")
			fail()
			c.showLoginModal()
			return
		}
		_ = c.store.SetProfile(*fetched)
		profile = fetched
	}

	if opts.RequireAdmin && profile.Role != models.RoleAdmin {
		// Wrong-role account, not a credential failure: clear the
		// token so the user can log in with proper credentials.
		_ = c.store.Clear()
		c.setOverlay(false, "")
		c.notify(NoticeWarning, "Administrator privileges required, please log in with an administrator account")
		fail()
		c.showLoginModal()
		return
	}

	c.setOverlay(false, "")
	if opts.OnSuccess != nil {
		opts.OnSuccess(*profile)
	}
}

// revalidateInBackground refetches the profile after a short delay,
// detached from the caller. A failure here never interrupts the active
// session; it is logged and the cache stays as it was.
func (c *Coordinator) revalidateInBackground() {
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		time.Sleep(c.revalidateDelay)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		profile, err := c.api.CurrentUser(ctx)
		if err != nil {
			c.log.Warn("background profile revalidation failed", zap.Error(err))
			return
		}
		if err := c.store.SetProfile(*profile); err != nil {
			c.log.Warn("failed to cache revalidated profile", zap.Error(err))
		}
	}()
}

// WaitBackground blocks until any detached revalidation has finished.
// Intended for tests and orderly shutdown.
func (c *Coordinator) WaitBackground() {
	c.background.Wait()
}

// RequireRole checks the cached profile against the required role's
// rank. It never calls the network.
func (c *Coordinator) RequireRole(required models.Role) error {
	profile := c.store.Profile()
	if profile == nil {
		return ErrAuthRequired
	}
	if profile.Role.Rank() < required.Rank() {
		return ErrInsufficientRole
	}
	return nil
}

// CurrentProfile returns the cached profile, or nil when logged out.
func (c *Coordinator) CurrentProfile() *models.Profile {
	return c.store.Profile()
}

// IsAuthenticated reports whether a token is held locally.
func (c *Coordinator) IsAuthenticated() bool {
	return c.store.IsAuthenticated()
}

// OnAdminPageInit registers the admin page's own initialization,
// triggered after a successful login on an admin-designated page.
func (c *Coordinator) OnAdminPageInit(fn func(models.Profile)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adminInit = fn
}

// Logout clears the session and brings the login modal back.
func (c *Coordinator) Logout() {
	_ = c.store.Clear()
	c.showLoginModal()
	c.notify(NoticeInfo, "Logged out")

	c.mu.Lock()
	subs := c.logoutSubs
	c.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
