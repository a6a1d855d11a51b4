package auth

import "github.com/pinhsin/worksite/internal/models"

// ModalState describes the login modal. The coordinator owns no
// rendering; any UI layer subscribes and draws whatever this says.
type ModalState struct {
	// Visible reports whether the modal should be shown.
	Visible bool
	// ErrorText is the inline error to display, "" for none.
	ErrorText string
	// Loading disables the form while a login is in flight.
	Loading bool
	// ButtonLabel is the submit button's current label; warmup
	// progress is surfaced here during login.
	ButtonLabel string
}

// OverlayState describes the blocking loading overlay shown during
// warmup and identity verification.
type OverlayState struct {
	Visible bool
	Message string
}

// NoticeLevel classifies a toast-style notification.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a transient user-facing notification, the analogue of a
// toast message.
type Notice struct {
	Level   NoticeLevel
	Message string
}

const defaultLoginLabel = "Log in"

// setModal mutates the modal state under lock and notifies subscribers
// after releasing it.
func (c *Coordinator) setModal(mutate func(*ModalState)) {
	c.mu.Lock()
	mutate(&c.modal)
	state := c.modal
	subs := c.modalSubs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// setOverlay mutates the overlay state under lock and notifies
// subscribers after releasing it.
func (c *Coordinator) setOverlay(visible bool, message string) {
	c.mu.Lock()
	c.overlay = OverlayState{Visible: visible, Message: message}
	state := c.overlay
	subs := c.overlaySubs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// notify emits a toast-style notice to all subscribers.
func (c *Coordinator) notify(level NoticeLevel, message string) {
	c.mu.Lock()
	subs := c.noticeSubs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(Notice{Level: level, Message: message})
	}
}

// Modal returns the current login modal state.
func (c *Coordinator) Modal() ModalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal
}

// Overlay returns the current loading overlay state.
func (c *Coordinator) Overlay() OverlayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}

// OnModalChange registers a subscriber for login modal updates.
func (c *Coordinator) OnModalChange(fn func(ModalState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modalSubs = append(c.modalSubs, fn)
}

// OnOverlayChange registers a subscriber for overlay updates.
func (c *Coordinator) OnOverlayChange(fn func(OverlayState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlaySubs = append(c.overlaySubs, fn)
}

// OnNotice registers a subscriber for toast-style notices.
func (c *Coordinator) OnNotice(fn func(Notice)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.noticeSubs = append(c.noticeSubs, fn)
}

// OnLogin registers a listener invoked after every successful login.
func (c *Coordinator) OnLogin(fn func(models.Profile)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginSubs = append(c.loginSubs, fn)
}

// OnLogout registers a listener invoked after every logout.
func (c *Coordinator) OnLogout(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logoutSubs = append(c.logoutSubs, fn)
}

// showLoginModal makes the modal visible with a clean form.
func (c *Coordinator) showLoginModal() {
	c.setModal(func(m *ModalState) {
		m.Visible = true
		m.ErrorText = ""
		m.Loading = false
		m.ButtonLabel = defaultLoginLabel
	})
}

// hideLoginModal hides and resets the modal.
func (c *Coordinator) hideLoginModal() {
	c.setModal(func(m *ModalState) {
		*m = ModalState{ButtonLabel: defaultLoginLabel}
	})
}
