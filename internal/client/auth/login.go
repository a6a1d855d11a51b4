package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/pinhsin/worksite/internal/client/api"
)

// ErrLoginRejected is returned by Login for any failure that was
// surfaced inline in the modal.
var ErrLoginRejected = errors.New("login rejected")

// Login runs the modal's submit flow: local validation, backend warmup
// (progress shown on the submit button), then the login request. On
// success the session is stored, the modal closes and login listeners
// fire. On failure the modal stays open with an inline error message.
func (c *Coordinator) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		c.setModal(func(m *ModalState) {
			m.ErrorText = "Please enter username and password"
		})
		return ErrLoginRejected
	}

	c.setModal(func(m *ModalState) {
		m.Loading = true
		m.ErrorText = ""
		m.ButtonLabel = "Logging in..."
	})

	// Wake the backend first so the login request itself does not hit
	// a cold instance. The login call reports its own failure either way.
	c.prober.Run(ctx, func(msg string) {
		c.setModal(func(m *ModalState) { m.ButtonLabel = msg })
	})

	result, err := c.api.Login(ctx, username, password)
	if err != nil {
		c.setModal(func(m *ModalState) {
			m.Loading = false
			m.ButtonLabel = defaultLoginLabel
			m.ErrorText = loginErrorText(err)
		})
		return ErrLoginRejected
	}

	_ = c.store.SetToken(result.Token)
	_ = c.store.SetProfile(result.User)

	c.hideLoginModal()
	c.notify(NoticeSuccess, "Login successful")

	c.mu.Lock()
	loginSubs := c.loginSubs
	adminInit := c.adminInit
	c.mu.Unlock()

	for _, fn := range loginSubs {
		fn(result.User)
	}
	if adminInit != nil {
		adminInit(result.User)
	}
	return nil
}

// loginErrorText rewrites API failures into the modal's inline message.
func loginErrorText(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return "Login failed, please try again later"
	}
	switch {
	case apiErr.IsAuthError():
		return "Username or password incorrect"
	case apiErr.IsNetworkError():
		return "Please check your network connection"
	}
	return apiErr.UserMessage()
}
