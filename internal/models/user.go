package models

import "errors"

// ErrInvalidCredentials is returned when a login attempt presents an
// unknown username or a wrong password. Deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrChannelUnauthorized is returned when a cross-channel exchange
// presents a LIFF identity with no bound worksite account.
var ErrChannelUnauthorized = errors.New("channel identity not authorized")

// User is the server-side representation of an account. The password
// hash and channel binding never leave the server; Profile() derives
// the client-visible view.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	Role         Role
	SiteID       string
	PasswordHash []byte
	// LineUserID binds the account to a LINE identity for LIFF
	// cross-channel auth, "" when unbound.
	LineUserID string
}

// Profile returns the client-visible projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		SiteID:      u.SiteID,
	}
}
