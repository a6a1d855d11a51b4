// Package models defines the core data structures shared by the worksite
// client and server: user profiles, roles, and the API response envelope.
package models

// Role identifies a user's position in the access hierarchy.
type Role string

const (
	// RoleAdmin is the system administrator.
	RoleAdmin Role = "admin"
	// RoleBoss is the company owner.
	RoleBoss Role = "boss"
	// RoleSiteManager is a construction-site manager.
	RoleSiteManager Role = "site-manager"
	// RoleClient is an external customer.
	RoleClient Role = "client"
)

// roleRanks orders roles for access gating. A higher rank grants
// every permission of the ranks below it.
var roleRanks = map[Role]int{
	RoleAdmin:       4,
	RoleBoss:        3,
	RoleSiteManager: 2,
	RoleClient:      1,
}

// Rank returns the numeric rank of the role, or 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// DisplayName returns the human-readable name of the role,
// falling back to the raw role string for unknown roles.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "System Administrator"
	case RoleBoss:
		return "Boss"
	case RoleSiteManager:
		return "Site Manager"
	case RoleClient:
		return "Client"
	}
	return string(r)
}

// Profile represents the authenticated user as reported by the server.
// Page controllers treat it as read-only; only the session layer mutates
// the stored copy.
type Profile struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// DisplayName is the name shown in the UI.
	DisplayName string `json:"display_name"`
	// Role determines what the user may access.
	Role Role `json:"role"`
	// SiteID is the construction site the user is affiliated with, if any.
	SiteID string `json:"site_id,omitempty"`
}

// ErrorBody is the error object carried inside a failed response envelope.
type ErrorBody struct {
	// Code is a stable machine-readable error identifier.
	Code string `json:"code"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
	// Details carries optional diagnostic context.
	Details string `json:"details,omitempty"`
	// Remediation suggests what the user can do about the failure.
	Remediation string `json:"remediation,omitempty"`
}

// Envelope is the canonical response body for every API endpoint.
// Absence of Success=true means failure even on HTTP 200.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// LoginResult is the Data payload of a successful login response.
type LoginResult struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// HealthStatus is the Data payload of the health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
}

// HealthyStatus is the Status value asserting the backend is ready.
const HealthyStatus = "healthy"

// CrossChannelResult is the Data payload of a successful LIFF
// cross-channel token exchange.
type CrossChannelResult struct {
	AuthToken    string `json:"authToken"`
	SystemUserID string `json:"systemUserId"`
}
