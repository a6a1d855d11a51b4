package api

import (
	"fmt"
	"time"

	"github.com/pinhsin/worksite/internal/models"
)

// Error codes the client classifies on. The server may report arbitrary
// additional codes; those pass through unclassified.
const (
	// CodeNetworkError marks transport-level failures (DNS, timeout, abort).
	CodeNetworkError = "NETWORK_ERROR"
	// CodeParseError marks a response body that was not well-formed JSON.
	// Treated as a network-kind failure: the contract was violated.
	CodeParseError = "PARSE_ERROR"
	// CodeAuthRequired means the request needs a valid token.
	CodeAuthRequired = "AUTHENTICATION_REQUIRED"
	// CodeTokenExpired means the presented token is no longer valid.
	CodeTokenExpired = "TOKEN_EXPIRED"
	// CodeAccessDenied means the authenticated user lacks permission.
	CodeAccessDenied = "ACCESS_DENIED"
	// CodeValidationError means the request payload was rejected.
	CodeValidationError = "VALIDATION_ERROR"
)

// Error is the classified form of every failure the Client can produce.
// Fields are never mutated after creation.
type Error struct {
	// Code is the machine-readable error identifier.
	Code string
	// Message is the human-readable description from the server,
	// or a synthesized one for transport failures.
	Message string
	// Details carries optional diagnostic context.
	Details string
	// Remediation suggests what the user can do about the failure.
	Remediation string
	// StatusCode is the HTTP status, or 0 for transport/parse failures.
	StatusCode int
	// Timestamp records when the failure was classified.
	Timestamp time.Time
}

// newError builds an Error from a server-reported error body.
func newError(body *models.ErrorBody, statusCode int) *Error {
	return &Error{
		Code:        body.Code,
		Message:     body.Message,
		Details:     body.Details,
		Remediation: body.Remediation,
		StatusCode:  statusCode,
		Timestamp:   time.Now(),
	}
}

// transportError builds an Error for failures below the API contract;
// status 0 marks it as network-kind.
func transportError(code, message, details string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: %s", e.Message)
}

// IsAuthError reports whether the failure means the session is missing
// or expired. Code-based classification overrides the HTTP status.
func (e *Error) IsAuthError() bool {
	return e.StatusCode == 401 || e.Code == CodeAuthRequired || e.Code == CodeTokenExpired
}

// IsPermissionError reports whether the authenticated user was refused.
func (e *Error) IsPermissionError() bool {
	return e.StatusCode == 403 || e.Code == CodeAccessDenied
}

// IsValidationError reports whether the request payload was rejected.
func (e *Error) IsValidationError() bool {
	return e.StatusCode == 400 || e.Code == CodeValidationError
}

// IsNetworkError reports whether the failure happened below the API
// contract: transport errors and malformed response bodies.
func (e *Error) IsNetworkError() bool {
	return e.Code == CodeNetworkError || e.StatusCode == 0
}

// userMessages maps error codes to canned user-facing strings.
var userMessages = map[string]string{
	CodeNetworkError:    "Network connection error, please check your connection",
	CodeParseError:      "Received an unreadable response from the server",
	CodeAuthRequired:    "Please log in to continue",
	CodeTokenExpired:    "Your session has expired, please log in again",
	CodeAccessDenied:    "You do not have permission to perform this action",
	CodeValidationError: "Some of the submitted values are invalid",
}

// UserMessage returns a user-facing message for the failure: a canned
// string for known codes, the raw server message otherwise, with the
// remediation hint appended when present.
func (e *Error) UserMessage() string {
	msg, ok := userMessages[e.Code]
	if !ok {
		msg = e.Message
	}
	if msg == "" {
		msg = "Unknown error"
	}
	if e.Remediation != "" {
		return msg + ". " + e.Remediation
	}
	return msg
}
