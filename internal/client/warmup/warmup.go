// Package warmup probes the backend health endpoint before real requests
// are made, masking the cold start of idle-suspended hosting.
package warmup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pinhsin/worksite/internal/models"
)

const (
	defaultMaxAttempts    = 15
	defaultAttemptTimeout = 2500 * time.Millisecond
	defaultRetryDelay     = 3 * time.Second
)

// Prober polls a health endpoint a bounded number of times. It always
// terminates; failure is a return value, never a panic or error.
type Prober struct {
	// URL is the health endpoint to probe.
	URL string
	// MaxAttempts bounds the number of probes.
	MaxAttempts int
	// AttemptTimeout cancels a single slow probe.
	AttemptTimeout time.Duration
	// RetryDelay is the pause between probes, distinct from the
	// per-attempt timeout.
	RetryDelay time.Duration

	httpc *http.Client
}

// NewProber creates a Prober with production defaults
// (15 attempts, 2.5s per attempt, 3s between attempts).
func NewProber(healthURL string) *Prober {
	return &Prober{
		URL:            healthURL,
		MaxAttempts:    defaultMaxAttempts,
		AttemptTimeout: defaultAttemptTimeout,
		RetryDelay:     defaultRetryDelay,
		httpc:          &http.Client{},
	}
}

// healthBody is the expected health endpoint payload.
type healthBody struct {
	Success bool                `json:"success"`
	Data    models.HealthStatus `json:"data"`
}

// Run probes until the backend reports healthy or attempts run out.
// progress, when non-nil, receives human-readable status updates for
// the UI. Returns true once the backend answered healthy.
func (p *Prober) Run(ctx context.Context, progress func(string)) bool {
	report := func(msg string) {
		if progress != nil {
			progress(msg)
		}
	}

	report("Connecting to backend service...")

	for i := 1; i <= p.MaxAttempts; i++ {
		if p.attempt(ctx) {
			report("Backend service connected")
			return true
		}
		report(fmt.Sprintf("Waking backend service... (%d/%d)", i, p.MaxAttempts))

		if i == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			report("Backend service connection failed, please try again later")
			return false
		case <-time.After(p.RetryDelay):
		}
	}

	report("Backend service connection failed, please try again later")
	return false
}

// attempt performs one probe. Healthy requires HTTP 200 and a body
// asserting status "healthy"; anything else counts as a failure.
func (p *Prober) attempt(ctx context.Context) bool {
	attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, p.URL, nil)
	if err != nil {
		return false
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body healthBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Success && body.Data.Status == models.HealthyStatus
}
