package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	handler := WithRequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/auth/me", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("middleware must not alter the response, got %d", rec.Code)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" {
		t.Errorf("expected method field GET, got %v", fields["method"])
	}
	if fields["path"] != "/api/auth/me" {
		t.Errorf("expected path field /api/auth/me, got %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("expected status field %d, got %v", http.StatusTeapot, fields["status"])
	}
}
