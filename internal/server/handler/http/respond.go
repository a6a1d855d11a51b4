package http

import (
	"encoding/json"
	"net/http"

	"github.com/pinhsin/worksite/internal/models"
)

// writeSuccess renders the canonical success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: data})
}

// writeError renders the canonical error envelope.
func writeError(w http.ResponseWriter, status int, code, message, remediation string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.Envelope{
		Success: false,
		Error: &models.ErrorBody{
			Code:        code,
			Message:     message,
			Remediation: remediation,
		},
	})
}
