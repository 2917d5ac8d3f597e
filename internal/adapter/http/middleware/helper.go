package middleware

import (
	"encoding/json"
	"net/http"
)

type envelope map[string]any

func errorResponse(w http.ResponseWriter, status int, message any) {
	if err := writeJSON(w, status, envelope{"error": message}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// writeJSON answers with data as JSON; nothing is written when encoding fails.
func writeJSON(w http.ResponseWriter, status int, data envelope) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)

	return nil
}
