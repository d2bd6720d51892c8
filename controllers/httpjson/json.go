package httpjson

import (
	"encoding/json"
	"net/http"
)

// Respond пишет JSON-ответ с указанным статусом.
func Respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// Error пишет {"error": message} с указанным статусом.
func Error(w http.ResponseWriter, status int, message string) {
	Respond(w, status, map[string]string{"error": message})
}
