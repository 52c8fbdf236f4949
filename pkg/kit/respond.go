package kit

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope is the wire shape of every failed response. Data is
// always null.
type ErrorEnvelope struct {
	Success bool        `json:"success"`
	Data    any         `json:"data"`
	Errors  []ErrorItem `json:"errors"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteSuccess(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func WriteFail(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorEnvelope{
		Success: false,
		Data:    nil,
		Errors:  []ErrorItem{{Code: code, Message: message}},
	})
}
