package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the shape of every error response: a human-readable
// message plus an optional diagnostic string.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Message: message})
}

// WriteErrorDetail attaches a best-effort diagnostic string to the error body.
func WriteErrorDetail(w http.ResponseWriter, status int, message, detail string) {
	WriteJSON(w, status, ErrorBody{Message: message, Error: detail})
}

// WriteFieldErrors renders schema validation failures as a per-field map.
func WriteFieldErrors(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, map[string]interface{}{"error": fields})
}

func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
