package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// maxBodyBytes caps request bodies. Intro requests are a few hundred bytes.
const maxBodyBytes = 64 << 10

// envelope is the standard API response wrapper.
// All JSON responses use this format: { "data": ..., "error": ... }
type envelope struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code and data payload.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Error: msg}); err != nil {
		slog.Error("failed to encode json error response", "error", err)
	}
}

// readJSON decodes a single JSON object from the request body into dst,
// rejecting unknown fields. It returns a client-facing message on failure
// and the empty string on success.
func readJSON(r *http.Request, dst any) string {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return "request body must not be empty"
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return "malformed json"
		case errors.As(err, &typeErr):
			if typeErr.Field != "" {
				return "invalid value for field " + typeErr.Field
			}
			return "invalid value type"
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
		default:
			return "invalid request body"
		}
	}

	if dec.More() {
		return "request body must contain a single json object"
	}
	return ""
}
