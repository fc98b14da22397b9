// Package httputil holds the JSON response and request helpers shared by the
// module handlers.
package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	dErrors "formgate/pkg/domain-errors"
)

// Fixed client-facing messages for conditions no handler owns.
const (
	MessageInternal      = "Algo deu errado!"
	MessageRouteNotFound = "Rota não encontrada"
)

// ErrMalformedBody is returned by ReadJSONBody when the body is not JSON.
var ErrMalformedBody = errors.New("malformed JSON body")

// MessageResponse is the envelope for every non-data response.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteRawJSON writes an already encoded JSON document.
func WriteRawJSON(w http.ResponseWriter, status int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteError translates a domain error into a status and message envelope.
// Anything that is not a domain error becomes the generic 500.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		WriteMessage(w, http.StatusInternalServerError, MessageInternal)
		return
	}
	WriteMessage(w, dErrors.ToHTTPStatus(de.Code), de.Message)
}

// WriteInternal logs err and writes the generic 500 envelope.
func WriteInternal(w http.ResponseWriter, r *http.Request, logger *slog.Logger, requestID string, err error) {
	logger.ErrorContext(r.Context(), "unhandled request error",
		"request_id", requestID,
		"path", r.URL.Path,
		"error", err,
	)
	WriteMessage(w, http.StatusInternalServerError, MessageInternal)
}

// ReadJSONBody reads the request body and checks it is one JSON document.
// An empty body, or one not declared as application/json, reads as an empty
// object and is left unread.
func ReadJSONBody(r *http.Request) (json.RawMessage, error) {
	if r.Body == nil || !IsJSONContentType(r.Header.Get("Content-Type")) {
		return json.RawMessage("{}"), nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(data) {
		return nil, ErrMalformedBody
	}
	return json.RawMessage(data), nil
}

// IsJSONContentType reports whether a Content-Type header names application/json,
// parameters such as charset aside.
func IsJSONContentType(header string) bool {
	mediaType, _, err := mime.ParseMediaType(header)
	return err == nil && mediaType == "application/json"
}

// DecodeJSON reads the body with ReadJSONBody and unmarshals it into T.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	raw, err := ReadJSONBody(r)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Join(ErrMalformedBody, err)
	}
	return &v, nil
}
