package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

// BodyError is returned by DecodeJSONBody. Status is the HTTP status the
// handler should answer with.
type BodyError struct {
	Status int
	Reason string
}

func (e *BodyError) Error() string { return e.Reason }

func badBody(format string, args ...any) *BodyError {
	return &BodyError{Status: http.StatusBadRequest, Reason: fmt.Sprintf(format, args...)}
}

// ErrorResponse writes the error envelope tagged with the chi request ID.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, types.ErrorResponse{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// InvalidBody answers a failed DecodeJSONBody call.
func InvalidBody(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	var be *BodyError
	if errors.As(err, &be) {
		status = be.Status
	}
	ErrorResponse(w, r, status, "Invalid request body: "+err.Error())
}

// WriteJSONResponse buffers the encoded payload so an encoding failure can
// still turn into a 500.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	l := slog.Default().With(slog.String("request_id", middleware.GetReqID(r.Context())))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		l.ErrorContext(r.Context(), "Encoding response failed", slog.Any("error", err), slog.String("type", fmt.Sprintf("%T", payload)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		l.WarnContext(r.Context(), "Client went away before the body was written", slog.Any("error", err))
	}
}

// DecodeJSONBody reads exactly one JSON value into dst. Unknown keys, trailing
// data and bodies over MaxBodyBytes are rejected with a *BodyError.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return classifyDecodeError(err, dst)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return badBody("body must only contain a single JSON value")
	}
	return nil
}

func classifyDecodeError(err error, dst any) *BodyError {
	var (
		syntax   *json.SyntaxError
		typ      *json.UnmarshalTypeError
		invalid  *json.InvalidUnmarshalError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return &BodyError{Status: http.StatusRequestEntityTooLarge, Reason: fmt.Sprintf("body must not be larger than %d bytes", tooLarge.Limit)}
	case errors.Is(err, io.EOF):
		return badBody("body must not be empty")
	case errors.As(err, &syntax):
		return badBody("body contains badly-formed JSON (at character %d)", syntax.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return badBody("body contains badly-formed JSON")
	case errors.As(err, &typ) && typ.Field != "":
		return badBody("field %q must be %s, got %s", typ.Field, typ.Type, typ.Value)
	case errors.As(err, &typ):
		return badBody("body must be %s, got %s", typ.Type, typ.Value)
	case errors.As(err, &invalid):
		return &BodyError{Status: http.StatusInternalServerError, Reason: fmt.Sprintf("cannot decode into %T", dst)}
	}
	// encoding/json has no typed error for unknown fields
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return badBody("body contains unknown key %s", name)
	}
	return badBody("decoding body: %v", err)
}
