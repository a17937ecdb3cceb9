package types

import "errors"

var (
	ErrMissingCredential = errors.New("API key not configured")
	ErrEmptyAnswer       = errors.New("empty response from model")
	ErrMalformedAnswer   = errors.New("failed to parse AI response")
	ErrMissingDayList    = errors.New("invalid trip plan structure: missing days")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrModelUnavailable  = errors.New("model unavailable")
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}
