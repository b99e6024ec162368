package protocol

import (
	"errors"
	"strings"
)

// ErrorPrefix starts every failure response.
const ErrorPrefix = "ERROR:"

// ErrEmptyResponse is returned when the server closed without replying.
var ErrEmptyResponse = errors.New("empty response from server")

// ResponseError carries a failure reported by the server.
type ResponseError struct {
	Message string
}

func (e *ResponseError) Error() string {
	return "server error: " + e.Message
}

// FormatError builds a failure response.
func FormatError(msg string) string {
	return ErrorPrefix + " " + msg
}

// ParseResponse returns the artifact path carried by payload, or a
// *ResponseError for a failure response.
func ParseResponse(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrEmptyResponse
	}
	if msg, ok := strings.CutPrefix(payload, ErrorPrefix); ok {
		return "", &ResponseError{Message: strings.TrimSpace(msg)}
	}
	return payload, nil
}
