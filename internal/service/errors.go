package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidArgument is returned, wrapped, when a call is rejected locally
// before any request is sent.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgument builds an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsInvalidArgument reports whether err was raised by local validation.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// TransportError wraps a network level failure (dial, TLS, timeout, cancellation).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError is a non-2xx response from the remote service.
type ServiceError struct {
	StatusCode int
	Status     string
	Message    string
	Body       []byte
	Header     http.Header
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service returned status %d", e.StatusCode)
}

// AsServiceError extracts a *ServiceError from err's chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// DecodeError means a 2xx response body could not be parsed into the result type.
type DecodeError struct {
	Err  error
	Body []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newServiceError(resp *http.Response, body []byte) *ServiceError {
	return &ServiceError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    errorMessage(body),
		Body:       body,
		Header:     resp.Header.Clone(),
	}
}

// maxPlainMessage caps, in runes, a non-JSON error body used as a message.
const maxPlainMessage = 200

// errorMessage pulls a human readable message out of an error body. Watson
// services are not consistent about the field name.
func errorMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "error_message", "description", "message", "msg"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}

	msg := strings.TrimSpace(string(body))
	if r := []rune(msg); len(r) > maxPlainMessage {
		msg = string(r[:maxPlainMessage])
	}
	return msg
}
