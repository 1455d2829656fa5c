package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/truemediaorg/postanalyzer/metrics"
)

const (
	serverErrorMessage  = "Server error"
	networkErrorMessage = "Network error. Please check your connection."
	unknownErrorMessage = "Unknown error occurred"
)

// Error is the only failure shape that leaves this package. It carries a
// message fit for showing to the user and nothing else.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// failure is a raw, not yet normalized outcome of a call.
type failure interface {
	error
	kind() string
}

// The service answered, with a non-2xx status.
type serverFailure struct {
	StatusCode int
	Body       []byte
}

// No response arrived: connection refused, DNS, timeout, cancellation.
type networkFailure struct {
	Err error
}

// Anything else: request construction, undecodable success bodies.
type unknownFailure struct {
	Err error
}

func (f *serverFailure) Error() string {
	return fmt.Sprintf("status %d: %s", f.StatusCode, strings.TrimSpace(string(f.Body)))
}

func (f *serverFailure) kind() string { return metrics.OutcomeServerError }

func (f *networkFailure) Error() string { return f.Err.Error() }

func (f *networkFailure) Unwrap() error { return f.Err }

func (f *networkFailure) kind() string { return metrics.OutcomeNetworkError }

func (f *unknownFailure) Error() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

func (f *unknownFailure) Unwrap() error { return f.Err }

func (f *unknownFailure) kind() string { return metrics.OutcomeUnknownError }

// normalize collapses a raw failure into a message. Order matters: a server
// payload wins over everything, then the no-response case, then whatever
// text the failure carries.
func normalize(f failure) *Error {
	switch f := f.(type) {
	case *serverFailure:
		return &Error{Message: serverMessage(f.Body)}
	case *networkFailure:
		return &Error{Message: networkErrorMessage}
	default:
		if msg := f.Error(); msg != "" {
			return &Error{Message: msg}
		}
		return &Error{Message: unknownErrorMessage}
	}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  json.RawMessage `json:"error"`
}

// serverMessage reads "detail", then "error", then gives up with "Server error".
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return serverErrorMessage
	}
	if msg := rawMessage(eb.Detail); msg != "" {
		return msg
	}
	if msg := rawMessage(eb.Error); msg != "" {
		return msg
	}
	return serverErrorMessage
}

// rawMessage accepts a plain string or a list of {"msg": ...} objects, which
// is how request validation errors come back.
func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
