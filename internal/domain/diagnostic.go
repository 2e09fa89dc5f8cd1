package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a catalog fetch failed.
type FailureKind string

const (
	FailureTimeout             FailureKind = "timeout"
	FailureHTTPStatus          FailureKind = "http_status"
	FailureEmptyResponse       FailureKind = "empty_response"
	FailureMalformedBody       FailureKind = "malformed_body"
	FailureUnexpectedStructure FailureKind = "unexpected_structure"
	FailureUnknown             FailureKind = "unknown"
)

// FetchError is the failed outcome of a catalog query.
type FetchError struct {
	Kind FailureKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err, or FailureUnknown.
func KindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return FailureUnknown
}

// Diagnostic is a user-facing message about a failed fetch.
type Diagnostic struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// DiagnosticFor turns a fetch error into the message shown to the user.
func DiagnosticFor(err error) Diagnostic {
	kind := KindOf(err)
	cause := err
	var fe *FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		cause = fe.Err
	}

	var msg string
	switch kind {
	case FailureTimeout:
		msg = "Request timed out while contacting the earthquake API."
	case FailureHTTPStatus:
		msg = fmt.Sprintf("HTTP error occurred: %v", cause)
	case FailureEmptyResponse:
		msg = "Empty response received from the earthquake API."
	case FailureMalformedBody:
		msg = "Failed to decode API response as JSON."
	case FailureUnexpectedStructure:
		msg = "Unexpected API response structure."
	default:
		msg = fmt.Sprintf("Unexpected error occurred: %v", cause)
	}
	return Diagnostic{Kind: kind, Message: msg}
}

// DiagnosticSink receives fetch diagnostics for display.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// DiagnosticFunc adapts a function to DiagnosticSink.
type DiagnosticFunc func(d Diagnostic)

func (f DiagnosticFunc) Report(d Diagnostic) { f(d) }

// DiagnosticLog collects diagnostics for one refresh cycle. It is not safe
// for concurrent use.
type DiagnosticLog struct {
	entries []Diagnostic
}

func (l *DiagnosticLog) Report(d Diagnostic) {
	l.entries = append(l.entries, d)
}

// Entries returns the collected diagnostics, never nil.
func (l *DiagnosticLog) Entries() []Diagnostic {
	if l.entries == nil {
		return []Diagnostic{}
	}
	return l.entries
}
