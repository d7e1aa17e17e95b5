package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers network failures, 5xx responses and anything
	// the SDK could not classify.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindInvalid means the model answered but the JSON does not match the
	// requested schema.
	KindInvalid
	// KindTruncated means generation stopped at MaxTokens before the JSON
	// object was closed.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "response truncated"
	default:
		return "provider unavailable"
	}
}

// Error is returned by every Provider in this package.
type Error struct {
	Kind Kind

	// RetryAfter is the server's requested back-off, if it sent one.
	RetryAfter time.Duration

	// Field names the first response field that failed schema validation,
	// dot-separated (e.g. "score" or "strengths.1"). Empty when the whole
	// document was unusable.
	Field string

	// Content is the raw model output for KindInvalid and KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := "llm: " + e.Kind.String()
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func invalid(raw json.RawMessage, field string, err error) *Error {
	return &Error{Kind: KindInvalid, Field: field, Content: raw, Err: err}
}

// fromStatus maps an SDK error carrying an HTTP status to an *Error.
// header may be nil.
func fromStatus(status int, header http.Header, err error) *Error {
	if status == http.StatusTooManyRequests {
		return &Error{Kind: KindRateLimited, RetryAfter: retryAfter(header), Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
