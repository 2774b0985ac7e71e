package deezer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies failures surfaced by the client.
type ErrorKind string

const (
	// KindNetwork covers connection failures, timeouts and upstream 5xx responses.
	KindNetwork ErrorKind = "network"
	// KindRateLimited is reported when the upstream quota is exhausted.
	KindRateLimited ErrorKind = "rate-limited"
	// KindNotFound is reported for unknown resources.
	KindNotFound ErrorKind = "not-found"
	// KindDecodeFailure indicates a payload that could not be mapped to a record.
	KindDecodeFailure ErrorKind = "decode-failure"
	// KindUnauthorized covers missing, invalid or insufficient credentials.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindInvalidRequest covers every other application error.
	KindInvalidRequest ErrorKind = "invalid-request"
)

// Transient reports whether errors of this kind may succeed when retried.
func (k ErrorKind) Transient() bool {
	return k == KindNetwork || k == KindRateLimited
}

// Deezer error envelope codes.
const (
	ErrorCodeQuota                       = 4
	ErrorCodeItemsLimitExceeded          = 100
	ErrorCodePermission                  = 200
	ErrorCodeTokenInvalid                = 300
	ErrorCodeParameter                   = 500
	ErrorCodeParameterMissing            = 501
	ErrorCodeQueryInvalid                = 600
	ErrorCodeServiceBusy                 = 700
	ErrorCodeDataNotFound                = 800
	ErrorCodeIndividualAccountNotAllowed = 901
)

// APIError is the single error type returned for failed API calls.
type APIError struct {
	Kind       ErrorKind `json:"kind"                  yaml:"kind"`
	StatusCode int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Code       int       `json:"code,omitempty"        yaml:"code,omitempty"`
	Type       string    `json:"type,omitempty"        yaml:"type,omitempty"`
	Message    string    `json:"message,omitempty"     yaml:"message,omitempty"`
	Method     string    `json:"method,omitempty"      yaml:"method,omitempty"`
	Path       string    `json:"path,omitempty"        yaml:"path,omitempty"`
	RequestID  string    `json:"request_id,omitempty"  yaml:"request_id,omitempty"`
	// ResetAt is the upstream hint for when the quota refills. Only set for KindRateLimited.
	ResetAt time.Time `json:"reset_at,omitzero" yaml:"reset_at,omitempty"`
	Err     error     `json:"-"                 yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if msg == "" {
		msg = "unknown error"
	}

	location := e.Path
	if e.Method != "" {
		location = e.Method + " " + e.Path
	}

	if location == "" {
		return fmt.Sprintf("deezer %s: %s", e.Kind, msg)
	}

	detail := ""

	switch {
	case e.StatusCode != 0 && e.Code != 0:
		detail = fmt.Sprintf(" (status: %d, code: %d)", e.StatusCode, e.Code)
	case e.StatusCode != 0:
		detail = fmt.Sprintf(" (status: %d)", e.StatusCode)
	case e.Code != 0:
		detail = fmt.Sprintf(" (code: %d)", e.Code)
	}

	return fmt.Sprintf("deezer %s: %s: %s%s", e.Kind, location, msg, detail)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.StatusCode == 0 && t.Code == 0 && t.Path == ""
}

// Sentinel errors for errors.Is comparisons.
var (
	ErrNetwork        = &APIError{Kind: KindNetwork}
	ErrRateLimited    = &APIError{Kind: KindRateLimited}
	ErrNotFound       = &APIError{Kind: KindNotFound}
	ErrDecodeFailure  = &APIError{Kind: KindDecodeFailure}
	ErrUnauthorized   = &APIError{Kind: KindUnauthorized}
	ErrInvalidRequest = &APIError{Kind: KindInvalidRequest}
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrBaseURLRequired       = errors.New("base URL is required")
	ErrInvalidBaseURL        = errors.New("invalid base URL")
	ErrInvalidQuota          = errors.New("rate limit quota must be positive")
	ErrInvalidWindow         = errors.New("rate limit window must be positive")
	ErrCircuitBreakerOpen    = errors.New("circuit breaker is open")
	ErrNoMoreItems           = errors.New("no more items")
	ErrEmptySearch           = errors.New("search requires a query or at least one filter")
	ErrInvalidDurationFilter = errors.New("minimum duration exceeds maximum duration")
	ErrInvalidBPMFilter      = errors.New("minimum BPM exceeds maximum BPM")
	ErrMissingField          = errors.New("missing required field")
	ErrInvalidID             = errors.New("invalid id")
)

// UpstreamError is the body of a Deezer error envelope.
type UpstreamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ErrorEnvelope is the shape Deezer uses to report errors, often with HTTP 200.
type ErrorEnvelope struct {
	Error *UpstreamError `json:"error,omitempty"`
}

var errorKey = []byte(`"error"`)

// ParseErrorEnvelope extracts a Deezer error envelope from a body.
// It returns nil when the body is not an error envelope.
func ParseErrorEnvelope(data []byte) *UpstreamError {
	if !bytes.Contains(data, errorKey) {
		return nil
	}

	var envelope ErrorEnvelope

	err := json.Unmarshal(data, &envelope)
	if err != nil || envelope.Error == nil {
		return nil
	}

	if envelope.Error.Code == 0 && envelope.Error.Type == "" && envelope.Error.Message == "" {
		return nil
	}

	return envelope.Error
}

// KindForStatus maps a non-2xx HTTP status to an error kind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusNotFound || status == http.StatusGone:
		return KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status >= http.StatusInternalServerError:
		return KindNetwork
	default:
		return KindInvalidRequest
	}
}

// KindForCode maps a Deezer envelope code to an error kind.
func KindForCode(code int) ErrorKind {
	switch code {
	case ErrorCodeQuota:
		return KindRateLimited
	case ErrorCodeServiceBusy:
		return KindNetwork
	case ErrorCodeDataNotFound:
		return KindNotFound
	case ErrorCodePermission, ErrorCodeTokenInvalid:
		return KindUnauthorized
	default:
		return KindInvalidRequest
	}
}

// ClassifyResponse turns a raw upstream response into an APIError.
// It returns nil for successful responses.
func ClassifyResponse(method, path string, status int, body []byte) *APIError {
	upstream := ParseErrorEnvelope(body)

	success := status >= http.StatusOK && status < http.StatusMultipleChoices
	if success && upstream == nil {
		return nil
	}

	apiErr := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
	}

	if upstream != nil {
		apiErr.Code = upstream.Code
		apiErr.Type = upstream.Type
		apiErr.Message = upstream.Message
	}

	switch {
	case !success && status != http.StatusTooManyRequests && upstream != nil && upstream.Code == ErrorCodeQuota:
		apiErr.Kind = KindRateLimited
	case !success:
		apiErr.Kind = KindForStatus(status)
	default:
		apiErr.Kind = KindForCode(upstream.Code)
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}

// NewDecodeError wraps a mapping failure.
func NewDecodeError(method, path string, err error) *APIError {
	return &APIError{
		Kind:    KindDecodeFailure,
		Method:  method,
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}

// KindOf returns the kind of the first APIError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}

	return "", false
}

func isKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)

	return ok && k == kind
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

// IsRateLimited checks if the error reports an exhausted quota.
func IsRateLimited(err error) bool {
	return isKind(err, KindRateLimited)
}

// IsDecodeFailure checks if the error reports upstream schema drift.
func IsDecodeFailure(err error) bool {
	return isKind(err, KindDecodeFailure)
}

// IsNetwork checks if the error is a transport failure.
func IsNetwork(err error) bool {
	return isKind(err, KindNetwork)
}

// IsUnauthorized checks if the error is an authentication failure.
func IsUnauthorized(err error) bool {
	return isKind(err, KindUnauthorized)
}
