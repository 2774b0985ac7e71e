package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fivetwenty-io/deezer/internal/ratelimit"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

type callStateKey struct{}

// callState follows one call across its attempts. Attempts of a call run
// sequentially, so it needs no locking.
type callState struct {
	requestID string
	method    string
	path      string
	attempts  int
	resetAt   time.Time
}

func withCallState(ctx context.Context, state *callState) context.Context {
	return context.WithValue(ctx, callStateKey{}, state)
}

func callStateFrom(ctx context.Context) *callState {
	state, _ := ctx.Value(callStateKey{}).(*callState)

	return state
}

// attemptGate wraps the network transport and runs once per attempt: it
// takes a rate limit slot, bounds the attempt with its own timeout, buffers
// the body, and feeds rate-limited answers back into the limiter.
type attemptGate struct {
	base      http.RoundTripper
	limiter   ratelimit.Limiter
	window    time.Duration
	timeout   time.Duration
	now       func() time.Time
	onAttempt func(deezer.AttemptEvent)
	logger    deezer.Logger
	debug     bool
}

func (g *attemptGate) RoundTrip(req *http.Request) (*http.Response, error) {
	state := callStateFrom(req.Context())
	if state == nil {
		state = &callState{method: req.Method, path: req.URL.Path}
	}

	state.attempts++

	if g.limiter != nil {
		err := g.limiter.Acquire(req.Context())
		if err != nil {
			return nil, fmt.Errorf("waiting for rate limit slot: %w", err)
		}
	}

	start := g.now()

	resp, envelope, err := g.send(req)

	event := deezer.AttemptEvent{
		RequestID: state.requestID,
		Method:    state.method,
		Path:      state.path,
		Attempt:   state.attempts,
		Latency:   g.now().Sub(start),
		Err:       err,
		At:        start,
	}

	if err != nil {
		event.Outcome = deezer.OutcomeNetworkErr
		g.emit(event)

		return nil, err
	}

	event.StatusCode = resp.StatusCode
	event.Outcome = outcomeFor(resp.StatusCode, envelope)

	if resp.StatusCode == http.StatusTooManyRequests {
		state.resetAt = resetHint(resp.Header, g.now(), g.window)
		if g.limiter != nil {
			g.limiter.Penalize(state.resetAt)
		}
	}

	g.emit(event)

	return resp, nil
}

// send performs one bounded attempt and returns a response whose body is
// fully buffered, so the attempt context can be released. envelope reports a
// Deezer error envelope in the body.
func (g *attemptGate) send(req *http.Request) (*http.Response, bool, error) {
	ctx := req.Context()

	if g.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		return nil, false, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if err != nil {
		return nil, false, fmt.Errorf("reading response body: %w", err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))

	return resp, rewriteEnvelopeStatus(resp, body), nil
}

func (g *attemptGate) emit(event deezer.AttemptEvent) {
	if g.onAttempt != nil {
		g.onAttempt(event)
	}

	if !g.debug || g.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"request_id":  event.RequestID,
		"attempt":     event.Attempt,
		"status_code": event.StatusCode,
		"outcome":     string(event.Outcome),
		"latency":     event.Latency.String(),
	}

	if event.Err != nil {
		fields["error"] = event.Err.Error()
	}

	g.logger.Debug("HTTP Attempt", fields)
}

// rewriteEnvelopeStatus maps the transient Deezer error codes that arrive in
// a 200 body onto the HTTP statuses the retry policy understands. It reports
// whether the body held an error envelope.
func rewriteEnvelopeStatus(resp *http.Response, body []byte) bool {
	upstream := deezer.ParseErrorEnvelope(body)
	if upstream == nil {
		return false
	}

	if resp.StatusCode != http.StatusOK {
		return true
	}

	switch upstream.Code {
	case deezer.ErrorCodeQuota:
		resp.StatusCode = http.StatusTooManyRequests
	case deezer.ErrorCodeServiceBusy:
		resp.StatusCode = http.StatusServiceUnavailable
	default:
		return true
	}

	resp.Status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	return true
}

func outcomeFor(status int, envelope bool) deezer.AttemptOutcome {
	switch {
	case status == http.StatusTooManyRequests:
		return deezer.OutcomeRateLimited
	case status >= http.StatusInternalServerError:
		return deezer.OutcomeServerError
	case status >= http.StatusBadRequest, envelope:
		return deezer.OutcomeClientError
	default:
		return deezer.OutcomeSuccess
	}
}

// maxResetDelta separates the two X-RateLimit-Reset styles: smaller values
// are seconds from now, larger ones unix timestamps.
const maxResetDelta = 24 * time.Hour

// resetHint reads when the upstream quota refills: Retry-After (seconds or
// HTTP date), then X-RateLimit-Reset (delta or unix seconds), else one window
// from now.
func resetHint(header http.Header, now time.Time, window time.Duration) time.Time {
	if value := header.Get("Retry-After"); value != "" {
		seconds, err := strconv.Atoi(value)
		if err == nil && seconds >= 0 {
			return now.Add(time.Duration(seconds) * time.Second)
		}

		at, err := http.ParseTime(value)
		if err == nil {
			return at
		}
	}

	if value := header.Get("X-RateLimit-Reset"); value != "" {
		seconds, err := strconv.ParseInt(value, 10, 64)
		if err == nil && seconds >= 0 {
			if seconds < int64(maxResetDelta/time.Second) {
				return now.Add(time.Duration(seconds) * time.Second)
			}

			return time.Unix(seconds, 0)
		}
	}

	return now.Add(window)
}
