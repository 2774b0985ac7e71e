// Package http is the transport used by the Deezer client: it signs requests,
// spends the rate budget, retries transient failures and classifies upstream
// errors into *deezer.APIError values.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/deezer/internal/auth"
	"github.com/fivetwenty-io/deezer/internal/constants"
	"github.com/fivetwenty-io/deezer/internal/ratelimit"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// Static errors for err113 compliance.
var (
	ErrRequestRequired = errors.New("request is required")
)

// Client is the HTTP client used to talk to the Deezer API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	gate         *attemptGate

	userAgent    string
	apiKey       string
	apiKeyHeader string
	tokenInQuery bool

	interceptors *deezer.InterceptorChain
	logger       deezer.Logger
	debug        bool
}

// Request is a single API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
}

// Response is the buffered result of the final attempt.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Attempts   int
	RequestID  string
}

// Option configures the HTTP client.
type Option func(*Client)

// WithHTTPClient sets the underlying transport source. Only its Transport is used.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil && httpClient.Transport != nil {
			c.gate.base = httpClient.Transport
		}
	}
}

// WithRetryConfig sets retry configuration.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = retryWaitMin
		c.httpClient.RetryWaitMax = retryWaitMax
	}
}

// WithTimeout bounds every attempt. Waiting for a rate limit slot is not
// counted against it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.gate.timeout = timeout
	}
}

// WithLimiter makes every attempt spend a slot of limiter. window is the
// penalty applied when a rate-limited response carries no reset hint.
func WithLimiter(limiter ratelimit.Limiter, window time.Duration) Option {
	return func(c *Client) {
		c.gate.limiter = limiter
		c.gate.window = window
	}
}

// WithLogger sets the logger.
func WithLogger(logger deezer.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.gate.logger = logger
	}
}

// WithDebug enables request, attempt and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
		c.gate.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithAPIKey sends key under header on every request.
func WithAPIKey(header, key string) Option {
	return func(c *Client) {
		if header != "" {
			c.apiKeyHeader = header
		}

		c.apiKey = key
	}
}

// WithTokenInQuery sends the access token as the access_token query
// parameter instead of an Authorization header.
func WithTokenInQuery(enabled bool) Option {
	return func(c *Client) {
		c.tokenInQuery = enabled
	}
}

// WithInterceptors runs chain around every call.
func WithInterceptors(chain *deezer.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithOnAttempt registers a callback for every attempt event. It must not block.
func WithOnAttempt(fn func(deezer.AttemptEvent)) Option {
	return func(c *Client) {
		c.gate.onAttempt = fn
	}
}

// WithClock replaces the time source used for latency and reset hints.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.gate.now = now
		}
	}
}

// NewClient creates a new HTTP client. tokenManager may be nil for anonymous access.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	gate := &attemptGate{
		base:    cleanTransport(),
		timeout: constants.DefaultHTTPTimeout,
		window:  constants.DefaultRateLimitWindow,
		now:     time.Now,
	}

	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		gate:         gate,
		userAgent:    constants.DefaultUserAgent,
		apiKeyHeader: constants.DefaultAPIKeyHeader,
	}

	for _, opt := range opts {
		opt(client)
	}

	// The gate owns the per-attempt timeout; the client-wide one would also
	// count time spent waiting for a rate limit slot.
	retryClient.HTTPClient = &http.Client{Transport: gate}
	retryClient.CheckRetry = checkRetry
	retryClient.Backoff = client.backoff

	return client
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Do performs an HTTP request. Failed calls return a *deezer.APIError; when
// the upstream answered, the response is returned alongside the error.
//
//nolint:funlen,cyclop // One linear pipeline: interceptors, signing, dispatch, classification.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrRequestRequired
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	requestID := uuid.NewString()
	intercepted := &deezer.Request{
		Method:   method,
		Path:     req.Path,
		Query:    cloneValues(req.Query),
		Headers:  make(http.Header),
		Metadata: map[string]interface{}{"request_id": requestID},
	}

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, interceptorError(err, method, req.Path, requestID)
	}

	query := cloneValues(intercepted.Query)

	token, err := c.token(ctx)
	if err != nil {
		return nil, &deezer.APIError{
			Kind:      deezer.KindUnauthorized,
			Method:    method,
			Path:      req.Path,
			RequestID: requestID,
			Message:   err.Error(),
			Err:       err,
		}
	}

	if token != "" && c.tokenInQuery {
		query.Set(constants.AccessTokenParam, token)
	}

	fullURL := c.baseURL + req.Path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	state := &callState{requestID: requestID, method: method, path: req.Path}

	httpReq, err := retryablehttp.NewRequestWithContext(withCallState(ctx, state), method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = intercepted.Headers
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(constants.RequestIDHeader, requestID)

	if token != "" && !c.tokenInQuery {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if c.apiKey != "" {
		httpReq.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"request_id": requestID,
			"method":     method,
			"url":        redactURL(fullURL),
		})
	}

	start := c.gate.now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		apiErr := &deezer.APIError{
			Kind:      deezer.KindNetwork,
			Method:    method,
			Path:      req.Path,
			RequestID: requestID,
			Message:   err.Error(),
			Err:       err,
		}

		_ = c.finish(ctx, intercepted, &deezer.Response{Attempts: state.attempts, Error: apiErr})

		return nil, apiErr
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &deezer.APIError{
			Kind:      deezer.KindNetwork,
			Method:    method,
			Path:      req.Path,
			RequestID: requestID,
			Message:   "reading response body: " + err.Error(),
			Err:       err,
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
		Attempts:   state.attempts,
		RequestID:  requestID,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"request_id":  requestID,
			"status_code": resp.StatusCode,
			"attempts":    resp.Attempts,
			"duration":    c.gate.now().Sub(start).String(),
		})
	}

	var callErr error

	if apiErr := deezer.ClassifyResponse(method, req.Path, resp.StatusCode, body); apiErr != nil {
		apiErr.RequestID = requestID
		if apiErr.Kind == deezer.KindRateLimited {
			apiErr.ResetAt = state.resetAt
		}

		callErr = apiErr
	}

	err = c.finish(ctx, intercepted, &deezer.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Attempts:   resp.Attempts,
		Error:      callErr,
	})
	if err != nil && callErr == nil {
		callErr = err
	}

	return resp, callErr
}

func (c *Client) finish(ctx context.Context, req *deezer.Request, resp *deezer.Response) error {
	return c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
}

// interceptorError types a request interceptor failure. An open breaker and
// an expired context are transient; anything else rejects the request.
func interceptorError(err error, method, path, requestID string) *deezer.APIError {
	kind := deezer.KindInvalidRequest
	if errors.Is(err, deezer.ErrCircuitBreakerOpen) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = deezer.KindNetwork
	}

	return &deezer.APIError{
		Kind:      kind,
		Method:    method,
		Path:      path,
		RequestID: requestID,
		Message:   err.Error(),
		Err:       err,
	}
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", nil
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting access token: %w", err)
	}

	return token, nil
}

// backoff leaves rate-limited retries to the limiter, which already blocks
// until the upstream reset hint.
func (c *Client) backoff(minWait, maxWait time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests && c.gate.limiter != nil {
		return 0
	}

	return retryablehttp.DefaultBackoff(minWait, maxWait, attemptNum, resp)
}

// checkRetry retries idempotent requests on transport errors, 429 and 5xx.
// Other statuses are final.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	state := callStateFrom(ctx)
	if state != nil && !idempotent(state.method) {
		return false, err
	}

	if err != nil {
		return true, nil
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, nil
	case resp.StatusCode == http.StatusNotImplemented:
		return false, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return true, nil
	default:
		return false, nil
	}
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func cloneValues(values url.Values) url.Values {
	if values == nil {
		return url.Values{}
	}

	out := maps.Clone(values)
	for key, list := range out {
		out[key] = append([]string(nil), list...)
	}

	return out
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	query := u.Query()
	if query.Has(constants.AccessTokenParam) {
		query.Set(constants.AccessTokenParam, constants.MaskedSecret)
		u.RawQuery = query.Encode()
	}

	return u.String()
}

func cleanTransport() http.RoundTripper {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultTransport
	}

	return transport.Clone()
}
