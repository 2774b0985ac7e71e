package deezer_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

func TestClassifyResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantNil  bool
		wantKind deezer.ErrorKind
		wantCode int
	}{
		{name: "plain success", status: 200, body: `{"id": 1, "title": "x"}`, wantNil: true},
		{name: "record mentioning error", status: 200, body: `{"id": 1, "title": "\"error\" in a title"}`, wantNil: true},
		{name: "envelope not found", status: 200, body: `{"error": {"type": "DataException", "message": "no data", "code": 800}}`, wantKind: deezer.KindNotFound, wantCode: 800},
		{name: "envelope quota", status: 200, body: `{"error": {"type": "Exception", "message": "Quota limit exceeded", "code": 4}}`, wantKind: deezer.KindRateLimited, wantCode: 4},
		{name: "envelope token", status: 200, body: `{"error": {"type": "OAuthException", "message": "Invalid OAuth access token.", "code": 300}}`, wantKind: deezer.KindUnauthorized, wantCode: 300},
		{name: "envelope permission", status: 200, body: `{"error": {"type": "OAuthException", "message": "Permission denied", "code": 200}}`, wantKind: deezer.KindUnauthorized, wantCode: 200},
		{name: "envelope busy", status: 200, body: `{"error": {"type": "Exception", "message": "Service busy", "code": 700}}`, wantKind: deezer.KindNetwork, wantCode: 700},
		{name: "envelope parameter", status: 200, body: `{"error": {"type": "ParameterException", "message": "Wrong parameter", "code": 500}}`, wantKind: deezer.KindInvalidRequest, wantCode: 500},
		{name: "http 429", status: 429, body: ``, wantKind: deezer.KindRateLimited},
		{name: "http 404", status: 404, body: `not found`, wantKind: deezer.KindNotFound},
		{name: "http 401", status: 401, body: ``, wantKind: deezer.KindUnauthorized},
		{name: "http 503", status: 503, body: `<html>`, wantKind: deezer.KindNetwork},
		{name: "http 400", status: 400, body: ``, wantKind: deezer.KindInvalidRequest},
		{name: "http 403 with quota envelope", status: 403, body: `{"error": {"code": 4, "message": "Quota"}}`, wantKind: deezer.KindRateLimited, wantCode: 4},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			apiErr := deezer.ClassifyResponse(http.MethodGet, "/track/1", testCase.status, []byte(testCase.body))
			if testCase.wantNil {
				assert.Nil(t, apiErr)

				return
			}

			require.NotNil(t, apiErr)
			assert.Equal(t, testCase.wantKind, apiErr.Kind)
			assert.Equal(t, testCase.wantCode, apiErr.Code)
			assert.Equal(t, testCase.status, apiErr.StatusCode)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestParseErrorEnvelope(t *testing.T) {
	t.Parallel()

	upstream := deezer.ParseErrorEnvelope([]byte(`{"error": {"type": "DataException", "message": "no data", "code": 800}}`))
	require.NotNil(t, upstream)
	assert.Equal(t, "DataException", upstream.Type)
	assert.Equal(t, "no data", upstream.Message)
	assert.Equal(t, 800, upstream.Code)

	assert.Nil(t, deezer.ParseErrorEnvelope([]byte(`{"data": []}`)))
	assert.Nil(t, deezer.ParseErrorEnvelope([]byte(`{"error": {}}`)))
	assert.Nil(t, deezer.ParseErrorEnvelope([]byte(`{"error": "`)))
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *deezer.APIError
		want string
	}{
		{
			name: "full",
			err:  &deezer.APIError{Kind: deezer.KindNotFound, Method: "GET", Path: "/track/1", Message: "no data", StatusCode: 200, Code: 800},
			want: "deezer not-found: GET /track/1: no data (status: 200, code: 800)",
		},
		{
			name: "status only",
			err:  &deezer.APIError{Kind: deezer.KindNetwork, Method: "GET", Path: "/chart/0", Message: "Service Unavailable", StatusCode: 503},
			want: "deezer network: GET /chart/0: Service Unavailable (status: 503)",
		},
		{
			name: "cause only",
			err:  &deezer.APIError{Kind: deezer.KindNetwork, Err: errors.New("connection refused")},
			want: "deezer network: connection refused",
		},
		{
			name: "empty",
			err:  &deezer.APIError{Kind: deezer.KindInvalidRequest},
			want: "deezer invalid-request: unknown error",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, testCase.err.Error())
		})
	}
}

func TestAPIError_Is(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	apiErr := &deezer.APIError{Kind: deezer.KindNetwork, Path: "/track/1", Err: cause}
	wrapped := fmt.Errorf("getting track: %w", apiErr)

	require.ErrorIs(t, wrapped, deezer.ErrNetwork)
	require.ErrorIs(t, wrapped, cause)
	assert.NotErrorIs(t, wrapped, deezer.ErrNotFound)

	kind, ok := deezer.KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, deezer.KindNetwork, kind)

	_, ok = deezer.KindOf(cause)
	assert.False(t, ok)
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	wrap := func(kind deezer.ErrorKind) error {
		return fmt.Errorf("call: %w", &deezer.APIError{Kind: kind})
	}

	assert.True(t, deezer.IsNotFound(wrap(deezer.KindNotFound)))
	assert.True(t, deezer.IsRateLimited(wrap(deezer.KindRateLimited)))
	assert.True(t, deezer.IsDecodeFailure(wrap(deezer.KindDecodeFailure)))
	assert.True(t, deezer.IsNetwork(wrap(deezer.KindNetwork)))
	assert.True(t, deezer.IsUnauthorized(wrap(deezer.KindUnauthorized)))

	assert.False(t, deezer.IsNotFound(wrap(deezer.KindNetwork)))
	assert.False(t, deezer.IsNotFound(nil))
	assert.False(t, deezer.IsNetwork(errors.New("plain")))
}

func TestErrorKind_Transient(t *testing.T) {
	t.Parallel()

	assert.True(t, deezer.KindNetwork.Transient())
	assert.True(t, deezer.KindRateLimited.Transient())
	assert.False(t, deezer.KindNotFound.Transient())
	assert.False(t, deezer.KindDecodeFailure.Transient())
	assert.False(t, deezer.KindUnauthorized.Transient())
	assert.False(t, deezer.KindInvalidRequest.Transient())
}

func TestNewDecodeError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("%w: track.title", deezer.ErrMissingField)
	apiErr := deezer.NewDecodeError(http.MethodGet, "/track/1", cause)

	assert.Equal(t, deezer.KindDecodeFailure, apiErr.Kind)
	require.ErrorIs(t, apiErr, deezer.ErrMissingField)
	require.ErrorIs(t, apiErr, deezer.ErrDecodeFailure)
	assert.True(t, deezer.IsDecodeFailure(apiErr))
}
