package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jasondotparse/movie-library-explorer/pkg/errors"
)

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_StructuredEnvelope(t *testing.T) {
	resp := fakeResponse(http.StatusBadRequest,
		`{"error":{"code":"VALIDATION_ERROR","message":"Title parameter is required"}}`)

	err := ParseResponseError(resp, "catalog-api")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Title parameter is required")
	assert.Contains(t, err.Error(), "catalog-api")
}

func TestParseResponseError_Unauthorized(t *testing.T) {
	resp := fakeResponse(http.StatusUnauthorized,
		`{"error":{"code":"UNAUTHORIZED","message":"invalid or expired token"}}`)

	err := ParseResponseError(resp, "gateway")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestParseResponseError_ServiceUnavailable(t *testing.T) {
	resp := fakeResponse(http.StatusServiceUnavailable,
		`{"error":{"code":"SERVICE_UNAVAILABLE","message":"submission queue is unavailable"}}`)

	err := ParseResponseError(resp, "catalog-api")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := fakeResponse(http.StatusBadGateway, "upstream timed out")

	err := ParseResponseError(resp, "catalog-api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream timed out")
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusBadRequest))
	assert.True(t, IsClientError(http.StatusNotFound))
	assert.False(t, IsClientError(http.StatusOK))
	assert.False(t, IsClientError(http.StatusInternalServerError))
}
