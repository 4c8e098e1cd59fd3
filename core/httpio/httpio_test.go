package httpio

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/snirkop89/ppe-lambdas/core/logger/logtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestBody(t *testing.T) {
	b, err := RequestBody(events.APIGatewayProxyRequest{Body: `{"a":1}`})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(b))

	enc := base64.StdEncoding.EncodeToString([]byte(`{"orderId":"x"}`))
	b, err = RequestBody(events.APIGatewayProxyRequest{Body: enc, IsBase64Encoded: true})
	require.NoError(t, err)
	assert.Equal(t, `{"orderId":"x"}`, string(b))

	_, err = RequestBody(events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true})
	assert.Error(t, err)
}

func TestProxyJSON(t *testing.T) {
	resp, err := ProxyJSON(http.StatusOK, map[string]string{"orderId": ""})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.JSONEq(t, `{"orderId":""}`, resp.Body)
}

func TestProxyInternalServerError(t *testing.T) {
	resp := ProxyInternalServerError()
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.JSONEq(t, `{"error":"Internal server error"}`, resp.Body)
}

func TestToProxyRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/orders?dryRun=true", strings.NewReader(`{"orderId":"order-1"}`))
	r.Header.Set("Content-Type", "application/json")

	req, err := ToProxyRequest(r, "req-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.HTTPMethod)
	assert.Equal(t, "/v1/orders", req.Path)
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
	assert.Equal(t, "true", req.QueryStringParameters["dryRun"])
	assert.Equal(t, "req-1", req.RequestContext.RequestID)
	assert.Equal(t, `{"orderId":"order-1"}`, req.Body)
	assert.False(t, req.IsBase64Encoded)
}

func TestWriteProxyResponse(t *testing.T) {
	w := httptest.NewRecorder()
	err := WriteProxyResponse(w, events.APIGatewayProxyResponse{
		StatusCode: http.StatusCreated,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"ok":true}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, w.Body.String())
}

func TestWriteProxyResponse_DefaultsAndBase64(t *testing.T) {
	w := httptest.NewRecorder()
	err := WriteProxyResponse(w, events.APIGatewayProxyResponse{
		Body:            base64.StdEncoding.EncodeToString([]byte("hello")),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestDecode(t *testing.T) {
	var m map[string]any
	require.NoError(t, Decode(strings.NewReader(`{"amount": 99.99}`), &m))
	assert.Equal(t, "99.99", m["amount"].(interface{ String() string }).String())

	m = map[string]any{"stale": true}
	require.NoError(t, Decode(strings.NewReader(`null`), &m))
	assert.Nil(t, m)
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestHealthCheckHandler(t *testing.T) {
	log, rec := logtest.New()
	w := httptest.NewRecorder()

	HealthCheckHandler(log)(w, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, 0, rec.Len())
}

func TestHealthCheckHandler_WriteError(t *testing.T) {
	log, rec := logtest.New()
	w := brokenWriter{httptest.NewRecorder()}

	HealthCheckHandler(log)(w, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))

	recs := rec.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "Writing response", recs[0].Message)
	assert.Contains(t, recs[0].Attrs["error"].(error).Error(), "connection reset")
}
