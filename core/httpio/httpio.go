package httpio

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const internalServerError = "Internal server error"

func Decode(r io.Reader, data any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(data)
}

func WriteJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func BadRequestResponse(w http.ResponseWriter, msg string) error {
	return WriteJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func InternalServerErrorResponse(w http.ResponseWriter, msg string) error {
	return WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": msg,
	})
}

func HealthCheckHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := map[string]string{
			"status": "ok",
		}
		if err := WriteJSON(w, http.StatusOK, msg); err != nil {
			log.Error("Writing response", "error", err)
		}
	}
}

// RequestBody returns the raw body of a proxy request, decoding it when
// API Gateway marked it as base64.
func RequestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	b, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return b, nil
}

// ProxyJSON builds an API Gateway proxy response with a JSON body.
func ProxyJSON(code int, v any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

// ProxyInternalServerError is the response returned for any handler fault.
// The body is fixed so no internal detail leaks to the caller.
func ProxyInternalServerError() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"error":"` + internalServerError + `"}`,
	}
}

// ToProxyRequest converts an HTTP request into the event API Gateway would
// deliver for it.
func ToProxyRequest(r *http.Request, requestID string) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, fmt.Errorf("read body: %w", err)
	}

	headers := make(map[string]string, len(r.Header))
	multi := make(map[string][]string, len(r.Header))
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
		multi[k] = v
	}

	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	return events.APIGatewayProxyRequest{
		Resource:                        r.URL.Path,
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         headers,
		MultiValueHeaders:               multi,
		QueryStringParameters:           query,
		MultiValueQueryStringParameters: r.URL.Query(),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  requestID,
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
		},
		Body: string(body),
	}, nil
}

// WriteProxyResponse copies a proxy response onto w.
func WriteProxyResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) error {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			return fmt.Errorf("decode body: %w", err)
		}
		body = b
	}

	code := resp.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	_, err := w.Write(body)
	return err
}
