package source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// HTTPClient is the minimal surface adapters need, satisfied by
// *http.Client; tests can substitute a fake.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHTTPClient sets a generous timeout for slow import/export endpoints.
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Minute}
}

// HTTPResponse is a fetched body plus its declared content type.
type HTTPResponse struct {
	Body        []byte
	ContentType string
	JSON        bool
}

// FetchHTTP validates the URL, issues the request with the given method and
// headers, and classifies the response as JSON or plain text.
func FetchHTTP(ctx context.Context, client HTTPClient, rawURL, method string, headers map[string]string, body []byte) (HTTPResponse, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return HTTPResponse{}, ierrors.HttpInvalidUrl
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return HTTPResponse{}, ierrors.HttpRequestFailedErr{Msg: err.Error()}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return HTTPResponse{}, ierrors.HttpRequestFailedErr{Msg: err.Error()}
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return HTTPResponse{}, ierrors.HttpRequestFailedErr{Msg: err.Error()}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return HTTPResponse{}, ierrors.HttpRequestFailedErr{Msg: "received " + res.Status}
	}

	contentType := res.Header.Get("Content-Type")
	isJSON := strings.HasPrefix(contentType, "application/json")
	if !isJSON && contentType != "" && !strings.HasPrefix(contentType, "text") {
		return HTTPResponse{}, ierrors.HttpRequestFailedErr{Msg: "unsupported content-type: " + contentType}
	}

	return HTTPResponse{Body: respBody, ContentType: contentType, JSON: isJSON}, nil
}
