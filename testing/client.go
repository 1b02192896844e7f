package e2etesting

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type HTTPClient struct {
	Client  *http.Client
	BaseURL string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	return &HTTPClient{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		BaseURL: baseURL,
	}
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) GetJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (r *Response) GetString() string {
	return string(r.Body)
}

// ErrorMessage returns the error field of the body, or "" for a non-error body.
func (r *Response) ErrorMessage() string {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(r.Body, &body)
	return body.Error
}

func (r *Response) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	require.Equal(t, expectedStatus, r.StatusCode, "unexpected status code. Response: %s", r.GetString())
}

func (r *Response) AssertSuccess(t *testing.T) {
	t.Helper()
	r.AssertStatus(t, http.StatusOK)
	require.JSONEq(t, `{"success":true}`, r.GetString())
}

func (r *Response) AssertError(t *testing.T, message string) {
	t.Helper()
	r.AssertStatus(t, http.StatusOK)
	require.Equal(t, message, r.ErrorMessage(), "response: %s", r.GetString())
}

func (r *Response) Cookie(name string) *http.Cookie {
	for _, cookie := range r.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func (c *HTTPClient) Get(path string, params url.Values) (*Response, error) {
	fullURL := c.BaseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	resp, err := c.Client.Get(fullURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Response: resp,
		Body:     body,
	}, nil
}

func (c *HTTPClient) MustGet(t *testing.T, path string, params url.Values) *Response {
	t.Helper()
	resp, err := c.Get(path, params)
	require.NoError(t, err)
	return resp
}

// MustGetJSON decodes a successful resource response into v.
func (c *HTTPClient) MustGetJSON(t *testing.T, path string, params url.Values, v any) {
	t.Helper()
	resp := c.MustGet(t, path, params)
	resp.AssertStatus(t, http.StatusOK)
	require.Empty(t, resp.ErrorMessage(), "%s failed", path)
	require.NoError(t, resp.GetJSON(v), "response: %s", resp.GetString())
}

// SessionCookie returns the session cookie the jar holds for the server.
func (c *HTTPClient) SessionCookie(name string) *http.Cookie {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil
	}
	for _, cookie := range c.Client.Jar.Cookies(u) {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
