// Package aurora is the HTTP client of the Aurora REST backend.  Every
// endpoint answers with the {code, message, result} envelope; the client
// unwraps it and turns failures into *APIError values carrying the message
// the backend meant for the user.
package aurora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CodeSuccess is the envelope code of a successful backend call.
const CodeSuccess = 1000

// maxErrorBody bounds how much of an error body is read for message
// extraction.
const maxErrorBody = 64 << 10

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// Client talks to one backend base URL.  It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL (e.g. https://api.aurora.example/api/v1)
// whose requests time out after timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient is like New but uses hc for transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// call describes one backend request.
type call struct {
	method  string
	path    string
	query   url.Values
	body    any
	token   string
	header  http.Header
	cookies []*http.Cookie
}

// reply carries the parts of the response that some callers need besides
// the decoded result.
type reply struct {
	status  int
	cookies []*http.Cookie
}

// do performs the call and decodes the envelope's result into out (which
// may be nil).
func (c *Client) do(ctx context.Context, cl call, out any) (reply, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return reply{}, fmt.Errorf("encode %s %s: %w", cl.method, cl.path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return reply{}, fmt.Errorf("build %s %s: %w", cl.method, cl.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	for k, vals := range cl.header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return reply{}, fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()
	rep := reply{status: resp.StatusCode, cookies: resp.Cookies()}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return rep, newAPIError(resp.StatusCode, raw)
	}
	if resp.StatusCode == http.StatusNoContent {
		return rep, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return rep, fmt.Errorf("read %s %s: %w", cl.method, cl.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return rep, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return rep, fmt.Errorf("decode envelope of %s %s: %w", cl.method, cl.path, err)
	}
	if env.Code != 0 && env.Code != CodeSuccess {
		return rep, newAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(env.Result) == 0 || string(env.Result) == "null" {
		return rep, nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return rep, fmt.Errorf("decode result of %s %s: %w", cl.method, cl.path, err)
	}
	return rep, nil
}

// pageQuery adds the common pagination parameters to q.
func pageQuery(q url.Values, page, size int, sort string) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	if sort != "" {
		q.Set("sort", sort)
	}
	return q
}

// setIf sets key only when value is not empty.
func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func escape(id string) string { return url.PathEscape(id) }
