// Package netconn implements the HTTP and WebSocket transport behind
// (import (base network)): a shared client plus a registry of open
// WebSocket connections keyed by an opaque id, the same indirection
// package dbconn uses for SQL connection handles.
package netconn

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Response is a flattened HTTP response, easy to turn into a Scheme alist.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       string
}

var client = &http.Client{Timeout: 30 * time.Second}

// Request performs a generic HTTP request with an optional body and
// custom headers, setting a default User-Agent and Content-Type the way
// the Sentra-era HTTPRequest helper did.
func Request(method, url string, headers map[string]string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "cozenage/1.0")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if _, ok := headers["Content-Type"]; !ok && body != nil {
		req.Header.Set("Content-Type", "text/plain")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	respHeaders := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		respHeaders[key] = strings.Join(values, ", ")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    respHeaders,
		Body:       string(respBody),
	}, nil
}

// Get, Post, Put and Delete are thin Request wrappers for the common verbs
// package primitives' http-* procedures expose directly.
func Get(url string) (*Response, error) { return Request("GET", url, nil, nil) }
func Post(url string, body []byte, headers map[string]string) (*Response, error) {
	return Request("POST", url, headers, body)
}
func Put(url string, body []byte, headers map[string]string) (*Response, error) {
	return Request("PUT", url, headers, body)
}
func Delete(url string) (*Response, error) { return Request("DELETE", url, nil, nil) }
