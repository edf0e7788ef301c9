package zoneclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"thumper/pkg/model"
)

const bodyExcerptLimit = 512

// HTTPConfig configures an HTTPClient.
type HTTPConfig struct {
	Endpoint   string
	Zone       string
	AccessKey  string
	HTTPClient *http.Client
}

// HTTPClient is the production zoneclient.Client, talking to a bunny.net
// style storage-zone HTTP API. It shares one *http.Client (and thus one
// connection pool) across every caller, and is safe to call from many
// concurrent tasks.
type HTTPClient struct {
	base      string
	accessKey string
	http      *http.Client
}

// NewHTTPClient builds an HTTPClient. If cfg.HTTPClient is nil, a client
// with a bounded idle-connection pool is created.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 4 * time.Hour,
			Transport: &http.Transport{
				MaxIdleConns:        64,
				MaxIdleConnsPerHost: 64,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &HTTPClient{
		base:      fmt.Sprintf("https://%s/%s", strings.Trim(cfg.Endpoint, "/"), strings.Trim(cfg.Zone, "/")),
		accessKey: cfg.AccessKey,
		http:      httpClient,
	}
}

// urlFor builds the request URL for a zone-relative path, URL-encoding each
// path component independently.
func (c *HTTPClient) urlFor(path string, dir bool) string {
	path = strings.Trim(path, "/")
	var b strings.Builder
	b.WriteString(c.base)
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			b.WriteByte('/')
			b.WriteString(url.PathEscape(seg))
		}
	}
	if dir {
		b.WriteByte('/')
	}
	return b.String()
}

func (c *HTTPClient) newRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, &Error{Type: ErrorTypeInvalidInput, Message: "build request", Cause: err}
	}
	req.Header.Set("AccessKey", c.accessKey)
	return req, nil
}

type listedObject struct {
	ObjectName  string `json:"ObjectName"`
	IsDirectory bool   `json:"IsDirectory"`
	Length      int64  `json:"Length"`
	Checksum    string `json:"Checksum"`
}

// List returns the contents of a zone-relative directory.
func (c *HTTPClient) List(ctx context.Context, dir string) ([]Entry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.urlFor(dir, true), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Type: ErrorTypeNetworkError, Message: "list directory", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &Error{Type: ErrorTypeNotFound, Message: "directory not found", Status: resp.StatusCode}
	}
	if resp.StatusCode >= 400 {
		return nil, httpError("list directory", resp)
	}

	var listed []listedObject
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, &Error{Type: ErrorTypeDecode, Message: "decode directory listing", Cause: err}
	}

	entries := make([]Entry, 0, len(listed))
	for _, obj := range listed {
		e := Entry{Name: obj.ObjectName, IsDir: obj.IsDirectory, Length: uint64(obj.Length)}
		if !obj.IsDirectory && obj.Checksum != "" {
			digest, err := model.ParseDigest(obj.Checksum)
			if err != nil {
				return nil, &Error{Type: ErrorTypeDecode, Message: fmt.Sprintf("decode checksum for %q", obj.ObjectName), Cause: err}
			}
			e.Checksum = &digest
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Upload streams body to a zone-relative path.
func (c *HTTPClient) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) error {
	req, err := c.newRequest(ctx, http.MethodPut, c.urlFor(path, false), body)
	if err != nil {
		return err
	}
	if size >= 0 {
		req.ContentLength = size
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Type: ErrorTypeNetworkError, Message: "upload", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return httpError("upload", resp)
	}
	return nil
}

// Delete removes a zone-relative path; a 404 is treated as success.
func (c *HTTPClient) Delete(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.urlFor(path, false), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Type: ErrorTypeNetworkError, Message: "delete", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= 400 {
		return httpError("delete", resp)
	}
	return nil
}

// Read fetches a zone-relative path.
func (c *HTTPClient) Read(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.urlFor(path, false), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Type: ErrorTypeNetworkError, Message: "read", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &Error{Type: ErrorTypeNotFound, Message: "not found", Status: resp.StatusCode}
	}
	if resp.StatusCode >= 400 {
		return nil, httpError("read", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Type: ErrorTypeNetworkError, Message: "read response body", Cause: err}
	}
	return data, nil
}

// Write uploads raw bytes with a text/plain content type, used for the
// lockfile document.
func (c *HTTPClient) Write(ctx context.Context, path string, body []byte) error {
	return c.Upload(ctx, path, bytes.NewReader(body), int64(len(body)), "text/plain")
}

func httpError(op string, resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, bodyExcerptLimit))

	errType := ErrorTypeHTTP
	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusUnauthorized:
		errType = ErrorTypeAccessDenied
	}

	return &Error{
		Type:    errType,
		Message: op + " failed",
		Status:  resp.StatusCode,
		Body:    string(excerpt),
	}
}
