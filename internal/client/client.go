// Package client is a thin HTTP consumer of the campusdocs API, used by the
// CLI and by integration tooling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campusdocs/internal/model"
)

// DefaultTimeout bounds every request the client issues.
const DefaultTimeout = 8 * time.Second

// APIError is the decoded server error envelope.
type APIError struct {
	StatusCode int
	RequestID  string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to a running campusdocs server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken attaches a bearer token to every request. Required for the
// admin endpoints behind the auth gate.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New constructs a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do executes the request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses are returned as *APIError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Code != "" {
		apiErr.RequestID = payload.RequestID
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// Health checks readiness.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Signup bootstraps the admin account on the identity provider.
func (c *Client) Signup(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/admin/signup", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Vocabulary holds the department codes and semester count offered for
// selection.
type Vocabulary struct {
	Departments []string `json:"departments"`
	Semesters   int      `json:"semesters"`
}

// Departments fetches the configured selection vocabulary.
func (c *Client) Departments(ctx context.Context) (*Vocabulary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/departments", nil)
	if err != nil {
		return nil, err
	}
	var v Vocabulary
	if err := c.do(req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Catalog fetches the content catalog for one subject.
func (c *Client) Catalog(ctx context.Context, department, semester, subject string) (*model.ContentCatalog, error) {
	p := fmt.Sprintf("/content/%s/%s/%s",
		url.PathEscape(department), url.PathEscape(semester), url.PathEscape(subject))
	req, err := c.newRequest(ctx, http.MethodGet, p, nil)
	if err != nil {
		return nil, err
	}
	var cat model.ContentCatalog
	if err := c.do(req, &cat); err != nil {
		return nil, err
	}
	cat.Normalize()
	return &cat, nil
}

// Subjects lists the registered subjects for a department and semester.
func (c *Client) Subjects(ctx context.Context, department, semester string) (*model.SubjectList, error) {
	p := fmt.Sprintf("/subjects/%s/%s", url.PathEscape(department), url.PathEscape(semester))
	req, err := c.newRequest(ctx, http.MethodGet, p, nil)
	if err != nil {
		return nil, err
	}
	var list model.SubjectList
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AddSubject registers a subject. Idempotent on the server side.
func (c *Client) AddSubject(ctx context.Context, department, semester, subject string) error {
	body, err := json.Marshal(map[string]string{
		"department": department,
		"semester":   semester,
		"subject":    subject,
	})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/subjects", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// UploadInput describes one file upload.
type UploadInput struct {
	Department  string
	Semester    string
	Subject     string
	ContentType string
	Module      string
	Filename    string
	Reader      io.Reader
}

// Upload sends a file as a multipart form and returns the created record.
func (c *Client) Upload(ctx context.Context, in UploadInput) (*model.FileRecord, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"department":  in.Department,
		"semester":    in.Semester,
		"subject":     in.Subject,
		"contentType": in.ContentType,
	}
	if in.Module != "" {
		fields["module"] = in.Module
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}

	fw, err := mw.CreateFormFile("file", in.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, in.Reader); err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/admin/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var rec model.FileRecord
	if err := c.do(req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes one file from a subject's catalog.
func (c *Client) Delete(ctx context.Context, department, semester, subject, fileID string) error {
	p := fmt.Sprintf("/admin/delete/%s/%s/%s/%s",
		url.PathEscape(department), url.PathEscape(semester), url.PathEscape(subject),
		url.PathEscape(fileID))
	req, err := c.newRequest(ctx, http.MethodDelete, p, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DeleteByID removes a file located through the server-side file index.
func (c *Client) DeleteByID(ctx context.Context, fileID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/delete/"+url.PathEscape(fileID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DownloadURL asks the server for a signed download URL for a storage path.
func (c *Client) DownloadURL(ctx context.Context, path string) (string, error) {
	body, err := json.Marshal(map[string]string{"file_path": path})
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/download", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
