package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gridstash/gridstash/internal/models"
)

// TokenSource supplies the current bearer token. It is read at call
// time for every authorized request, never cached, so a logout
// immediately starves subsequent calls of the credential.
type TokenSource interface {
	Token() string
}

// Gateway is the contract for the storage backend. Each operation is a
// single request/response exchange: no retries, no response caching.
type Gateway interface {
	// Authenticate exchanges credentials for a bearer token.
	Authenticate(ctx context.Context, email, password string) (string, error)

	// Register creates a new account.
	Register(ctx context.Context, name, email, password string) error

	// ListFiles returns the caller's full file list.
	ListFiles(ctx context.Context) ([]models.FileRecord, error)

	// UploadFile sends one file as a multipart body (field "file").
	UploadFile(ctx context.Context, name string, content io.Reader) error

	// ReadFilePage fetches one page of parsed rows for a file.
	ReadFilePage(ctx context.Context, fileID string, page, pageSize int) (*models.FilePage, error)

	// DeleteFile removes a file.
	DeleteFile(ctx context.Context, fileID string) error
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	tokens     TokenSource
}

// NewClient creates a gateway client. httpClient is injected so the
// CLI can use the configured transport while the browser build uses
// the platform fetch client.
func NewClient(baseURL string, tokens TokenSource, httpClient *nethttp.Client) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server base URL is empty")
	}
	if httpClient == nil {
		httpClient = nethttp.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
	}, nil
}

// detailResponse is the backend's error body shape.
type detailResponse struct {
	Detail string `json:"detail"`
}

// do performs a request, attaching the bearer token when authorized is
// set. Transport-level failures come back as connection errors.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, authorized bool) (*nethttp.Response, error) {
	req, err := nethttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if authorized && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, connectionError(err)
	}
	return resp, nil
}

// decodeDetail drains a non-2xx response body and extracts the
// backend's detail message, if any.
func decodeDetail(resp *nethttp.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ""
	}
	var d detailResponse
	if err := json.Unmarshal(body, &d); err != nil {
		return ""
	}
	return d.Detail
}

// Authenticate exchanges credentials for a bearer token via POST /auth/login.
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal login request: %w", err)
	}

	resp, err := c.do(ctx, nethttp.MethodPost, "/auth/login", bytes.NewReader(payload), "application/json", false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return "", statusError(resp.StatusCode, decodeDetail(resp), "Login failed")
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	return result.AccessToken, nil
}

// Register creates a new account via POST /auth/register.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal register request: %w", err)
	}

	resp, err := c.do(ctx, nethttp.MethodPost, "/auth/register", bytes.NewReader(payload), "application/json", false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK && resp.StatusCode != nethttp.StatusCreated {
		return statusError(resp.StatusCode, decodeDetail(resp), "Registration failed")
	}
	return nil
}

// ListFiles fetches the full file list via GET /files/view_files.
func (c *Client) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	resp, err := c.do(ctx, nethttp.MethodGet, "/files/view_files", nil, "", true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, statusError(resp.StatusCode, decodeDetail(resp), "Failed to fetch files")
	}

	var files []models.FileRecord
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("failed to decode file list: %w", err)
	}
	return files, nil
}

// UploadFile sends a file via POST /files/upload_file as a multipart
// body with a single "file" field. The body is streamed through a pipe
// so large files never sit fully in memory.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader) error {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	resp, err := c.do(ctx, nethttp.MethodPost, "/files/upload_file", pr, writer.FormDataContentType(), true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK && resp.StatusCode != nethttp.StatusCreated {
		return statusError(resp.StatusCode, decodeDetail(resp), "Upload failed")
	}
	return nil
}

// ReadFilePage fetches one page of rows via GET /files/read_file.
func (c *Client) ReadFilePage(ctx context.Context, fileID string, page, pageSize int) (*models.FilePage, error) {
	query := url.Values{}
	query.Set("file_id", fileID)
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	resp, err := c.do(ctx, nethttp.MethodGet, "/files/read_file?"+query.Encode(), nil, "", true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, statusError(resp.StatusCode, decodeDetail(resp), "Failed to read file")
	}

	var filePage models.FilePage
	if err := json.NewDecoder(resp.Body).Decode(&filePage); err != nil {
		return nil, fmt.Errorf("failed to decode file page: %w", err)
	}
	return &filePage, nil
}

// DeleteFile removes a file via DELETE /files/delete_file/{file_id}.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	resp, err := c.do(ctx, nethttp.MethodDelete, "/files/delete_file/"+url.PathEscape(fileID), nil, "", true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK && resp.StatusCode != nethttp.StatusNoContent {
		return statusError(resp.StatusCode, decodeDetail(resp), "Delete failed")
	}
	return nil
}
