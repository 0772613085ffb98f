// Package github implements the repository tools the model can invoke:
// reading files, listing directories and committing changes through the
// GitHub contents REST API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public GitHub API endpoint
const DefaultBaseURL = "https://api.github.com"

// Client is a minimal GitHub contents API client scoped to one user's
// repositories.
type Client struct {
	baseURL    string
	username   string
	token      string
	httpClient *http.Client
}

// Entry is one item of a directory listing
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// NewClient creates a client for the given user. An empty baseURL selects
// the public GitHub API.
func NewClient(baseURL, username, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		token:    token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) contentsURL(repo, path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.username, repo, path)
}

func (c *Client) do(ctx context.Context, method, url string, accept string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	return c.httpClient.Do(req)
}

// GetFileContent fetches the raw content of a file
func (c *Client) GetFileContent(ctx context.Context, repo, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentsURL(repo, path), "application/vnd.github.v3.raw", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%d - %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}

// ListDirectory lists the entries of a directory. An empty path lists the
// repository root.
func (c *Client) ListDirectory(ctx context.Context, repo, path string) ([]Entry, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentsURL(repo, path), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%d - %s", resp.StatusCode, string(body))
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse directory listing: %w", err)
	}
	return entries, nil
}

// WriteFile creates or updates a file. An existing file's sha is looked up
// first so the PUT updates it instead of failing. Returns the committed
// path.
func (c *Client) WriteFile(ctx context.Context, repo, path, content, message string) (string, error) {
	url := c.contentsURL(repo, path)

	// Existing files need their blob sha in the update request
	var sha string
	if resp, err := c.do(ctx, http.MethodGet, url, "", nil); err == nil {
		func() {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return
			}
			var existing struct {
				SHA string `json:"sha"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&existing); err == nil {
				sha = existing.SHA
			}
		}()
	}

	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	}
	if sha != "" {
		payload["sha"] = sha
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, url, "", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("GitHub Write Error: %d - %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Content struct {
			Path string `json:"path"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return result.Content.Path, nil
}
