package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"game-upload-api/internal/providers"
)

// Gateway authorizes storage operations on behalf of the uploader. The
// uploader never talks to the object store directly; it PUTs bytes to the
// URLs the gateway hands out.
type Gateway interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	CreateMultipartUpload(ctx context.Context, key string) (string, error)
	PresignPartURLs(ctx context.Context, key, uploadID string, partCount int) ([]string, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []providers.CompletedPart) error
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
}

// ConcatResult is the response of a successful concatenation run, carrying
// what the caller needs to build a user-facing storage link.
type ConcatResult struct {
	Message       string `json:"message"`
	FinalVideoKey string `json:"finalVideoKey"`
	Bucket        string `json:"bucket"`
	Folder        string `json:"folder"`
	Region        string `json:"region"`
}

// APIClient talks to the backend's storage action API and concatenation
// endpoint over JSON.
type APIClient struct {
	storageURL     string
	concatenateURL string
	sessionURL     string
	httpClient     *http.Client
}

// NewAPIClient creates a client for the backend APIs. Endpoints that a
// deployment does not use may be left empty.
func NewAPIClient(storageURL, concatenateURL, sessionURL string) *APIClient {
	return &APIClient{
		storageURL:     storageURL,
		concatenateURL: concatenateURL,
		sessionURL:     sessionURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   100,
				IdleConnTimeout:       90 * time.Second,
				ForceAttemptHTTP2:     true,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

func (c *APIClient) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	err := c.post(ctx, c.storageURL, map[string]any{
		"action":      "get-presigned-put-url",
		"key":         key,
		"contentType": contentType,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *APIClient) CreateMultipartUpload(ctx context.Context, key string) (string, error) {
	var resp struct {
		UploadID string `json:"uploadId"`
	}
	err := c.post(ctx, c.storageURL, map[string]any{
		"action": "create-multipart-upload",
		"key":    key,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.UploadID, nil
}

func (c *APIClient) PresignPartURLs(ctx context.Context, key, uploadID string, partCount int) ([]string, error) {
	var resp struct {
		URLs []string `json:"urls"`
	}
	err := c.post(ctx, c.storageURL, map[string]any{
		"action":    "get-presigned-part-urls",
		"key":       key,
		"uploadId":  uploadID,
		"partCount": partCount,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.URLs, nil
}

func (c *APIClient) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []providers.CompletedPart) error {
	return c.post(ctx, c.storageURL, map[string]any{
		"action":   "complete-multipart-upload",
		"key":      key,
		"uploadId": uploadID,
		"parts":    parts,
	}, nil)
}

func (c *APIClient) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	return c.post(ctx, c.storageURL, map[string]any{
		"action":   "abort-multipart-upload",
		"key":      key,
		"uploadId": uploadID,
	}, nil)
}

// Concatenate asks the backend to reassemble the session's uploaded video
// parts into the final video object.
func (c *APIClient) Concatenate(ctx context.Context, sessionID, folderName, gameName string) (*ConcatResult, error) {
	var resp ConcatResult
	err := c.post(ctx, c.concatenateURL, map[string]any{
		"sessionId":  sessionID,
		"folderName": folderName,
		"gameName":   gameName,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends one JSON request and decodes the JSON response into out. A
// non-2xx status is surfaced with the backend's error message.
func (c *APIClient) post(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("backend error: %s", apiErr.Error)
		}
		return fmt.Errorf("backend error: HTTP %d", resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
