package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Asset is the durable result of re-hosting an image: a permanent secure
// URL plus the provider's own key, which is required to delete the asset
// later.
type Asset struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Client handles communication with the asset hosting service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new asset hosting client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type uploadRequest struct {
	SourceURL    string `json:"source_url"`
	UploadPreset string `json:"upload_preset"`
}

// Upload asks the hosting service to fetch the image at sourceURL and
// store it under the named upload preset. The preset governs the storage
// folder and transformations and must be registered with the provider
// beforehand.
func (c *Client) Upload(ctx context.Context, sourceURL, uploadPreset string) (Asset, error) {
	if sourceURL == "" {
		return Asset{}, fmt.Errorf("source URL is empty")
	}

	jsonData, err := json.Marshal(uploadRequest{
		SourceURL:    sourceURL,
		UploadPreset: uploadPreset,
	})
	if err != nil {
		return Asset{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/assets", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return Asset{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to call asset hosting service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Asset{}, fmt.Errorf("asset hosting service returned status %d: %s", resp.StatusCode, string(body))
	}

	var asset Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		return Asset{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if asset.SecureURL == "" || asset.PublicID == "" {
		return Asset{}, fmt.Errorf("asset hosting service returned an incomplete asset")
	}

	return asset, nil
}

// Delete removes the asset identified by assetKey. Deleting a key that no
// longer exists is not an error: the provider answers 404 and the delete
// counts as done.
func (c *Client) Delete(ctx context.Context, assetKey string) error {
	if assetKey == "" {
		return fmt.Errorf("asset key is empty")
	}

	reqURL := fmt.Sprintf("%s/v1/assets/%s", c.baseURL, url.PathEscape(assetKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call asset hosting service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("asset hosting service returned status %d: %s", resp.StatusCode, string(body))
}
