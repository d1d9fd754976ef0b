// Package instagram provides a client for the Instagram Graph API content
// publishing endpoints used by the posting workflow.
//
// Publishing a single image is a multi-step process:
//  1. Create a media container referencing a publicly resolvable image URL
//  2. Poll the container status until Instagram finishes processing it
//  3. Publish the container
//
// The client requires a long-lived access token and the Instagram business
// account ID, both supplied by the caller from configuration.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultBaseURL is the Graph API base URL for Instagram publishing.
	defaultBaseURL = "https://graph.facebook.com/v21.0"

	// defaultTimeout is the HTTP client timeout for API calls.
	defaultTimeout = 30 * time.Second

	// Container readiness poll settings. The budget is deliberately small:
	// image containers are usually ready within a couple of seconds, and the
	// publish call is the final authority on readiness either way.
	defaultMaxPollAttempts = 5
	defaultPollInterval    = 2 * time.Second
)

// Status is the processing state reported for a media container.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusFinished   Status = "FINISHED"
	StatusError      Status = "ERROR"
	StatusUnknown    Status = "UNKNOWN"
)

// statusFromCode maps a raw status_code field onto a Status, collapsing
// anything unrecognized to StatusUnknown.
func statusFromCode(code string) Status {
	switch code {
	case "PENDING":
		return StatusPending
	case "PROCESSING", "IN_PROGRESS":
		return StatusProcessing
	case "FINISHED":
		return StatusFinished
	case "ERROR":
		return StatusError
	default:
		return StatusUnknown
	}
}

// Client provides methods for publishing to Instagram via the Graph API.
type Client struct {
	httpClient  *http.Client
	accessToken string
	accountID   string
	baseURL     string

	maxPollAttempts int
	pollInterval    time.Duration
}

// NewClient creates an Instagram API client for the given business account.
func NewClient(accessToken, accountID string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		accessToken:     accessToken,
		accountID:       accountID,
		baseURL:         defaultBaseURL,
		maxPollAttempts: defaultMaxPollAttempts,
		pollInterval:    defaultPollInterval,
	}
}

// --- API response types ---

// apiResponse is the generic Graph API response envelope. Raw response maps
// never escape this package; every endpoint is parsed into a typed contract.
type apiResponse struct {
	ID    string  `json:"id"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id,omitempty"`
}

// containerStatusResponse is the response from GET /{container_id}?fields=status_code.
type containerStatusResponse struct {
	ID         string  `json:"id"`
	StatusCode string  `json:"status_code"`
	Error      *apiErr `json:"error,omitempty"`
}

// --- Container creation ---

// CreateImageContainer creates a single-image media container with caption.
// imageURL must be a publicly accessible URL (e.g., a Cloudinary secure URL).
// Returns the container ID.
func (c *Client) CreateImageContainer(ctx context.Context, imageURL, caption string) (string, error) {
	log.Debug().Str("imageUrl", imageURL).Msg("Creating image container")
	params := url.Values{
		"image_url":    {imageURL},
		"caption":      {caption},
		"access_token": {c.accessToken},
	}

	resp, err := c.postForm(ctx, fmt.Sprintf("/%s/media", c.accountID), params)
	if err != nil {
		return "", fmt.Errorf("create image container: %w", err)
	}
	log.Info().Str("containerId", resp.ID).Msg("Image container created")
	return resp.ID, nil
}

// --- Publishing ---

// Publish publishes a media container.
// Returns the Instagram media ID of the published post.
func (c *Client) Publish(ctx context.Context, containerID string) (string, error) {
	log.Debug().Str("containerId", containerID).Msg("Publishing container")
	params := url.Values{
		"creation_id":  {containerID},
		"access_token": {c.accessToken},
	}

	resp, err := c.postForm(ctx, fmt.Sprintf("/%s/media_publish", c.accountID), params)
	if err != nil {
		return "", fmt.Errorf("publish container %s: %w", containerID, err)
	}
	log.Info().Str("containerId", containerID).Str("mediaId", resp.ID).Msg("Container published successfully")
	return resp.ID, nil
}

// --- Status polling ---

// ContainerStatus returns the processing status of a media container.
func (c *Client) ContainerStatus(ctx context.Context, containerID string) (Status, error) {
	endpoint := fmt.Sprintf("/%s?fields=status_code&access_token=%s",
		containerID, url.QueryEscape(c.accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return StatusUnknown, fmt.Errorf("build request: %w", err)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusUnknown, fmt.Errorf("container status request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return StatusUnknown, fmt.Errorf("read response: %w", err)
	}

	var status containerStatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return StatusUnknown, fmt.Errorf("parse response: %w (body: %s)", err, truncate(string(body), 200))
	}

	if status.Error != nil {
		return StatusUnknown, fmt.Errorf("API error: %s (code %d)", status.Error.Message, status.Error.Code)
	}

	return statusFromCode(status.StatusCode), nil
}

// WaitForContainer polls container status until FINISHED, the poll budget is
// exhausted, or ctx is cancelled. At least one status check is always issued
// before returning.
//
// Exhausting the budget is not an error: the caller may still attempt to
// publish and let Instagram reject a container that genuinely is not ready.
// A container reporting ERROR is definitive and returned as an error.
func (c *Client) WaitForContainer(ctx context.Context, containerID string) (bool, error) {
	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		status, err := c.ContainerStatus(ctx, containerID)
		if err != nil {
			// Transient errors — log and keep polling
			log.Warn().Err(err).Str("containerId", containerID).Int("attempt", attempt).Msg("Container status poll error, retrying")
		} else {
			switch status {
			case StatusFinished:
				log.Debug().Str("containerId", containerID).Int("attempt", attempt).Msg("Container processing finished")
				return true, nil
			case StatusError:
				return false, fmt.Errorf("container %s: processing failed on Instagram's side", containerID)
			case StatusPending, StatusProcessing:
				log.Debug().Str("containerId", containerID).Int("attempt", attempt).Str("status", string(status)).Msg("Container still processing")
			default:
				log.Warn().Str("containerId", containerID).Str("status", string(status)).Msg("Unknown container status")
			}
		}

		if attempt == c.maxPollAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	log.Warn().
		Str("containerId", containerID).
		Int("attempts", c.maxPollAttempts).
		Msg("Container not confirmed ready within poll budget")
	return false, nil
}

// --- Internal helpers ---

// postForm sends a POST request with form-encoded parameters to the Graph API.
func (c *Client) postForm(ctx context.Context, endpoint string, params url.Values) (*apiResponse, error) {
	startTime := time.Now()

	log.Debug().Str("method", http.MethodPost).Str("path", endpoint).Msg("Instagram API request")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Debug().Int("statusCode", 0).Dur("duration", duration).Err(err).Msg("Instagram API response")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	log.Debug().Int("statusCode", httpResp.StatusCode).Dur("duration", duration).Msg("Instagram API response")

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w (body: %s)", err, truncate(string(body), 200))
	}

	if resp.Error != nil {
		log.Error().Str("errorMessage", resp.Error.Message).Str("errorType", resp.Error.Type).Int("errorCode", resp.Error.Code).Msg("Instagram API error")
		return nil, fmt.Errorf("%s (type: %s, code: %d)",
			resp.Error.Message, resp.Error.Type, resp.Error.Code)
	}

	if resp.ID == "" {
		return nil, fmt.Errorf("unexpected response: no ID returned (body: %s)", truncate(string(body), 200))
	}

	return &resp, nil
}

// truncate returns the first n characters of s, appending "..." if truncated.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
