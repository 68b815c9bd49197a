// Package stories holds the client-side story machinery: the HTTP
// client for the generation and store services, the local collection
// snapshot and the one-shot generation request flow.
package stories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storyvoice/internal/models"
)

// API defines the boundary to the remote story services.
type API interface {
	// Generate asks the generation service for a new narrative.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// List fetches every record owned by userID, in store order.
	List(ctx context.Context, userID string) ([]models.StoryRecord, error)
	// Delete removes one record. Ownership is enforced by the store
	// from the userID in the request body.
	Delete(ctx context.Context, storyID, userID string) error
}

// GenerateRequest is the wire payload for POST /api/generate-story.
type GenerateRequest struct {
	UserID     string   `json:"user_id"`
	Genre      string   `json:"genre"`
	Characters []string `json:"characters"`
	Plot       string   `json:"plot"`
}

// GenerateResponse carries the generated narrative and, when the
// service persisted it synchronously, the new record id.
type GenerateResponse struct {
	Story string `json:"story"`
	ID    string `json:"id,omitempty"`
}

// storyDTO matches the store service's record shape.
type storyDTO struct {
	ID             string   `json:"_id"`
	Genre          string   `json:"genre"`
	Characters     []string `json:"characters"`
	Plot           string   `json:"plot"`
	GeneratedStory string   `json:"generated_story"`
}

type deleteRequest struct {
	UserID string `json:"userId"`
}

// Compile-time check that Client implements API.
var _ API = (*Client)(nil)

// Client is the HTTP client for the story generation and store
// services.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a story API client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger.Named("StoryAPI"),
	}
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := c.baseURL + "/api/generate-story"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp GenerateResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	c.logger.Info("Story generated",
		zap.String("userID", req.UserID),
		zap.String("genre", req.Genre),
		zap.Int("storyLength", len(resp.Story)),
	)
	return &resp, nil
}

func (c *Client) List(ctx context.Context, userID string) ([]models.StoryRecord, error) {
	url := fmt.Sprintf("%s/api/stories/%s", c.baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %w", err)
	}

	var dtos []storyDTO
	if err := c.do(httpReq, &dtos); err != nil {
		return nil, err
	}

	// Preserve store order; the server returns records newest-first and
	// re-sorting here would diverge from any server-side pagination.
	records := make([]models.StoryRecord, 0, len(dtos))
	for _, dto := range dtos {
		records = append(records, models.StoryRecord{
			ID:            dto.ID,
			OwnerID:       userID,
			Genre:         models.Genre(dto.Genre),
			Characters:    dto.Characters,
			Plot:          dto.Plot,
			NarrativeText: dto.GeneratedStory,
		})
	}
	c.logger.Debug("Stories fetched", zap.String("userID", userID), zap.Int("count", len(records)))
	return records, nil
}

func (c *Client) Delete(ctx context.Context, storyID, userID string) error {
	// The store trusts the client-supplied userId for the ownership
	// check. That is the collaborator's contract as it stands; ideally
	// it would re-derive ownership from a verified credential.
	payload, err := json.Marshal(deleteRequest{UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to marshal delete request: %w", err)
	}

	url := fmt.Sprintf("%s/api/stories/%s", c.baseURL, storyID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if err := c.do(httpReq, nil); err != nil {
		return err
	}
	c.logger.Info("Story deleted", zap.String("storyID", storyID), zap.String("userID", userID))
	return nil
}

// do executes the request and decodes the body into out when out is
// non-nil. Non-2xx responses become errors carrying a body excerpt.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(data)
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		return fmt.Errorf("%s returned %s: %s", req.URL.Path, resp.Status, excerpt)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
		}
	}
	return nil
}
