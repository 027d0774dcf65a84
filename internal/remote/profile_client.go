// Package remote integrates with the external account service that holds a
// previously saved copy of the applicant's profile. The service hydrates
// from it after authentication; everything else about accounts stays on the
// other side of this boundary.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pathway/internal/profile/models"
	id "pathway/pkg/domain"
	"pathway/pkg/platform/sentinel"
)

// ProfileClient fetches the remote copy of a user's profile. Mock
// implementations use deterministic data and a configurable latency to mimic
// real-world calls.
type ProfileClient interface {
	Fetch(ctx context.Context, userID id.UserID) (*models.Profile, error)
}

// HTTPProfileClient talks to the account service over HTTP.
type HTTPProfileClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProfileClient(baseURL string, timeout time.Duration) *HTTPProfileClient {
	return &HTTPProfileClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch returns the remote profile document. The caller owns normalization
// and completeness recomputation; the remote isComplete flag is never
// trusted verbatim.
func (c *HTTPProfileClient) Fetch(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	url := fmt.Sprintf("%s/v1/profiles/%s", c.baseURL, userID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile fetch request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch remote profile: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, sentinel.ErrNotFound
	default:
		return nil, fmt.Errorf("remote profile service returned %d", resp.StatusCode)
	}

	var profile models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode remote profile: %w", err)
	}
	return &profile, nil
}

// MockProfileClient serves a fixed profile after an artificial delay.
type MockProfileClient struct {
	Latency time.Duration
	Profile *models.Profile
}

func (c *MockProfileClient) Fetch(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.Latency):
	}
	if c.Profile == nil {
		return nil, sentinel.ErrNotFound
	}
	clone := c.Profile.Clone()
	clone.UserID = userID
	return clone, nil
}
