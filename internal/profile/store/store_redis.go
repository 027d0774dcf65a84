package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pathway/internal/profile/models"
	id "pathway/pkg/domain"
	"pathway/pkg/platform/sentinel"
)

const profileKeyPrefix = "pathway:profile:"

// Redis keeps TTL-bound working copies of profiles. Suited to multi-instance
// deployments where the draft must survive an instance restart but the
// durable record lives elsewhere (or nowhere, for anonymous drafts).
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed profile store. A zero ttl stores drafts
// without expiry.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(userID id.UserID) string {
	return profileKeyPrefix + userID.String()
}

func (s *Redis) Save(ctx context.Context, profile *models.Profile) error {
	document, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile document: %w", err)
	}
	if err := s.client.Set(ctx, key(profile.UserID), document, s.ttl).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Redis) FindByUser(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	document, err := s.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	var profile models.Profile
	if err := json.Unmarshal(document, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile document: %w", err)
	}
	profile.Normalize()
	return &profile, nil
}

func (s *Redis) Delete(ctx context.Context, userID id.UserID) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
