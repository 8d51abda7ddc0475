package selection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
	redisclient "github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/clients/redis"
)

// RedisAdapter implements SelectionRepository over Redis so selections
// survive backend restarts. Each selection is stored as a JSON blob under a
// session-scoped key with a sliding TTL; insertion order is preserved by the
// encoded item slice.
type RedisAdapter struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisAdapter creates a new Redis-backed selection store
func NewRedisAdapter(client *redisclient.Client, ttlSeconds int) repositories.SelectionRepository {
	return &RedisAdapter{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func selectionKey(sessionID string) string {
	return "selection:" + sessionID
}

// Get retrieves the selection for a session, returning an empty selection
// when none exists
func (a *RedisAdapter) Get(ctx context.Context, sessionID string) (*entities.Selection, error) {
	data, err := a.client.Client().Get(ctx, selectionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return entities.NewSelection(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}

	var selection entities.Selection
	if err := json.Unmarshal(data, &selection); err != nil {
		return nil, fmt.Errorf("failed to decode selection: %w", err)
	}
	if selection.Items == nil {
		selection.Items = []string{}
	}
	if selection.Bundles == nil {
		selection.Bundles = []string{}
	}
	return &selection, nil
}

// Save stores the selection for its session and refreshes the TTL
func (a *RedisAdapter) Save(ctx context.Context, selection *entities.Selection) error {
	selection.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}

	if err := a.client.Client().Set(ctx, selectionKey(selection.SessionID), data, a.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store selection: %w", err)
	}
	return nil
}

// Delete removes the stored selection for a session
func (a *RedisAdapter) Delete(ctx context.Context, sessionID string) error {
	if err := a.client.Client().Del(ctx, selectionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	return nil
}
