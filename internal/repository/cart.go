package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"studymart-checkout/internal/model"
)

var ErrCartNotFound = errors.New("saved cart not found")

// CartRepository keeps a storefront session's cart in redis between runs.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) ([]model.CartItem, error)
	Save(ctx context.Context, sessionID string, snapshot model.CartSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

type cartRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &cartRepoImpl{
		client: client,
		ttl:    ttl,
	}
}

func (r *cartRepoImpl) Load(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return items, nil
}

// Save stores the snapshot; an empty snapshot removes the key.
func (r *cartRepoImpl) Save(ctx context.Context, sessionID string, snapshot model.CartSnapshot) error {
	if snapshot.IsEmpty() {
		return r.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(snapshot.Items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *cartRepoImpl) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("studymart:cart:%s", sessionID)
}
