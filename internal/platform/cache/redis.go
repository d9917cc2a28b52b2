/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-21
 * Change License: AGPL-3.0
 */

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sematx/opendata-seed/internal/core/domain"
	"github.com/sematx/opendata-seed/internal/core/ports"
)

const entityKeyPrefix = "entity:"

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// NewRedisClient opens a client on the default database.
func NewRedisClient(addr string) *redis.Client {
	// In a real deployment the password comes from options
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set in docker-compose
		DB:       0,  // Use default DB
	})
}

// EntityStore keeps mock-broker entities as JSON strings under entity:{id}.
type EntityStore struct {
	client *redis.Client
}

var _ ports.EntityRepository = (*EntityStore)(nil)

func NewEntityStore(client *redis.Client) *EntityStore {
	return &EntityStore{client: client}
}

func (r *EntityStore) Create(ctx context.Context, id string, doc ports.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal entity %s: %w", id, err)
	}
	created, err := r.client.SetNX(ctx, entityKeyPrefix+id, payload, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return domain.ErrConflict
	}
	return nil
}

// mergeRetries bounds how often MergeAttrs retries after losing a WATCH race.
const mergeRetries = 100

// MergeAttrs read-modify-writes the document under WATCH so concurrent
// patches of the same entity do not lose attributes.
func (r *EntityStore) MergeAttrs(ctx context.Context, id string, attrs ports.Document) error {
	key := entityKeyPrefix + id
	merge := func(tx *redis.Tx) error {
		doc, err := r.load(ctx, tx, key)
		if err != nil {
			return err
		}
		for name, value := range attrs {
			doc[name] = value
		}
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal entity %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	for i := 0; i < mergeRetries; i++ {
		err := r.client.Watch(ctx, merge, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("failed to merge entity %s: %w", id, redis.TxFailedErr)
}

func (r *EntityStore) Get(ctx context.Context, id string) (ports.Document, error) {
	return r.load(ctx, r.client, entityKeyPrefix+id)
}

func (r *EntityStore) load(ctx context.Context, c getter, key string) (ports.Document, error) {
	val, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc ports.Document
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, fmt.Errorf("corrupt entity under %s: %w", key, err)
	}
	if doc == nil {
		// a stored JSON null
		doc = ports.Document{}
	}
	return doc, nil
}
