/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package ports

import (
	"context"
	"encoding/json"
)

// Document is a normalized entity as stored by the mock broker.
type Document map[string]json.RawMessage

type EntityRepository interface {
	// Create stores a new entity. Returns domain.ErrConflict if the id exists.
	Create(ctx context.Context, id string, doc Document) error

	// MergeAttrs overwrites the given attributes. Returns domain.ErrNotFound for unknown ids.
	MergeAttrs(ctx context.Context, id string, attrs Document) error

	Get(ctx context.Context, id string) (Document, error)
}
