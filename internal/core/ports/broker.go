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

	"github.com/sematx/opendata-seed/internal/core/domain"
)

type BrokerClient interface {
	// Ready probes the broker health endpoint. A nil error means HTTP 200.
	Ready(ctx context.Context) error

	// CreateEntity submits a full entity and returns the HTTP status.
	// A 409 answer yields an error matching domain.ErrConflict.
	CreateEntity(ctx context.Context, entity *domain.Entity) (int, error)

	// UpdateEntityAttrs patches the attributes of an existing entity and
	// returns the HTTP status.
	UpdateEntityAttrs(ctx context.Context, id string, attrs domain.Fragment) (int, error)
}
