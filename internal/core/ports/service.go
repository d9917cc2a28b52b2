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

type LoaderService interface {
	// WaitForBroker blocks until the broker answers its health probe or the
	// attempt budget is spent (domain.ErrBrokerNotReady).
	WaitForBroker(ctx context.Context) error

	// Upsert creates the entity, falling back to an attrs update on conflict.
	Upsert(ctx context.Context, entity *domain.Entity) domain.UpsertResult

	// LoadFile converts and upserts every row of one source file.
	LoadFile(ctx context.Context, name string) domain.FileTally

	// Run waits for the broker, then loads every file of the source.
	Run(ctx context.Context) (*domain.LoadSummary, error)
}
