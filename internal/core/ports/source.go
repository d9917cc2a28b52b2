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
	"io"
)

// SeedSource lists and opens the CSV files of a seed data set.
type SeedSource interface {
	// List returns the CSV file names, sorted.
	List(ctx context.Context) ([]string, error)

	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Location describes the source for logs (a path or an s3:// URL).
	Location() string
}
