/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when an entity with the same id already exists.
	ErrConflict = errors.New("entity already exists")

	// ErrInvalidInput is returned when an entity document is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBrokerNotReady is returned when the broker never answered its health probe.
	ErrBrokerNotReady = errors.New("broker not ready")

	// ErrNoSourceFiles is returned when the seed source holds no CSV files.
	ErrNoSourceFiles = errors.New("no CSV files found")
)

// BrokerError carries an unexpected HTTP status returned by the broker.
type BrokerError struct {
	StatusCode int
	Body       string
}

func (e *BrokerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("broker returned %d", e.StatusCode)
	}
	return fmt.Sprintf("broker returned %d - %s", e.StatusCode, e.Body)
}

// Is lets a 409 response match ErrConflict and a 404 match ErrNotFound.
func (e *BrokerError) Is(target error) bool {
	switch target {
	case ErrConflict:
		return e.StatusCode == 409
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}
