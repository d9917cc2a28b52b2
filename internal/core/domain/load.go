/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package domain

import "time"

// UpsertOutcome is the observable result of the create-then-update protocol.
type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "created" // POST accepted
	OutcomeUpdated UpsertOutcome = "updated" // POST conflicted, PATCH accepted
	OutcomeFailed  UpsertOutcome = "failed"
)

// UpsertResult describes what happened to one entity.
type UpsertResult struct {
	EntityID   string
	Outcome    UpsertOutcome
	StatusCode int // last HTTP status seen, 0 on network failure
	Err        error
}

// Succeeded reports whether the entity reached the broker.
func (r UpsertResult) Succeeded() bool {
	return r.Outcome == OutcomeCreated || r.Outcome == OutcomeUpdated
}

// FileTally counts upserts for one source file.
type FileTally struct {
	Source     string `json:"source"`
	SourceType string `json:"sourceType"`
	EntityType string `json:"entityType"`
	Context    string `json:"context"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Failed     int    `json:"failed"`
}

// Succeeded is the number of entities created or updated.
func (t FileTally) Succeeded() int {
	return t.Created + t.Updated
}

// Record adds one upsert result to the tally.
func (t *FileTally) Record(r UpsertResult) {
	switch r.Outcome {
	case OutcomeCreated:
		t.Created++
	case OutcomeUpdated:
		t.Updated++
	default:
		t.Failed++
	}
}

// LoadSummary is the report of one loader run.
type LoadSummary struct {
	RunID      string      `json:"runId"`
	BrokerURL  string      `json:"brokerUrl"`
	Source     string      `json:"source"`
	Files      []FileTally `json:"files"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
}

// TotalSucceeded is the grand total of entities that reached the broker.
func (s LoadSummary) TotalSucceeded() int {
	total := 0
	for _, f := range s.Files {
		total += f.Succeeded()
	}
	return total
}

// TotalFailed is the grand total of failed upserts.
func (s LoadSummary) TotalFailed() int {
	total := 0
	for _, f := range s.Files {
		total += f.Failed
	}
	return total
}
