/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2029-11-20
 * Change License: AGPL-3.0
 */

package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	_ "embed"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sematx/opendata-seed/internal/core/domain"
	"github.com/sematx/opendata-seed/internal/core/ports"
)

//go:embed schemas/entity.json
var entitySchemaRaw string

// SummaryChannel is the pub/sub channel a finished run is announced on.
const SummaryChannel = "seed.loaded"

// LoaderOptions tunes the readiness gate and labels the run.
type LoaderOptions struct {
	BrokerURL     string
	ReadyAttempts int
	ReadyInterval time.Duration
}

// DefaultLoaderOptions polls 30 times, 2 seconds apart.
func DefaultLoaderOptions(brokerURL string) LoaderOptions {
	return LoaderOptions{
		BrokerURL:     brokerURL,
		ReadyAttempts: 30,
		ReadyInterval: 2 * time.Second,
	}
}

type loaderService struct {
	broker ports.BrokerClient
	source ports.SeedSource
	bus    ports.EventBus
	schema *jsonschema.Schema
	opts   LoaderOptions
	runID  string
	log    *slog.Logger
}

// Ensure interface implementation
var _ ports.LoaderService = (*loaderService)(nil)

// NewLoaderService wires a one-shot loader. bus may be nil.
func NewLoaderService(broker ports.BrokerClient, source ports.SeedSource, bus ports.EventBus, log *slog.Logger, opts LoaderOptions) (ports.LoaderService, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("entity.json", strings.NewReader(entitySchemaRaw)); err != nil {
		return nil, fmt.Errorf("failed to add entity schema: %w", err)
	}
	schema, err := compiler.Compile("entity.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile entity schema: %w", err)
	}

	if opts.ReadyAttempts < 1 {
		opts.ReadyAttempts = 1
	}

	runID := uuid.NewString()
	return &loaderService{
		broker: broker,
		source: source,
		bus:    bus,
		schema: schema,
		opts:   opts,
		runID:  runID,
		log:    log.With("run_id", runID),
	}, nil
}

func (s *loaderService) WaitForBroker(ctx context.Context) error {
	s.log.Info("waiting for broker", "url", s.opts.BrokerURL)

	for attempt := 1; attempt <= s.opts.ReadyAttempts; attempt++ {
		err := s.broker.Ready(ctx)
		if err == nil {
			s.log.Info("broker is ready", "attempt", attempt)
			return nil
		}
		s.log.Warn("broker not ready", "attempt", attempt, "max_attempts", s.opts.ReadyAttempts, "error", err)

		if attempt == s.opts.ReadyAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.ReadyInterval):
		}
	}

	return fmt.Errorf("%w after %d attempts", domain.ErrBrokerNotReady, s.opts.ReadyAttempts)
}

func (s *loaderService) Upsert(ctx context.Context, entity *domain.Entity) domain.UpsertResult {
	result := domain.UpsertResult{EntityID: entity.ID, Outcome: domain.OutcomeFailed}

	if err := s.validate(entity); err != nil {
		result.Err = err
		s.log.Error("entity rejected before upload", "entity_id", entity.ID, "error", err)
		return result
	}

	// 1. Create
	status, err := s.broker.CreateEntity(ctx, entity)
	result.StatusCode = status
	if err == nil {
		result.Outcome = domain.OutcomeCreated
		return result
	}
	if !errors.Is(err, domain.ErrConflict) {
		result.Err = err
		s.log.Error("create failed", "entity_id", entity.ID, "status", status, "error", err)
		return result
	}

	// 2. Already there: update attributes, keeping @context
	status, err = s.broker.UpdateEntityAttrs(ctx, entity.ID, entity.Fragment())
	result.StatusCode = status
	if err != nil {
		result.Err = err
		s.log.Error("update failed", "entity_id", entity.ID, "status", status, "error", err)
		return result
	}

	result.Outcome = domain.OutcomeUpdated
	return result
}

func (s *loaderService) LoadFile(ctx context.Context, name string) domain.FileTally {
	sourceType := SourceType(name)
	tally := domain.FileTally{
		Source:     name,
		SourceType: sourceType,
		EntityType: domain.ResolveEntityType(sourceType),
		Context:    domain.ResolveContext(sourceType),
	}
	log := s.log.With("file", name)
	log.Info("processing file", "source_type", sourceType, "entity_type", tally.EntityType, "context", tally.Context)
	if !domain.IsKnownSourceType(sourceType) {
		log.Warn("no mapping for source type, using it as entity type with the core context", "source_type", sourceType)
	}

	rc, err := s.source.Open(ctx, name)
	if err != nil {
		log.Error("failed to open file", "error", err)
		return tally
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Error("failed to read header", "error", err)
		}
		return tally
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	for ctx.Err() == nil {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			log.Warn("skipping malformed row", "line", parseErr.StartLine, "error", err)
			continue
		}
		if err != nil {
			log.Error("failed to read file", "error", err)
			break
		}

		entity, ok := RowToEntity(header, record, sourceType)
		if !ok {
			continue
		}
		tally.Record(s.Upsert(ctx, entity))
	}

	log.Info("file done", "succeeded", tally.Succeeded(), "created", tally.Created, "updated", tally.Updated, "failed", tally.Failed)
	return tally
}

func (s *loaderService) Run(ctx context.Context) (*domain.LoadSummary, error) {
	summary := &domain.LoadSummary{
		RunID:     s.runID,
		BrokerURL: s.opts.BrokerURL,
		Source:    s.source.Location(),
		StartedAt: time.Now().UTC(),
	}
	s.log.Info("starting seed load", "broker_url", summary.BrokerURL, "source", summary.Source)

	if err := s.WaitForBroker(ctx); err != nil {
		return nil, err
	}

	names, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list seed files: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrNoSourceFiles, summary.Source)
	}
	s.log.Info("found seed files", "count", len(names), "files", names)

	for _, name := range names {
		summary.Files = append(summary.Files, s.LoadFile(ctx, name))
		if err := ctx.Err(); err != nil {
			return summary, err
		}
	}
	summary.FinishedAt = time.Now().UTC()

	s.log.Info("data loading complete", "total_entities", summary.TotalSucceeded(), "failed", summary.TotalFailed())
	s.publish(ctx, summary)
	return summary, nil
}

// publish announces the summary. A missing or failing bus never fails the run.
func (s *loaderService) publish(ctx context.Context, summary *domain.LoadSummary) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, SummaryChannel, summary); err != nil {
		s.log.Warn("failed to publish load summary", "channel", SummaryChannel, "error", err)
	}
}

func (s *loaderService) validate(entity *domain.Entity) error {
	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// SourceType derives the logical source type from a file name:
// "seed/AirQualityObserved.csv" -> "AirQualityObserved".
func SourceType(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
