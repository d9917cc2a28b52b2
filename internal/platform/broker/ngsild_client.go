/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package broker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sematx/opendata-seed/internal/core/domain"
	"github.com/sematx/opendata-seed/internal/core/ports"
)

const (
	versionPath  = "/version"
	entitiesPath = "/ngsi-ld/v1/entities"

	contentTypeLD = "application/ld+json"

	// Error bodies are only echoed into logs.
	maxErrorBody = 4096
)

type Config struct {
	BaseURL        string
	Token          string // optional bearer token for gateways
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
}

// Client talks to an NGSI-LD broker over HTTP.
type Client struct {
	baseURL string
	token   string
	probe   *http.Client
	http    *http.Client
}

// Ensure we implement the interface
var _ ports.BrokerClient = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		probe:   &http.Client{Timeout: cfg.ProbeTimeout},
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Ready returns nil only when GET /version answers 200.
func (c *Client) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+versionPath, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}
	c.authorize(req)

	resp, err := c.probe.Do(req)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return brokerError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// CreateEntity POSTs the full entity. 200 and 201 are success.
func (c *Client) CreateEntity(ctx context.Context, entity *domain.Entity) (int, error) {
	body, err := entity.MarshalJSON()
	if err != nil {
		return 0, fmt.Errorf("failed to marshal entity %s: %w", entity.ID, err)
	}
	return c.send(ctx, http.MethodPost, c.baseURL+entitiesPath, body, http.StatusOK, http.StatusCreated)
}

// UpdateEntityAttrs PATCHes /entities/{id}/attrs. 200 and 204 are success.
func (c *Client) UpdateEntityAttrs(ctx context.Context, id string, attrs domain.Fragment) (int, error) {
	body, err := attrs.MarshalJSON()
	if err != nil {
		return 0, fmt.Errorf("failed to marshal attributes of %s: %w", id, err)
	}
	endpoint := c.baseURL + entitiesPath + "/" + url.PathEscape(id) + "/attrs"
	return c.send(ctx, http.MethodPatch, endpoint, body, http.StatusOK, http.StatusNoContent)
}

func (c *Client) send(ctx context.Context, method, endpoint string, body []byte, okStatus ...int) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", contentTypeLD)
	req.Header.Set("Accept", contentTypeLD)
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	for _, code := range okStatus {
		if resp.StatusCode == code {
			_, _ = io.Copy(io.Discard, resp.Body)
			return resp.StatusCode, nil
		}
	}
	return resp.StatusCode, brokerError(resp)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func brokerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.BrokerError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
