//go:build integration
// +build integration

package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sematx/opendata-seed/internal/auth"
	"github.com/sematx/opendata-seed/internal/config"
	"github.com/sematx/opendata-seed/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUpsertLifecycle runs the create / conflict / patch cycle against a
// running broker (mock-broker or a real one behind the gateway).
//
// TEST_BROKER_URL selects the target, default http://localhost:1026.
func TestUpsertLifecycle(t *testing.T) {
	cfg := config.Load()

	baseURL := os.Getenv("TEST_BROKER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:1026"
	}
	waitForServer(t, baseURL+"/version")

	token, err := auth.Issue(cfg.JWTSecret, auth.NewClaims("integration-test", time.Hour, time.Now()))
	require.NoError(t, err)

	entity := domain.NewEntity("urn:ngsi-ld:AirQualityObserved:it-"+uuid.NewString(), "AirQualityObserved", domain.ResolveContext("AirQualityObserved"))
	entity.Set("pm25", domain.NewProperty(12.3))
	body, err := entity.MarshalJSON()
	require.NoError(t, err)

	// 1. Create
	resp := send(t, http.MethodPost, baseURL+"/ngsi-ld/v1/entities", token, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// 2. Same id again conflicts
	resp = send(t, http.MethodPost, baseURL+"/ngsi-ld/v1/entities", token, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// 3. Patch attributes
	entity.Set("pm25", domain.NewProperty(40.1))
	patch, err := entity.Fragment().MarshalJSON()
	require.NoError(t, err)
	resp = send(t, http.MethodPatch, fmt.Sprintf("%s/ngsi-ld/v1/entities/%s/attrs", baseURL, entity.ID), token, patch)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	t.Logf("Upserted entity: %s", entity.ID)
}

func send(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/ld+json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func waitForServer(t *testing.T, url string) {
	for i := 0; i < 10; i++ {
		resp, err := http.Get(url)
		if err == nil && resp.StatusCode == 200 {
			resp.Body.Close()
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Log("Warning: broker might not be up, tests might fail if 'go run ./cmd/mock-broker' is not running")
}
