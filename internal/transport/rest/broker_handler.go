/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/sematx/opendata-seed/internal/core/domain"
	"github.com/sematx/opendata-seed/internal/core/ports"
	"github.com/sematx/opendata-seed/internal/transport/rest/middleware"
)

const (
	EntitiesPath = "/ngsi-ld/v1/entities"

	contentTypeLD      = "application/ld+json"
	contentTypeProblem = "application/json"

	problemAlreadyExists = "https://uri.etsi.org/ngsi-ld/errors/AlreadyExists"
	problemBadRequest    = "https://uri.etsi.org/ngsi-ld/errors/BadRequestData"
	problemNotFound      = "https://uri.etsi.org/ngsi-ld/errors/ResourceNotFound"
	problemInternal      = "https://uri.etsi.org/ngsi-ld/errors/InternalError"
)

// BrokerHandler serves the slice of the NGSI-LD API used by the seed loader.
type BrokerHandler struct {
	repo ports.EntityRepository
	log  *slog.Logger
}

func NewBrokerHandler(repo ports.EntityRepository, log *slog.Logger) *BrokerHandler {
	return &BrokerHandler{repo: repo, log: log}
}

// RegisterRoutes wires up the endpoints. protect, when not nil, guards the
// entity routes; /version stays public so health checks keep working.
func (h *BrokerHandler) RegisterRoutes(r chi.Router, protect func(http.Handler) http.Handler) {
	r.Get("/version", h.Version)

	r.Route(EntitiesPath, func(r chi.Router) {
		if protect != nil {
			r.Use(protect)
		}
		r.Post("/", h.CreateEntity)
		r.Get("/{id}", h.GetEntity)
		r.Patch("/{id}/attrs", h.UpdateAttrs)
	})
}

// Version handles GET /version
func (h *BrokerHandler) Version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"broker":  "mock-broker",
		"version": "1.0.0",
	})
}

// CreateEntity handles POST /ngsi-ld/v1/entities
func (h *BrokerHandler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	// 1. Decode
	var doc ports.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeProblem(w, http.StatusBadRequest, problemBadRequest, "invalid JSON payload", err.Error())
		return
	}
	defer r.Body.Close()

	// 2. Validate the mandatory members
	id, ok := stringMember(doc, domain.KeyID)
	if !ok {
		writeProblem(w, http.StatusBadRequest, problemBadRequest, "entity id is required", "")
		return
	}
	if _, ok := stringMember(doc, domain.KeyType); !ok {
		writeProblem(w, http.StatusBadRequest, problemBadRequest, "entity type is required", id)
		return
	}

	// 3. Store
	if err := h.repo.Create(r.Context(), id, doc); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			writeProblem(w, http.StatusConflict, problemAlreadyExists, "entity already exists", id)
			return
		}
		h.log.Error("failed to create entity", "entity_id", id, "error", err)
		writeProblem(w, http.StatusInternalServerError, problemInternal, "internal server error", "")
		return
	}

	h.log.Debug("entity created", append([]any{"entity_id", id}, caller(r)...)...)
	w.Header().Set("Location", EntitiesPath+"/"+url.PathEscape(id))
	w.WriteHeader(http.StatusCreated)
}

// GetEntity handles GET /ngsi-ld/v1/entities/{id}
func (h *BrokerHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}

	doc, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, id, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeLD)
	json.NewEncoder(w).Encode(doc)
}

// UpdateAttrs handles PATCH /ngsi-ld/v1/entities/{id}/attrs
func (h *BrokerHandler) UpdateAttrs(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}

	var attrs ports.Document
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		writeProblem(w, http.StatusBadRequest, problemBadRequest, "invalid JSON payload", err.Error())
		return
	}
	defer r.Body.Close()

	// The entity keeps its own identity and context
	delete(attrs, domain.KeyID)
	delete(attrs, domain.KeyType)
	delete(attrs, domain.KeyContext)

	if err := h.repo.MergeAttrs(r.Context(), id, attrs); err != nil {
		h.writeRepoError(w, id, err)
		return
	}

	h.log.Debug("entity updated", append([]any{"entity_id", id, "attributes", len(attrs)}, caller(r)...)...)
	w.WriteHeader(http.StatusNoContent)
}

func (h *BrokerHandler) writeRepoError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, problemNotFound, "entity not found", id)
		return
	}
	h.log.Error("entity store failure", "entity_id", id, "error", err)
	writeProblem(w, http.StatusInternalServerError, problemInternal, "internal server error", "")
}

// caller returns the token subject and roles as log attributes, if the
// request went through the auth middleware.
func caller(r *http.Request) []any {
	sub, ok := middleware.GetSubject(r.Context())
	if !ok {
		return nil
	}
	roles, _ := middleware.GetRoles(r.Context())
	return []any{"subject", sub, "roles", roles}
}

func entityID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		writeProblem(w, http.StatusBadRequest, problemBadRequest, "invalid entity id", "")
		return "", false
	}
	return id, true
}

func stringMember(doc ports.Document, key string) (string, bool) {
	raw, ok := doc[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, typ, title, detail string) {
	w.Header().Set("Content-Type", contentTypeProblem)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(problem{Type: typ, Title: title, Detail: detail})
}
