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
	"bytes"
	"encoding/json"
)

// AttributeType is the NGSI-LD wrapper kind of an attribute.
type AttributeType string

const (
	PropertyType    AttributeType = "Property"
	GeoPropertyType AttributeType = "GeoProperty"
)

// Reserved keys of a normalized entity document.
const (
	KeyID      = "id"
	KeyType    = "type"
	KeyContext = "@context"
)

// Attribute is a normalized NGSI-LD attribute: {"type": ..., "value": ...}.
type Attribute struct {
	Type  AttributeType `json:"type"`
	Value any           `json:"value"`
}

// DateTime is the JSON-LD typed literal used for timestamps.
type DateTime struct {
	Type  string `json:"@type"`
	Value string `json:"@value"`
}

// Point is a GeoJSON point. Coordinates are [longitude, latitude].
type Point struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewProperty wraps a scalar value.
func NewProperty(value any) Attribute {
	return Attribute{Type: PropertyType, Value: value}
}

// NewDateTimeProperty wraps an ISO-8601 string as a DateTime literal.
func NewDateTimeProperty(value string) Attribute {
	return Attribute{Type: PropertyType, Value: DateTime{Type: "DateTime", Value: value}}
}

// NewGeoPoint builds a GeoProperty from a latitude/longitude pair.
func NewGeoPoint(lat, lon float64) Attribute {
	return Attribute{
		Type:  GeoPropertyType,
		Value: Point{Type: "Point", Coordinates: []float64{lon, lat}},
	}
}

// Entity is the Entity Record sent to the broker for one CSV row.
type Entity struct {
	ID         string
	Type       string
	Context    []string
	Attributes map[string]Attribute
}

// NewEntity creates an entity with a single @context URL and no attributes.
func NewEntity(id, entityType, contextURL string) *Entity {
	return &Entity{
		ID:         id,
		Type:       entityType,
		Context:    []string{contextURL},
		Attributes: make(map[string]Attribute),
	}
}

// Set attaches (or replaces) a named attribute.
func (e *Entity) Set(name string, attr Attribute) {
	if e.Attributes == nil {
		e.Attributes = make(map[string]Attribute)
	}
	e.Attributes[name] = attr
}

// Fragment returns the update body for the entity: everything but id and type.
func (e *Entity) Fragment() Fragment {
	return Fragment{Context: e.Context, Attributes: e.Attributes}
}

func (e *Entity) MarshalJSON() ([]byte, error) {
	doc := e.Fragment().document()
	doc[KeyID] = e.ID
	doc[KeyType] = e.Type
	return encodeDocument(doc)
}

// Fragment is a partial entity document used by the attrs update endpoint.
type Fragment struct {
	Context    []string
	Attributes map[string]Attribute
}

func (f Fragment) MarshalJSON() ([]byte, error) {
	return encodeDocument(f.document())
}

func (f Fragment) document() map[string]any {
	doc := make(map[string]any, len(f.Attributes)+3)
	for name, attr := range f.Attributes {
		doc[name] = attr
	}
	if len(f.Context) > 0 {
		doc[KeyContext] = f.Context
	}
	return doc
}

// encodeDocument marshals with sorted keys and without HTML escaping so the
// same attribute always produces the same bytes.
func encodeDocument(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
