/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/sematx/opendata-seed/internal/core/domain"
)

const (
	columnID         = "id"
	columnType       = "type"
	columnObservedAt = "observedAt"
	columnLocation   = "location"

	attrDateObserved = "dateObserved"
)

// Columns consumed by dedicated handling and never copied as attributes.
var reservedColumns = map[string]bool{
	columnID:          true,
	columnType:        true,
	columnObservedAt:  true,
	domain.KeyContext: true,
}

// RowToEntity converts one CSV record of the given source type into a
// normalized entity. Columns are visited in header order, so when two columns
// resolve to the same attribute the later one wins. Records shorter than the
// header leave the missing columns absent. It returns false when the row has
// no id. Malformed values never fail the row: bad locations are dropped and
// unparseable numbers stay strings.
func RowToEntity(header, record []string, sourceType string) (*domain.Entity, bool) {
	columns, values := orderedRow(header, record)

	id := strings.TrimSpace(values[columnID])
	if id == "" {
		return nil, false
	}

	entity := domain.NewEntity(id, domain.ResolveEntityType(sourceType), domain.ResolveContext(sourceType))

	if observed := strings.TrimSpace(values[columnObservedAt]); observed != "" {
		entity.Set(attrDateObserved, domain.NewDateTimeProperty(observed))
	}

	for _, column := range columns {
		if reservedColumns[column] {
			continue
		}
		value := strings.TrimSpace(values[column])
		if value == "" {
			continue
		}

		if column == columnLocation {
			if geo, ok := parseLocation(value); ok {
				entity.Set(columnLocation, geo)
			}
			continue
		}

		entity.Set(domain.ResolveAttribute(sourceType, column), domain.NewProperty(parseValue(value)))
	}

	return entity, true
}

// orderedRow pairs header and record. A repeated header name keeps its first
// position and its last value; values past the end of the record are absent.
func orderedRow(header, record []string) ([]string, map[string]string) {
	columns := make([]string, 0, len(header))
	values := make(map[string]string, len(header))
	for i, column := range header {
		if i >= len(record) {
			break
		}
		if _, seen := values[column]; !seen {
			columns = append(columns, column)
		}
		values[column] = record[i]
	}
	return columns, values
}

// parseValue infers a scalar from a trimmed, non-empty CSV value:
// bool, then float (if it has a decimal point), then int, else string.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}

	if strings.Contains(value, ".") {
		if f, err := strconv.ParseFloat(value, 64); err == nil && isFinite(f) {
			return f
		}
		return value
	}

	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	return value
}

// parseLocation reads a "lat,lon" pair into a GeoJSON point property.
// Polygons, line strings and anything that is not exactly two numbers are
// rejected.
func parseLocation(value string) (domain.Attribute, bool) {
	if strings.Count(value, ",") != 1 ||
		strings.Contains(value, "Polygon") ||
		strings.Contains(value, "LineString") {
		return domain.Attribute{}, false
	}

	parts := strings.Split(strings.ReplaceAll(value, `"`, ""), ",")
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || !isFinite(lat) {
		return domain.Attribute{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || !isFinite(lon) {
		return domain.Attribute{}, false
	}

	return domain.NewGeoPoint(lat, lon), true
}

// JSON cannot carry NaN or Inf.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
