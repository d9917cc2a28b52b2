package service

import (
	"encoding/json"
	"testing"

	"github.com/sematx/opendata-seed/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// convert builds a header/record pair from alternating column, value
// arguments and runs it through RowToEntity.
func convert(sourceType string, pairs ...string) (*domain.Entity, bool) {
	var header, record []string
	for i := 0; i+1 < len(pairs); i += 2 {
		header = append(header, pairs[i])
		record = append(record, pairs[i+1])
	}
	return RowToEntity(header, record, sourceType)
}

func TestRowToEntity_MissingID(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{name: "No id column", row: []string{"pm25", "12"}},
		{name: "Empty id", row: []string{"id", "", "pm25", "12"}},
		{name: "Whitespace id", row: []string{"id", "   ", "pm25", "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, ok := convert("AirQualityObserved", tt.row...)
			assert.False(t, ok)
			assert.Nil(t, entity)
		})
	}
}

func TestRowToEntity_TypeAndContext(t *testing.T) {
	entity, ok := convert("FloodSensor", "id", " urn:ngsi-ld:FloodSensor:1 ")
	require.True(t, ok)

	assert.Equal(t, "urn:ngsi-ld:FloodSensor:1", entity.ID)
	assert.Equal(t, "FloodMonitoring", entity.Type)
	assert.Equal(t, []string{"https://smart-data-models.github.io/dataModel.Environment/context.jsonld"}, entity.Context)
	assert.Empty(t, entity.Attributes)
}

func TestRowToEntity_UnknownSourceType(t *testing.T) {
	entity, ok := convert("Streetlight", "id", "urn:x", "colour", "red")
	require.True(t, ok)

	assert.Equal(t, "Streetlight", entity.Type)
	assert.Equal(t, []string{domain.CoreContext}, entity.Context)
	assert.Equal(t, domain.NewProperty("red"), entity.Attributes["colour"])
}

func TestRowToEntity_Location(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected *domain.Point
	}{
		{name: "Lat lon pair", value: "10.5,106.7", expected: &domain.Point{Type: "Point", Coordinates: []float64{106.7, 10.5}}},
		{name: "Spaces and quotes", value: `"10.0, 106.0"`, expected: &domain.Point{Type: "Point", Coordinates: []float64{106.0, 10.0}}},
		{name: "Polygon", value: "Polygon((1 2, 3 4))"},
		{name: "LineString", value: "LineString,1"},
		{name: "Three parts", value: "1,2,3"},
		{name: "Single number", value: "10.5"},
		{name: "Not numbers", value: "north,east"},
		{name: "NaN", value: "NaN,1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, ok := convert("AirQualityObserved", "id", "urn:x", "location", tt.value)
			require.True(t, ok)

			attr, present := entity.Attributes["location"]
			if tt.expected == nil {
				assert.False(t, present)
				return
			}
			require.True(t, present)
			assert.Equal(t, domain.GeoPropertyType, attr.Type)
			assert.Equal(t, *tt.expected, attr.Value)
		})
	}
}

func TestRowToEntity_LocationGeoJSON(t *testing.T) {
	entity, ok := convert("AirQualityObserved", "id", "urn:x", "location", "10.5,106.7")
	require.True(t, ok)

	raw, err := json.Marshal(entity.Attributes["location"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"GeoProperty","value":{"type":"Point","coordinates":[106.7,10.5]}}`, string(raw))
}

func TestRowToEntity_ValueInference(t *testing.T) {
	tests := []struct {
		value    string
		expected any
	}{
		{"true", true},
		{"TRUE", true},
		{"False", false},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"42.5", 42.5},
		{" 12.3 ", 12.3},
		{"foo", "foo"},
		{"1.2.3", "1.2.3"},
		{"1e5", "1e5"},
		{"Good", "Good"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			entity, ok := convert("Unknown", "id", "urn:x", "reading", tt.value)
			require.True(t, ok)
			assert.Equal(t, domain.NewProperty(tt.expected), entity.Attributes["reading"])
		})
	}
}

func TestRowToEntity_RenamesAndReservedColumns(t *testing.T) {
	entity, ok := convert("AirQualityObserved",
		"id", "urn:ngsi-ld:AirQualityObserved:1",
		"type", "Ignored",
		"@context", "https://example.org/ignored.jsonld",
		"observedAt", " 2025-01-01T00:00:00Z ",
		"aqi", "87",
		"aqiCategory", "Moderate",
		"stationName", "District 1",
		"pm10", "   ",
		"no2", "",
	)
	require.True(t, ok)

	assert.Equal(t, "AirQualityObserved", entity.Type)
	assert.Equal(t, domain.NewDateTimeProperty("2025-01-01T00:00:00Z"), entity.Attributes["dateObserved"])
	assert.Equal(t, domain.NewProperty(int64(87)), entity.Attributes["airQualityIndex"])
	assert.Equal(t, domain.NewProperty("Moderate"), entity.Attributes["airQualityLevel"])
	assert.Equal(t, domain.NewProperty("District 1"), entity.Attributes["stationName"])

	for _, key := range []string{"id", "type", "@context", "observedAt", "aqi", "aqiCategory", "pm10", "no2"} {
		assert.NotContains(t, entity.Attributes, key)
	}
	assert.Len(t, entity.Attributes, 4)
}

func TestRowToEntity_PlaceholderMappingsPreserved(t *testing.T) {
	entity, ok := convert("FloodZone", "id", "urn:z", "affectedPopulation", "1200", "isActive", "true")
	require.True(t, ok)

	assert.Equal(t, domain.NewProperty(int64(1200)), entity.Attributes["stationID"])
	assert.Equal(t, domain.NewProperty(true), entity.Attributes["dangerLevel"])
}

func TestRowToEntity_UpdateFragmentKeepsAttributes(t *testing.T) {
	entity, ok := convert("AirQualityObserved",
		"id", "urn:x",
		"pm25", "12.3",
		"location", "10.0,106.0",
		"observedAt", "2025-01-01T00:00:00Z",
	)
	require.True(t, ok)

	full, err := json.Marshal(entity)
	require.NoError(t, err)
	fragment, err := json.Marshal(entity.Fragment())
	require.NoError(t, err)

	var fullDoc, fragmentDoc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(full, &fullDoc))
	require.NoError(t, json.Unmarshal(fragment, &fragmentDoc))

	assert.NotContains(t, fragmentDoc, "id")
	assert.NotContains(t, fragmentDoc, "type")
	assert.Len(t, fragmentDoc, len(fullDoc)-2)
	for key, value := range fragmentDoc {
		assert.Equal(t, string(fullDoc[key]), string(value), key)
	}
}

func TestRowToEntity_LaterColumnWinsOnRename(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		record   []string
		attr     string
		expected domain.Attribute
	}{
		{
			name:     "Renamed column before literal",
			header:   []string{"id", "waterDepth", "currentLevel"},
			record:   []string{"urn:f", "1", "2"},
			attr:     "currentLevel",
			expected: domain.NewProperty(int64(2)),
		},
		{
			name:     "Literal column before renamed",
			header:   []string{"id", "currentLevel", "waterDepth"},
			record:   []string{"urn:f", "1", "2"},
			attr:     "currentLevel",
			expected: domain.NewProperty(int64(2)),
		},
		{
			name:     "Literal dateObserved overrides observedAt",
			header:   []string{"id", "observedAt", "dateObserved"},
			record:   []string{"urn:f", "2025-01-01T00:00:00Z", "yesterday"},
			attr:     "dateObserved",
			expected: domain.NewProperty("yesterday"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, ok := RowToEntity(tt.header, tt.record, "FloodZone")
			require.True(t, ok)
			assert.Equal(t, tt.expected, entity.Attributes[tt.attr])
		})
	}
}

func TestRowToEntity_ShortRecordAndRepeatedHeader(t *testing.T) {
	entity, ok := RowToEntity(
		[]string{"id", "pm25", "pm25", "no2"},
		[]string{"urn:x", "1", "2"},
		"Unknown",
	)
	require.True(t, ok)

	assert.Equal(t, domain.NewProperty(int64(2)), entity.Attributes["pm25"])
	assert.NotContains(t, entity.Attributes, "no2")
}

func TestSourceType(t *testing.T) {
	assert.Equal(t, "AirQualityObserved", SourceType("/data/AirQualityObserved.csv"))
	assert.Equal(t, "FloodZone", SourceType("seed/2025/FloodZone.csv"))
	assert.Equal(t, "weather.v2", SourceType("weather.v2.csv"))
}
