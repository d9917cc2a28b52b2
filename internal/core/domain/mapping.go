/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package domain

// CoreContext is used when a source type has no domain-specific context.
const CoreContext = "https://uri.etsi.org/ngsi-ld/v1/ngsi-ld-core-context.jsonld"

const (
	environmentContext    = "https://smart-data-models.github.io/dataModel.Environment/context.jsonld"
	weatherContext        = "https://smart-data-models.github.io/dataModel.Weather/context.jsonld"
	transportationContext = "https://smart-data-models.github.io/dataModel.Transportation/context.jsonld"
	buildingContext       = "https://smart-data-models.github.io/dataModel.Building/context.jsonld"
)

// The tables below are keyed by logical source type (CSV base name).
// They are read-only; callers go through the Resolve* helpers.

var contextTable = map[string]string{
	"AirQualityObserved":  environmentContext,
	"WeatherObserved":     weatherContext,
	"WeatherAlert":        weatherContext,
	"TrafficFlowObserved": transportationContext,
	"FloodSensor":         environmentContext,
	"FloodZone":           environmentContext,
	"EmergencyVehicle":    transportationContext,
	"MedicalFacility":     buildingContext,
}

var typeTable = map[string]string{
	"AirQualityObserved":  "AirQualityObserved",
	"WeatherObserved":     "WeatherObserved",
	"WeatherAlert":        "WeatherAlert",
	"TrafficFlowObserved": "TrafficFlowObserved",
	"FloodSensor":         "FloodMonitoring",
	"FloodZone":           "FloodMonitoring",
	"EmergencyVehicle":    "Vehicle",
	"MedicalFacility":     "Building",
}

// Column -> attribute renames, as published with the seed data set.
// Some targets (FloodZone.affectedPopulation -> stationID) are approximate
// and kept as-is.
var attributeTable = map[string]map[string]string{
	"AirQualityObserved": {
		"pm25":        "pm25",
		"pm10":        "pm10",
		"no2":         "no2",
		"so2":         "so2",
		"co":          "co",
		"o3":          "o3",
		"aqi":         "airQualityIndex",
		"aqiCategory": "airQualityLevel",
	},
	"WeatherObserved": {
		"temperature":         "temperature",
		"humidity":            "relativeHumidity",
		"windSpeed":           "windSpeed",
		"windDirection":       "windDirection",
		"atmosphericPressure": "atmosphericPressure",
		"precipitation":       "precipitation",
	},
	"WeatherAlert": {
		"incidentType": "subCategory",
		"severity":     "severity",
		"status":       "category",
	},
	"TrafficFlowObserved": {
		"averageVehicleSpeed": "averageVehicleSpeed",
		"vehicleCount":        "intensity",
		"congestionIndex":     "occupancy",
		"roadName":            "laneId",
	},
	"FloodSensor": {
		"waterLevel":   "currentLevel",
		"batteryLevel": "measuredDistance",
	},
	"FloodZone": {
		"waterDepth":         "currentLevel",
		"floodSeverity":      "floodLevelStatus",
		"affectedPopulation": "stationID",
		"areaType":           "alertLevel",
		"isActive":           "dangerLevel",
	},
	"EmergencyVehicle": {
		"vehicleType": "vehicleType",
		"speed":       "speed",
		"heading":     "bearing",
		"status":      "serviceStatus",
	},
	"MedicalFacility": {
		"bedCapacity":   "floorsAboveGround",
		"availableBeds": "floorsBelowGround",
	},
}

// ResolveEntityType returns the NGSI-LD type for a source type, or the
// source type itself when it is not in the table.
func ResolveEntityType(sourceType string) string {
	if t, ok := typeTable[sourceType]; ok {
		return t
	}
	return sourceType
}

// ResolveContext returns the @context URL for a source type, falling back
// to the NGSI-LD core context.
func ResolveContext(sourceType string) string {
	if c, ok := contextTable[sourceType]; ok {
		return c
	}
	return CoreContext
}

// ResolveAttribute renames a CSV column for a source type. Unknown columns
// and unknown source types pass through unchanged.
func ResolveAttribute(sourceType, column string) string {
	if name, ok := attributeTable[sourceType][column]; ok {
		return name
	}
	return column
}

// IsKnownSourceType reports whether the source type has mapping entries.
func IsKnownSourceType(sourceType string) bool {
	_, ok := typeTable[sourceType]
	return ok
}
