package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchFieldExact(t *testing.T) {
	fields := []string{"pressure", "Temperature", "depth"}

	assert.Equal(t, "pressure", MatchField("pressure", fields))
	assert.Equal(t, "Temperature", MatchField("temperature", fields))
}

func TestMatchFieldIdempotent(t *testing.T) {
	fields := []string{"sea_surface_temp", "pressure_hpa"}

	first := MatchField("temp", fields)
	assert.Equal(t, "sea_surface_temp", first)
	// Matching the resolved name again returns the same name.
	assert.Equal(t, first, MatchField(first, fields))
}

func TestMatchFieldSubstring(t *testing.T) {
	fields := []string{"water_temperature_c", "station_id"}

	assert.Equal(t, "water_temperature_c", MatchField("temperature", fields))
}

func TestMatchFieldSynonymExpansion(t *testing.T) {
	// Canonical term resolves through its synonyms.
	assert.Equal(t, "temp_c", MatchField("temperature", []string{"temp_c", "id"}))
	assert.Equal(t, "psu_value", MatchField("salinity", []string{"psu_value"}))
}

func TestMatchFieldReverseSynonym(t *testing.T) {
	// A synonym resolves back to a field named after the canonical term.
	assert.Equal(t, "water_temperature", MatchField("celsius", []string{"water_temperature", "id"}))
	assert.Equal(t, "longitude_deg", MatchField("lng", []string{"latitude_deg", "longitude_deg"}))
}

func TestMatchFieldNoMatch(t *testing.T) {
	assert.Equal(t, "", MatchField("velocity", []string{"station", "count"}))
	assert.Equal(t, "", MatchField("", []string{"station"}))
	assert.Equal(t, "", MatchField("temperature", nil))
}

func TestMatchFieldShortSynonymIsGreedy(t *testing.T) {
	// The "t" synonym for temperature matches any field containing the
	// letter, so lookups prefer fields listed earlier.
	assert.Equal(t, "station", MatchField("temperature", []string{"station", "count"}))
}
