package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowPreservesWireOrder(t *testing.T) {
	// Key order deliberately non-alphabetical.
	input := `{"time":"2024-01-01","temperature":12.5,"depth":100,"anomaly":null}`

	var row Row
	require.NoError(t, json.Unmarshal([]byte(input), &row))

	assert.Equal(t, []string{"time", "temperature", "depth", "anomaly"}, row.Keys())

	v, ok := row.Get("temperature")
	require.True(t, ok)
	assert.Equal(t, 12.5, v)

	v, ok = row.Get("anomaly")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestRowRoundTripsOrdered(t *testing.T) {
	input := `{"z":1,"a":2,"m":3}`

	var row Row
	require.NoError(t, json.Unmarshal([]byte(input), &row))

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestRowRejectsNonObject(t *testing.T) {
	var row Row
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &row))
}

func TestRowNestedValues(t *testing.T) {
	input := `{"station":"INCOIS-7","position":{"lat":12.3,"lng":74.8}}`

	var row Row
	require.NoError(t, json.Unmarshal([]byte(input), &row))

	pos, ok := row.Get("position")
	require.True(t, ok)
	nested, ok := pos.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 12.3, nested["lat"])
}

func TestNewRowKeepsPairOrder(t *testing.T) {
	row := NewRow("latitude", 12.3, "longitude", 74.8, "latitude", 99.9)

	assert.Equal(t, []string{"latitude", "longitude"}, row.Keys())
	v, _ := row.Get("latitude")
	assert.Equal(t, 99.9, v) // later pair wins, position stays
	assert.Equal(t, []any{99.9, 74.8}, row.Values())
}
