package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voidchat/internal/model"
)

func decodeRows(t *testing.T, raw string) []model.Row {
	t.Helper()
	var rows []model.Row
	require.NoError(t, json.Unmarshal([]byte(raw), &rows))
	return rows
}

func TestClassifyVisualizationToChart(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeVisualization,
		Reasoning:    "Comparing pressure against temperature.",
		Data: decodeRows(t, `[
			{"pressure": 1013, "temperature": 15},
			{"pressure": 1010, "temperature": 16}
		]`),
	}

	msg := Classify(resp, "compare pressure vs temperature in a line chart")

	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.Equal(t, model.KindChart, msg.Kind)
	require.NotNil(t, msg.Chart)
	assert.Equal(t, "line", msg.Chart.Type)
	assert.Len(t, msg.Chart.Data, 2)
	assert.Equal(t, resp.Reasoning, msg.Content)
	assert.NotEmpty(t, msg.ID)
	assert.Same(t, resp, msg.FullResponse)
}

func TestClassifyMapResponse(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeMap,
		Reasoning:    "Floats near the equator.",
		Data: decodeRows(t, `[
			{"latitude": 1.2, "longitude": 80.1},
			{"latitude": null, "longitude": 81.0}
		]`),
	}

	msg := Classify(resp, "show me ocean data near the equator")

	assert.Equal(t, model.KindMap, msg.Kind)
	require.NotNil(t, msg.Map)
	require.Len(t, msg.Map.Points, 1)
	assert.Equal(t, 1.2, msg.Map.Points[0].Lat)
	assert.Equal(t, 80.1, msg.Map.Points[0].Lng)
	// Center equals the single valid point.
	assert.Equal(t, 1.2, msg.Map.Lat)
	assert.Equal(t, 80.1, msg.Map.Lng)
	assert.Equal(t, 2, msg.Map.Zoom)
}

func TestClassifyMapCenterIsMean(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeMap,
		Reasoning:    "Two floats.",
		Data: decodeRows(t, `[
			{"latitude": 10.0, "longitude": 70.0},
			{"latitude": 20.0, "longitude": 80.0}
		]`),
	}

	msg := Classify(resp, "map the floats")
	require.NotNil(t, msg.Map)
	assert.InDelta(t, 15.0, msg.Map.Lat, 1e-9)
	assert.InDelta(t, 75.0, msg.Map.Lng, 1e-9)
}

func TestClassifyMapNoValidPointsUsesDefaultCenter(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeMap,
		Reasoning:    "Nothing plottable.",
		Data:         decodeRows(t, `[{"latitude": null, "longitude": null}, {"station": "A"}]`),
	}

	msg := Classify(resp, "map it")
	require.NotNil(t, msg.Map)
	assert.Empty(t, msg.Map.Points)
	assert.Equal(t, 20.0, msg.Map.Lat)
	assert.Equal(t, 72.0, msg.Map.Lng)
}

func TestClassifyMapViaVisualizationHint(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType:      model.ResponseTypeDataQuery,
		VisualizationType: "map",
		Reasoning:         "Locations.",
		Data:              decodeRows(t, `[{"latitude": 5.0, "longitude": 60.0}]`),
	}

	msg := Classify(resp, "where are the floats")
	assert.Equal(t, model.KindMap, msg.Kind)
}

func TestClassifyDataQueryToTable(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeDataQuery,
		Reasoning:    "One station found.",
		Data:         decodeRows(t, `[{"station": "A", "depth": 10}]`),
	}

	msg := Classify(resp, "list stations")

	assert.Equal(t, model.KindTable, msg.Kind)
	require.NotNil(t, msg.Table)
	assert.Equal(t, []string{"station", "depth"}, msg.Table.Columns)
	require.Len(t, msg.Table.Rows, 1)
	assert.Equal(t, []any{"A", 10.0}, msg.Table.Rows[0])
	assert.Nil(t, msg.Chart)
	assert.Nil(t, msg.Map)
}

func TestClassifyDataQuerySinglePointFallsBackToTable(t *testing.T) {
	// A chart instruction in the query, but only one normalized point:
	// data queries require at least two to chart.
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeDataQuery,
		Reasoning:    "One reading.",
		Data:         decodeRows(t, `[{"pressure": 1013, "temperature": 15}]`),
	}

	msg := Classify(resp, "plot pressure vs temperature")
	assert.Equal(t, model.KindTable, msg.Kind)
	require.NotNil(t, msg.Table)
}

func TestClassifyDataQueryChartsWithIntent(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeDataQuery,
		Reasoning:    "Readings.",
		Data: decodeRows(t, `[
			{"pressure": 1013, "temperature": 15},
			{"pressure": 1010, "temperature": 16}
		]`),
	}

	msg := Classify(resp, "plot pressure vs temperature")
	assert.Equal(t, model.KindChart, msg.Kind)
	require.NotNil(t, msg.Chart)
	assert.Equal(t, "line", msg.Chart.Type)
}

func TestClassifyVisualizationSinglePointStillCharts(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeVisualization,
		Reasoning:    "One reading.",
		Data:         decodeRows(t, `[{"pressure": 1013, "temperature": 15}]`),
	}

	msg := Classify(resp, "plot pressure vs temperature")
	assert.Equal(t, model.KindChart, msg.Kind)
}

func TestClassifyConversational(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeConversational,
		Reasoning:    "fallback reasoning",
		Data:         decodeRows(t, `[{"message": "Hello!"}]`),
	}

	msg := Classify(resp, "hi")

	assert.Equal(t, "", msg.Kind)
	assert.Equal(t, "Hello!", msg.Content)
	assert.Nil(t, msg.Map)
	assert.Nil(t, msg.Chart)
	assert.Nil(t, msg.Table)
}

func TestClassifyConversationalWithoutMessageField(t *testing.T) {
	resp := &model.QueryResponse{
		ResponseType: model.ResponseTypeHelp,
		Reasoning:    "Here is how to use Void.",
		Data:         decodeRows(t, `[{"topic": "usage"}]`),
	}

	msg := Classify(resp, "help")
	assert.Equal(t, "", msg.Kind)
	assert.Equal(t, "Here is how to use Void.", msg.Content)
}

func TestClassifyEmptyDataFallsBackToText(t *testing.T) {
	for _, rt := range []string{
		model.ResponseTypeDataQuery,
		model.ResponseTypeVisualization,
		model.ResponseTypeConversational,
		"something_unknown",
		"",
	} {
		resp := &model.QueryResponse{
			ResponseType: rt,
			Reasoning:    "no rows",
		}

		msg := Classify(resp, "anything")
		assert.Equal(t, "", msg.Kind, "response_type=%s", rt)
		assert.Equal(t, "no rows", msg.Content, "response_type=%s", rt)
	}
}

func TestClassifyNeverPanicsOnMalformedRows(t *testing.T) {
	rows := decodeRows(t, `[
		{"latitude": "not-a-number", "longitude": 80.0},
		{},
		{"value": null}
	]`)

	for _, rt := range []string{
		model.ResponseTypeMap,
		model.ResponseTypeVisualization,
		model.ResponseTypeDataQuery,
		model.ResponseTypeConversational,
	} {
		resp := &model.QueryResponse{ResponseType: rt, Reasoning: "r", Data: rows}
		assert.NotPanics(t, func() {
			Classify(resp, "plot latitude vs longitude")
		}, "response_type=%s", rt)
	}
}

func TestUserMessage(t *testing.T) {
	msg := UserMessage("hello")
	assert.Equal(t, model.RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, "", msg.Kind)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
}
