package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"voidchat/internal/model"
)

// Default map center when a map response has no usable coordinates
// (Arabian Sea, matching the data the backend serves).
const (
	defaultMapLat  = 20.0
	defaultMapLng  = 72.0
	defaultMapZoom = 2
)

// Classify turns a backend response plus the user's original query into one
// renderable assistant message. It never fails: malformed rows degrade to
// coarser renderings (chart to table, table to text) and unknown response
// types fall back to plain text built from the reasoning.
func Classify(resp *model.QueryResponse, originalQuery string) model.ChatMessage {
	msg := model.ChatMessage{
		ID:           uuid.NewString(),
		Role:         model.RoleAssistant,
		Content:      resp.Reasoning,
		Timestamp:    time.Now(),
		FullResponse: resp,
	}

	switch {
	case resp.ResponseType == model.ResponseTypeMap || resp.VisualizationType == "map":
		msg.Kind = model.KindMap
		msg.Map = buildMap(resp.Data)

	case resp.ResponseType == model.ResponseTypeVisualization && len(resp.Data) > 0:
		intent := ParseChartIntent(originalQuery)
		chart := buildChart(resp, intent)
		// A visualization response charts even a single point.
		if len(chart.Data) >= 1 {
			msg.Kind = model.KindChart
			msg.Chart = chart
		} else {
			msg.Kind = model.KindTable
			msg.Table = buildTable(resp.Data)
		}

	case resp.ResponseType == model.ResponseTypeDataQuery && len(resp.Data) > 0:
		intent := ParseChartIntent(originalQuery)
		if resp.VisualizationType != "" || intent != nil {
			chart := buildChart(resp, intent)
			// A lone point is not really chartable for a data query;
			// prefer the table.
			if len(chart.Data) > 1 {
				msg.Kind = model.KindChart
				msg.Chart = chart
			} else {
				msg.Kind = model.KindTable
				msg.Table = buildTable(resp.Data)
			}
		} else {
			msg.Kind = model.KindTable
			msg.Table = buildTable(resp.Data)
		}

	case (resp.ResponseType == model.ResponseTypeConversational ||
		resp.ResponseType == model.ResponseTypeHelp) && len(resp.Data) > 0:
		if v, ok := resp.Data[0].Get("message"); ok {
			if s, ok := v.(string); ok && s != "" {
				msg.Content = s
			}
		}
	}

	return msg
}

// UserMessage builds the plain-text message recorded for user input.
func UserMessage(text string) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}
}

func buildChart(resp *model.QueryResponse, intent *ChartIntent) *model.ChartPayload {
	var xField, yField string
	chartType := defaultChartType
	if resp.VisualizationType != "" {
		chartType = resp.VisualizationType
	}
	if intent != nil {
		xField, yField = intent.XField, intent.YField
		chartType = intent.ChartType
	}

	return &model.ChartPayload{
		Type: chartType,
		Data: NormalizeSeries(resp.Data, xField, yField),
	}
}

func buildTable(rows []model.Row) *model.TablePayload {
	table := &model.TablePayload{}
	if len(rows) == 0 {
		return table
	}
	table.Columns = rows[0].Keys()
	for _, row := range rows {
		table.Rows = append(table.Rows, row.Values())
	}
	return table
}

// buildMap extracts one point per row carrying both coordinates and centers
// on their mean. Rows with a missing or null coordinate are excluded before
// averaging so the center is always finite.
func buildMap(rows []model.Row) *model.MapPayload {
	points := make([]model.MapPoint, 0, len(rows))
	for _, row := range rows {
		lat, latOK := coordinate(row, "latitude")
		lng, lngOK := coordinate(row, "longitude")
		if !latOK || !lngOK {
			continue
		}
		points = append(points, model.MapPoint{Lat: lat, Lng: lng, Summary: row})
	}

	lat, lng := defaultMapLat, defaultMapLng
	if len(points) > 0 {
		var sumLat, sumLng float64
		for _, p := range points {
			sumLat += p.Lat
			sumLng += p.Lng
		}
		lat = sumLat / float64(len(points))
		lng = sumLng / float64(len(points))
	}

	return &model.MapPayload{
		Lat:    lat,
		Lng:    lng,
		Zoom:   defaultMapZoom,
		Points: points,
	}
}

func coordinate(row model.Row, field string) (float64, bool) {
	v, ok := row.Get(field)
	if !ok || v == nil {
		return 0, false
	}
	if f, ok := asFloat(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
