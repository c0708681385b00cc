package model

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message kinds. An empty kind means plain text.
const (
	KindMap   = "map"
	KindChart = "chart"
	KindTable = "table"
)

// ChatMessage is one renderable entry in a conversation. Exactly one of the
// kind payloads is set, matching Kind; content is always populated so every
// message has a textual fallback.
type ChatMessage struct {
	ID           string         `json:"id"`
	Role         string         `json:"role"`
	Content      string         `json:"content"`
	Kind         string         `json:"kind,omitempty"`
	Map          *MapPayload    `json:"map,omitempty"`
	Chart        *ChartPayload  `json:"chart,omitempty"`
	Table        *TablePayload  `json:"table,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	FullResponse *QueryResponse `json:"full_response,omitempty"`
}

// MapPayload centers a map over the averaged coordinates of its points.
type MapPayload struct {
	Lat    float64    `json:"lat"`
	Lng    float64    `json:"lng"`
	Zoom   int        `json:"zoom"`
	Points []MapPoint `json:"points"`
}

// MapPoint is a single plotted location. Summary keeps the source row for
// popups.
type MapPoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Summary Row     `json:"summary"`
}

// ChartPayload is an ordered x/y series with a chart type tag.
type ChartPayload struct {
	Type string        `json:"type"`
	Data []SeriesPoint `json:"data"`
}

// SeriesPoint is one chart sample. X may be a number (including epoch
// seconds converted from date strings) or a string category.
type SeriesPoint struct {
	X any `json:"time"`
	Y any `json:"value"`
}

// TablePayload is a column-ordered grid.
type TablePayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
