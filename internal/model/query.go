package model

// Response types the backend is known to emit. The field is an open string:
// unknown values must degrade to plain text, never error.
const (
	ResponseTypeDataQuery      = "data_query"
	ResponseTypeVisualization  = "visualization"
	ResponseTypeMap            = "map"
	ResponseTypeConversational = "conversational"
	ResponseTypeHelp           = "help"
)

// QueryRequest is the body for POST /api/v1/query.
type QueryRequest struct {
	Query          string `json:"query"`
	SessionID      string `json:"session_id,omitempty"`
	IncludeContext bool   `json:"include_context,omitempty"`
	MaxResults     int    `json:"max_results,omitempty"`
}

// QueryResponse is the backend's answer to a natural-language query.
// The shape is trusted, the content is not.
type QueryResponse struct {
	Success           bool    `json:"success"`
	Data              []Row   `json:"data"`
	SQLQuery          string  `json:"sql_query,omitempty"`
	RowCount          int     `json:"row_count,omitempty"`
	ConfidenceScore   float64 `json:"confidence_score,omitempty"`
	ExecutionTime     float64 `json:"execution_time,omitempty"`
	Reasoning         string  `json:"reasoning"`
	ResponseType      string  `json:"response_type"`
	VisualizationType string  `json:"visualization_type,omitempty"`
	ErrorMessage      string  `json:"error_message,omitempty"`
}

// APIError is the error envelope the gateway returns to the browser.
type APIError struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}
