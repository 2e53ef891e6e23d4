package types

// CPUResponse is the body of a successful GET /cpu response.
type CPUResponse struct {
	Message string `json:"message"`
}

// IOResponse is the body of a successful GET /io response.
type IOResponse struct {
	Status       string `json:"status"`
	LinesWritten int    `json:"lines_written"`
}

// RequestIDHeader is the header carrying the request ID in both directions.
const RequestIDHeader = "X-Request-Id"
