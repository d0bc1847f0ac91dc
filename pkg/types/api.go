package types

// ErrorPayload is the body of the "data" part whenever a request fails.
type ErrorPayload struct {
	// Error message.
	// example: At least one candidate label required for zero-shot
	Error string `json:"error" example:"At least one candidate label required for zero-shot"`
}

// ErrorResponse is a consistent JSON error payload for transport-level failures.
type ErrorResponse struct {
	// Error message.
	// example: request body too large
	Error string `json:"error" example:"request body too large"`
	// HTTP status code.
	// example: 413
	Code int `json:"code" example:"413"`
}

// QuestionAnsweringInput is the decoded request for extractive QA.
type QuestionAnsweringInput struct {
	// example: Where do I live?
	Question string `json:"question" example:"Where do I live?"`
	// example: My name is Sarah and I live in London.
	Context string `json:"context" example:"My name is Sarah and I live in London."`
}

// ZeroShotResult is the pipeline output for zero-shot classification.
// Labels and Scores are parallel and sorted by descending score.
type ZeroShotResult struct {
	Sequence string    `json:"sequence,omitempty"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Task served by this process.
	// example: zero-shot-classification
	Task string `json:"task" example:"zero-shot-classification"`
	// Model identifier.
	// example: facebook/bart-large-mnli
	Model string `json:"model" example:"facebook/bart-large-mnli"`
	// Model revision.
	// example: main
	Revision string `json:"revision" example:"main"`
	// Device placement string.
	// example: auto
	Device string `json:"device" example:"auto"`
	// Inference backend kind.
	// example: bridge
	Backend string `json:"backend" example:"bridge"`
	// Whether the pipeline finished initializing.
	Ready bool `json:"ready"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Requests dispatched to the task handler (warmups excluded).
	// example: 12
	RequestsTotal uint64 `json:"requests_total" example:"12"`
	// Requests answered with an error payload.
	// example: 1
	ErrorsTotal uint64 `json:"errors_total" example:"1"`
	// Warmup probes answered without inference.
	// example: 3
	WarmupsTotal uint64 `json:"warmups_total" example:"3"`
}
