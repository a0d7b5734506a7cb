package common

// StatusResponse is the envelope the relay answers with on failure.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ConfigResponse reports whether the outbound mailbox is configured without
// revealing the credentials themselves.
type ConfigResponse struct {
	Configured bool   `json:"configured"`
	User       string `json:"user"`
	Password   string `json:"password"`
}

// Values used by ConfigResponse
const (
	ValueSet    = "Set"
	ValueNotSet = "Not set"
)

// NewErrorResponse creates a failure response. The raw error is only
// included when debug is set.
func NewErrorResponse(message string, err error, debug bool) StatusResponse {
	resp := StatusResponse{
		Success: false,
		Message: message,
	}
	if debug && err != nil {
		resp.Error = err.Error()
	}
	return resp
}
