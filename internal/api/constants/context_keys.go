package constants

// Context keys set by middleware
const (
	ContextKeyRequestID = "RequestID"
)

// HeaderRequestID carries the request ID in and out of the relay.
const HeaderRequestID = "X-Request-ID"
