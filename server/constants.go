package server

const (
	// MethodAll registers a route for every HTTP method.
	MethodAll = "ALL"

	// BodyKey is the echo context key holding the decoded JSON request body.
	BodyKey = "nuxum.body"

	// HeaderXTraceID exposes the OpenTelemetry trace ID of the request.
	HeaderXTraceID = "X-Trace-ID"

	// MessageNotFound is returned for requests that match no route.
	MessageNotFound = "Not Found"

	// MessageInvalidJSON is returned when a JSON body cannot be decoded.
	MessageInvalidJSON = "Invalid JSON body"
)
