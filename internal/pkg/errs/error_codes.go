/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that a request or event body was not valid JSON.
	ErrInvalidJSONFormat = 1002

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1003
)

// 2xxx: Session and Room Errors
const (
	// ErrUnsupportedEvent indicates that a connection sent an event type the server does not handle.
	ErrUnsupportedEvent = 2001

	// ErrEventPayloadInvalid indicates that an event payload failed to decode.
	ErrEventPayloadInvalid = 2002
)

// 4xxx: External Dependency Errors
const (
	// ErrExecutionFailed indicates that the remote code execution provider
	// was unreachable or returned an unusable response.
	ErrExecutionFailed = 4001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000
)
