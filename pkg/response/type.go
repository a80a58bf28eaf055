package response

const (
	// MessageSuccess is the message for successful responses.
	MessageSuccess = "success"

	// DefaultErrorMessage hides internal failure detail from callers.
	DefaultErrorMessage = "internal server error"

	// InternalServerErrorCode marks unexpected failures.
	InternalServerErrorCode = 500
)

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}
