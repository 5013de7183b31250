package dto

// Envelope statuses
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ErrorData is the payload of a FAILED response. Errors holds
// "path - message" entries for rejected fields.
type ErrorData struct {
	Message   string   `json:"message"`
	Code      string   `json:"code,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

// NewErrorResponse creates a failed response. Domain codes are normalized.
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Status: StatusFailed,
		Data: ErrorData{
			Message:   message,
			Code:      NormalizeErrorCode(code),
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse creates a failed response listing field errors
func NewValidationErrorResponse(message, requestID string, errors []string) Response {
	return Response{
		Status: StatusFailed,
		Data: ErrorData{
			Message:   message,
			Code:      ErrCodeValidation,
			Errors:    errors,
			RequestID: requestID,
		},
	}
}
