package errors

import "fmt"

// ErrorHandler turns failed operations into user-visible messages.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleOperationError logs err and returns the message shown to the user.
func (h *ErrorHandler) HandleOperationError(operation string, err error) string {
	stdErr := Normalize(err)
	if stdErr == nil {
		return ""
	}

	if h.logger != nil {
		h.logger.Error("operation failed", map[string]interface{}{
			"operation":     operation,
			"errorCode":     string(stdErr.Code),
			"message":       stdErr.Message,
			"details":       stdErr.Details,
			"retryable":     stdErr.Retryable,
			"errorCategory": GetErrorCategory(stdErr.Code),
		})
	}

	return UserMessage(stdErr)
}

// UserMessage renders err for display. Server and validation messages are
// shown verbatim.
func UserMessage(err error) string {
	stdErr := Normalize(err)
	if stdErr == nil {
		return ""
	}

	switch stdErr.Code {
	case ErrCodeServerRejected, ErrCodeValidationFailed, ErrCodeTransport,
		ErrCodeMissingPrecondition, ErrCodeSchemaNotFound, ErrCodeNotificationNotFound:
		return stdErr.Message
	default:
		if stdErr.Details != "" {
			return fmt.Sprintf("%s: %s", stdErr.Message, stdErr.Details)
		}
		return stdErr.Message
	}
}

// GetErrorCategory maps a code onto the four-way taxonomy.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeTransport, ErrCodeDecodeFailed:
		return "TRANSPORT"
	case ErrCodeValidationFailed, ErrCodeSchemaNotFound:
		return "VALIDATION"
	case ErrCodeServerRejected, ErrCodeNotificationNotFound:
		return "LOGICAL"
	case ErrCodeMissingPrecondition:
		return "PRECONDITION"
	default:
		return "OTHER"
	}
}
