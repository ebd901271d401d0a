package errors

// Error codes for standardized error responses
const (
	ErrCodeInvalidRequest          = "invalid_request"
	ErrCodeGenerationNotConfigured = "generation_not_configured"
	ErrCodeInternalError           = "internal_error"
)
