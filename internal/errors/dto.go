package errors

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code,omitempty"`
	Display string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// CodeFromErr returns the machine readable code of the first sentinel the error is marked with
func CodeFromErr(err error) string {
	for e := range statusCodeMap {
		if Is(err, e) {
			return e.(*InternalError).Code
		}
	}
	return ErrCodeSystemError
}
