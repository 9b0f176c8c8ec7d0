package handler

// ErrorResponse is the error envelope returned on all 4xx/5xx responses.
// Error carries the underlying cause when it is safe or configured to be
// shown.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
