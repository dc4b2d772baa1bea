package errors

// ErrorResponse is the JSON error body returned by the API. Message and
// Redirect are optional; Redirect tells the SPA where to send the user after
// an authentication failure.
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// New builds a bare error response.
func New(err string) ErrorResponse {
	return ErrorResponse{Error: err}
}

// WithMessage builds an error response with a human-readable message.
func WithMessage(err, message string) ErrorResponse {
	return ErrorResponse{Error: err, Message: message}
}

// WithRedirect builds an error response that points the client at a page,
// used by the session gate to bounce unauthenticated users to the login page.
func WithRedirect(err, redirect string) ErrorResponse {
	return ErrorResponse{Error: err, Redirect: redirect}
}
