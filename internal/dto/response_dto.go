package dto

// SuccessResponse is the uniform success envelope. Results is only present on
// the submission endpoint, where the portal frontend displays how many answers
// were actually persisted.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the uniform error envelope. Errors carries per-field
// validation messages when the failure came from request binding.
type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
