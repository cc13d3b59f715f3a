package models

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Pagination binds the skip/limit query parameters shared by list endpoints
type Pagination struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=1,max=1000"`
}

// IDParam binds the :id path segment
type IDParam struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse is a plain informational body
type MessageResponse struct {
	Message string `json:"message"`
}
