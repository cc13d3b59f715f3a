package models

// ItemCreate represents the request body for creating an item
type ItemCreate struct {
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price" binding:"required,gt=0"` // Pointer so a missing price is told apart from 0
}
