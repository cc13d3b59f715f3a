package models

import "starter-api/internal/entities"

// ItemRead is the public view of an item
type ItemRead struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
}

func NewItemRead(i entities.Item) ItemRead {
	return ItemRead{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
	}
}

func NewItemReads(items []entities.Item) []ItemRead {
	out := make([]ItemRead, 0, len(items))
	for _, i := range items {
		out = append(out, NewItemRead(i))
	}
	return out
}
