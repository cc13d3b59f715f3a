package entities

// Item represents a catalog item
type Item struct {
	ID          uint
	Name        string
	Description *string // Pointer allows nil (no description)
	Price       float64
}
