package entities

// User represents a registered account
type User struct {
	ID             uint
	Email          string
	FirstName      *string // Pointer allows nil (name not provided)
	LastName       *string
	HashedPassword string
}
