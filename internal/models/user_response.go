package models

import "starter-api/internal/entities"

// UserRead is the public view of a user. The password hash is never part of it.
type UserRead struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func NewUserRead(u entities.User) UserRead {
	return UserRead{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func NewUserReads(users []entities.User) []UserRead {
	out := make([]UserRead, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserRead(u))
	}
	return out
}
