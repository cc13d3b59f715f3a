package models

// UserCreate represents the request body for user registration
type UserCreate struct {
	Email     string  `json:"email" binding:"required,email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Password  string  `json:"password" binding:"required,min=6,max=72"`
}

// UserLogin represents the request body for verifying a user's password
type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailQuery binds GET /users/by-email?email=
type EmailQuery struct {
	Email string `form:"email" binding:"required,email"`
}
