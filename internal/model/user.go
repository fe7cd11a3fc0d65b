package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthClaims is the identity carried by a verified token and attached to the
// request context. Handlers read it from the context and never parse tokens
// themselves.
type AuthClaims struct {
	UserID   int64  `json:"sub"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
