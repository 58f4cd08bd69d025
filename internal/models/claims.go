package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims issued by the external auth service.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Actor returns the authenticated caller the engine acts on behalf of.
func (c *UserClaims) Actor() Actor {
	return Actor{ID: c.UserID, Role: c.Role}
}

// Actor identifies an authenticated caller.
type Actor struct {
	ID   uint
	Role string
}
