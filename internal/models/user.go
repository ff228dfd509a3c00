package models

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Phone        string
	Organization string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated identity on behalf of which store and
// service operations run. It is always passed explicitly; there is no
// ambient "current user".
type Principal struct {
	ID    string
	Email string
	Role  string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// Contact is an address-book record scoped to its owning principal.
type Contact struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Role         string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
