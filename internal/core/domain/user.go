package domain

import "time"

// User is a login identity known to the service's identity provider.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal returns the authorization view of the user.
func (u *User) Principal() Principal {
	return Principal{UserID: u.UserID, Roles: u.Roles}
}
