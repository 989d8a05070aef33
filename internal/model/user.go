package model

import "time"

// User is an authenticated owner of categories and transactions.
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
}
