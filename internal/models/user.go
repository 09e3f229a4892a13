package models

// User is an account for the diagnostics API.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never serialized
}
