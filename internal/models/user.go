package models

import "time"

// User is a registered guest account. The password is stored and returned
// as given, matching the original service's plaintext handling.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}
