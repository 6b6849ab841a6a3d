package user

import "time"

// User is a registered account. Password holds the bcrypt digest once
// stored and is never serialized.
type User struct {
	ID        int       `json:"id"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
