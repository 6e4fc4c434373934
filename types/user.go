package types

import "time"

// Roles a user account can hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id" db:"id"`

	// Email is the unique address the user signs in with.
	Email string `json:"email" db:"email"`

	// Name is the user's display name. It is snapshotted onto comments
	// at post time.
	Name string `json:"name" db:"name"`

	// Role indicates the user's authorization level within the system
	// ("admin" or "user").
	Role string `json:"role" db:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
