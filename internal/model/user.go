package model

import "time"

// User mirrors the `users` table. Emails are stored lowercased; lookups
// normalize before comparing. Users are never hard-deleted.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, lowercased)
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role (user | admin | superadmin)
	ForceReset   bool      // users.force_reset, set by admin password resets
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Session mirrors the `sessions` table. Only the SHA-256 hash of the opaque
// session identifier is stored. Expired rows are deleted lazily when looked
// up; a user may hold several sessions at once.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	TokenHash string    // sessions.token_hash
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
}
