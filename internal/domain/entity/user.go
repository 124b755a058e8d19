// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Email is the unique lookup key.
// PasswordHash stores the bcrypt digest of the password and must never be
// returned to any client; delivery-layer DTOs strip it before serialization.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Name         string    // The user's full name, collected at sign-up step 0.
	Email        string    // The unique email address, collected at sign-up step 0.
	Phone        string    // The contact phone number, collected at sign-up step 1.
	PasswordHash string    // The bcrypt hash of the password. Never the plaintext.
	CreatedAt    time.Time // Timestamp of when the account was created.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
