package dto

import (
	"time"

	"github.com/google/uuid"
)

// AccountRead is a read-optimized DTO for account queries and reporting.
type AccountRead struct {
	ID        uuid.UUID // Unique account identifier
	OwnerID   uuid.UUID // User who owns the account
	Number    string    // External-facing 12-digit account number
	Type      string    // Free-form category, e.g. "savings"
	Balance   float64   // Balance in the main currency unit
	Currency  string
	Status    string // active, frozen, or closed
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountCreate is a DTO for persisting a new account.
type AccountCreate struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Number   string
	Type     string
	Balance  int64 // Initial balance in the smallest currency unit
	Currency string
	Status   string
}

// AccountUpdate is a DTO for updating one or more fields of an account.
type AccountUpdate struct {
	Balance *int64  // Optional balance update, smallest currency unit
	Status  *string // Optional status update
}
