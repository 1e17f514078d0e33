package dto

import (
	"time"

	"github.com/google/uuid"
)

// EntryRead is a read-optimized DTO for ledger entry queries.
type EntryRead struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Type         string  // deposit, withdrawal, or transfer
	Amount       float64 // Signed, main currency unit
	Currency     string
	Description  string
	Counterparty string // Counterparty account number, empty unless transfer
	Reference    string
	Status       string
	Timestamp    time.Time
}

// EntryCreate is a DTO for appending a ledger entry. Entries are immutable;
// there is no update DTO.
type EntryCreate struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Type         string
	Amount       int64 // Signed, smallest currency unit
	Currency     string
	Description  string
	Counterparty string
	Reference    string
	Status       string
}

// EntryFilter narrows History and Search queries.
type EntryFilter struct {
	Type  string // Optional entry type filter
	Query string // Optional substring match on description or reference
	Limit int    // Zero means no limit
}
