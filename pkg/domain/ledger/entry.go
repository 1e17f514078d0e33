// Package ledger defines the immutable entry records the engine appends for
// every completed operation, and the reference codes correlating them.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/domain/money"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	// EntryDeposit is a credit from outside the ledger.
	EntryDeposit EntryType = "deposit"
	// EntryWithdrawal is a debit to outside the ledger.
	EntryWithdrawal EntryType = "withdrawal"
	// EntryTransfer is one side of an internal account-to-account movement.
	EntryTransfer EntryType = "transfer"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	switch t {
	case EntryDeposit, EntryWithdrawal, EntryTransfer:
		return true
	}
	return false
}

// EntryStatus is the settlement state of an entry. The engine only ever
// produces completed entries; pending and reversal states do not exist here.
type EntryStatus string

// StatusCompleted is the only status the engine writes.
const StatusCompleted EntryStatus = "completed"

const (
	// ReferenceLength is the width of a base reference code.
	ReferenceLength = 12
	// IncomingSuffix marks the credit side of a transfer pair.
	IncomingSuffix = "-IN"
)

// Entry is an immutable ledger record. Amounts are signed: positive for
// credits, negative for debits. Entries are append-only; nothing mutates or
// deletes them after creation.
type Entry struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Type         EntryType
	Amount       money.Money
	Description  string
	Counterparty string // counterparty account number, empty unless transfer
	Reference    string
	Status       EntryStatus
	Timestamp    time.Time
}

// NewEntryFromData hydrates an Entry from raw data. Repository and test
// fixture use only; it bypasses invariants.
func NewEntryFromData(
	id, accountID uuid.UUID,
	entryType EntryType,
	amount money.Money,
	description, counterparty, reference string,
	status EntryStatus,
	ts time.Time,
) *Entry {
	return &Entry{
		ID:           id,
		AccountID:    accountID,
		Type:         entryType,
		Amount:       amount,
		Description:  description,
		Counterparty: counterparty,
		Reference:    reference,
		Status:       status,
		Timestamp:    ts,
	}
}

// NewReference generates a 12-character uppercase alphanumeric reference
// code. Uniqueness is enforced by the store's unique index with
// retry-on-collision.
func NewReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:ReferenceLength])
}

// IncomingReference derives the credit-side reference of a transfer pair.
func IncomingReference(base string) string {
	return base + IncomingSuffix
}

// IsIncoming reports whether ref is the credit side of a transfer pair.
func IsIncoming(ref string) bool {
	return strings.HasSuffix(ref, IncomingSuffix)
}

// PairBase strips the incoming suffix, returning the shared base reference.
func PairBase(ref string) string {
	return strings.TrimSuffix(ref, IncomingSuffix)
}
