package entry

import (
	"time"

	"github.com/google/uuid"
)

// Entry represents a persisted ledger entry. Rows are append-only; the
// repository exposes no update or delete.
type Entry struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID    uuid.UUID `gorm:"type:uuid;index;not null;column:account_id"`
	Type         string    `gorm:"type:varchar(20);not null;column:entry_type"`
	Amount       int64     `gorm:"not null"`
	Currency     string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Description  string    `gorm:"type:varchar(255)"`
	Counterparty *string   `gorm:"type:varchar(12);column:counterparty_account"`
	Reference    string    `gorm:"type:varchar(20);uniqueIndex;not null;column:reference_number"`
	Status       string    `gorm:"type:varchar(20);not null;default:'completed'"`
	Timestamp    time.Time `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for the Entry model.
func (Entry) TableName() string {
	return "entries"
}
