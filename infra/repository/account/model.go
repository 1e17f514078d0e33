package account

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;column:owner_id"`
	Number    string    `gorm:"type:varchar(12);uniqueIndex;not null;column:account_number"`
	Type      string    `gorm:"type:varchar(20);not null;column:account_type"`
	Balance   int64     `gorm:"not null;default:0"`
	Currency  string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}
