package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbank/ledger/infra"
	"github.com/openbank/ledger/pkg/domain"
	"github.com/openbank/ledger/pkg/domain/money"
	"github.com/openbank/ledger/pkg/dto"
	"github.com/openbank/ledger/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// New creates an account repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create implements repository.AccountRepository.
func (r *accountRepository) Create(ctx context.Context, create dto.AccountCreate) error {
	acct := mapCreateDTOToModel(create)
	err := r.db.WithContext(ctx).Create(&acct).Error
	return infra.MapGormErrorToDomain(err, domain.ErrAccountNotFound)
}

// Get implements repository.AccountRepository.
func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "id = ?", id).Error; err != nil {
		return nil, infra.MapGormErrorToDomain(err, domain.ErrAccountNotFound)
	}
	return mapModelToDTO(&acct), nil
}

// GetForUpdate implements repository.AccountRepository. The SELECT carries a
// FOR UPDATE clause; the row stays locked until the surrounding transaction
// commits or rolls back.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acct, "id = ?", id).Error
	if err != nil {
		return nil, infra.MapGormErrorToDomain(err, domain.ErrAccountNotFound)
	}
	return mapModelToDTO(&acct), nil
}

// GetByNumber implements repository.AccountRepository.
func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*dto.AccountRead, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "account_number = ?", number).Error; err != nil {
		return nil, infra.MapGormErrorToDomain(err, domain.ErrAccountNotFound)
	}
	return mapModelToDTO(&acct), nil
}

// Update implements repository.AccountRepository.
func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	updates := mapUpdateDTOToModel(update)
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(updates).Error
	return infra.MapGormErrorToDomain(err, domain.ErrAccountNotFound)
}

// ListByOwner implements repository.AccountRepository.
func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*dto.AccountRead, error) {
	var accts []Account
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&accts).Error; err != nil {
		return nil, infra.MapGormErrorToDomain(err, domain.ErrAccountNotFound)
	}
	result := make([]*dto.AccountRead, 0, len(accts))
	for i := range accts {
		result = append(result, mapModelToDTO(&accts[i]))
	}
	return result, nil
}

// mapCreateDTOToModel maps AccountCreate DTO to GORM model.
func mapCreateDTOToModel(create dto.AccountCreate) Account {
	return Account{
		ID:       create.ID,
		OwnerID:  create.OwnerID,
		Number:   create.Number,
		Type:     create.Type,
		Balance:  create.Balance,
		Currency: create.Currency,
		Status:   create.Status,
	}
}

// mapUpdateDTOToModel maps AccountUpdate DTO to a map for GORM Updates.
func mapUpdateDTOToModel(update dto.AccountUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Balance != nil {
		updates["balance"] = *update.Balance
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	return updates
}

// mapModelToDTO maps a GORM model to a read-optimized DTO.
func mapModelToDTO(acct *Account) *dto.AccountRead {
	bal := money.NewFromData(acct.Balance, acct.Currency)
	return &dto.AccountRead{
		ID:        acct.ID,
		OwnerID:   acct.OwnerID,
		Number:    acct.Number,
		Type:      acct.Type,
		Balance:   bal.AmountFloat(),
		Currency:  bal.Currency().String(),
		Status:    acct.Status,
		CreatedAt: acct.CreatedAt,
		UpdatedAt: acct.UpdatedAt,
	}
}
