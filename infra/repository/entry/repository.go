package entry

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbank/ledger/infra"
	"github.com/openbank/ledger/pkg/domain"
	"github.com/openbank/ledger/pkg/domain/money"
	"github.com/openbank/ledger/pkg/dto"
	"github.com/openbank/ledger/pkg/repository"
	"gorm.io/gorm"
)

type entryRepository struct {
	db *gorm.DB
}

// New creates a ledger entry repository using the provided *gorm.DB.
func New(db *gorm.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

// Create implements repository.EntryRepository.
func (r *entryRepository) Create(ctx context.Context, create dto.EntryCreate) error {
	row := mapCreateDTOToModel(create)
	err := r.db.WithContext(ctx).Create(&row).Error
	return infra.MapGormErrorToDomain(err, domain.ErrEntryNotFound)
}

// Get implements repository.EntryRepository.
func (r *entryRepository) Get(ctx context.Context, id uuid.UUID) (*dto.EntryRead, error) {
	var row Entry
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, infra.MapGormErrorToDomain(err, domain.ErrEntryNotFound)
	}
	return mapModelToDTO(&row), nil
}

// GetByReference implements repository.EntryRepository.
func (r *entryRepository) GetByReference(ctx context.Context, reference string) (*dto.EntryRead, error) {
	var row Entry
	if err := r.db.WithContext(ctx).First(&row, "reference_number = ?", reference).Error; err != nil {
		return nil, infra.MapGormErrorToDomain(err, domain.ErrEntryNotFound)
	}
	return mapModelToDTO(&row), nil
}

// ListByAccount implements repository.EntryRepository. Entries come back
// newest first; the filter narrows by type and by a substring of the
// description or reference.
func (r *entryRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, filter dto.EntryFilter) ([]*dto.EntryRead, error) {
	q := r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("timestamp DESC")
	if filter.Type != "" {
		q = q.Where("entry_type = ?", filter.Type)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("description ILIKE ? OR reference_number ILIKE ?", pattern, pattern)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var rows []Entry
	if err := q.Find(&rows).Error; err != nil {
		return nil, infra.MapGormErrorToDomain(err, domain.ErrEntryNotFound)
	}
	result := make([]*dto.EntryRead, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDTO(&rows[i]))
	}
	return result, nil
}

// mapCreateDTOToModel maps EntryCreate DTO to GORM model.
func mapCreateDTOToModel(create dto.EntryCreate) Entry {
	row := Entry{
		ID:          create.ID,
		AccountID:   create.AccountID,
		Type:        create.Type,
		Amount:      create.Amount,
		Currency:    create.Currency,
		Description: create.Description,
		Reference:   create.Reference,
		Status:      create.Status,
	}
	if create.Counterparty != "" {
		counterparty := create.Counterparty
		row.Counterparty = &counterparty
	}
	return row
}

// mapModelToDTO maps a GORM model to a read-optimized DTO.
func mapModelToDTO(row *Entry) *dto.EntryRead {
	amount := money.NewFromData(row.Amount, row.Currency)
	read := &dto.EntryRead{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Type:        row.Type,
		Amount:      amount.AmountFloat(),
		Currency:    amount.Currency().String(),
		Description: row.Description,
		Reference:   row.Reference,
		Status:      row.Status,
		Timestamp:   row.Timestamp,
	}
	if row.Counterparty != nil {
		read.Counterparty = *row.Counterparty
	}
	return read
}
