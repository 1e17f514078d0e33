// Package fixtures provides an in-memory UnitOfWork implementation for
// service tests: transactional snapshot/rollback semantics and unique-index
// emulation for account numbers and reference codes, without a database.
package fixtures

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/domain"
	"github.com/openbank/ledger/pkg/domain/money"
	"github.com/openbank/ledger/pkg/dto"
	"github.com/openbank/ledger/pkg/repository"
)

type accountRow struct {
	dto.AccountCreate
	CreatedAt time.Time
	UpdatedAt time.Time
}

type entryRow struct {
	dto.EntryCreate
	Timestamp time.Time
}

type state struct {
	accounts map[uuid.UUID]accountRow
	numbers  map[string]uuid.UUID
	entries  map[uuid.UUID]entryRow
	refs     map[string]uuid.UUID
}

func newState() *state {
	return &state{
		accounts: make(map[uuid.UUID]accountRow),
		numbers:  make(map[string]uuid.UUID),
		entries:  make(map[uuid.UUID]entryRow),
		refs:     make(map[string]uuid.UUID),
	}
}

func (s *state) clone() *state {
	cp := newState()
	for k, v := range s.accounts {
		cp.accounts[k] = v
	}
	for k, v := range s.numbers {
		cp.numbers[k] = v
	}
	for k, v := range s.entries {
		cp.entries[k] = v
	}
	for k, v := range s.refs {
		cp.refs[k] = v
	}
	return cp
}

// MemoryUoW is an in-memory repository.UnitOfWork. Each Do runs under one
// lock with a snapshot taken on entry; an error from fn restores the
// snapshot, so partial mutations are never observable.
type MemoryUoW struct {
	mu    sync.Mutex
	state *state
}

// NewMemoryUoW creates an empty in-memory unit of work.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{state: newState()}
}

// Do implements repository.UnitOfWork.
func (m *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.state.clone()
	if err := fn(m); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// GetRepository implements repository.UnitOfWork.
func (m *MemoryUoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():
		return &memoryAccountRepo{m}, nil
	case reflect.TypeOf((*repository.EntryRepository)(nil)).Elem():
		return &memoryEntryRepo{m}, nil
	}
	return nil, domain.ErrAccountNotFound
}

// AccountRepository implements repository.UnitOfWork.
func (m *MemoryUoW) AccountRepository() (repository.AccountRepository, error) {
	return &memoryAccountRepo{m}, nil
}

// EntryRepository implements repository.UnitOfWork.
func (m *MemoryUoW) EntryRepository() (repository.EntryRepository, error) {
	return &memoryEntryRepo{m}, nil
}

// SeedAccount inserts an account row directly, bypassing services. Test
// setup only.
func (m *MemoryUoW) SeedAccount(create dto.AccountCreate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.state.accounts[create.ID] = accountRow{AccountCreate: create, CreatedAt: now, UpdatedAt: now}
	m.state.numbers[create.Number] = create.ID
}

// EntryCount returns the number of stored entries.
func (m *MemoryUoW) EntryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.entries)
}

type memoryAccountRepo struct {
	m *MemoryUoW
}

func (r *memoryAccountRepo) Create(ctx context.Context, create dto.AccountCreate) error {
	st := r.m.state
	if _, exists := st.numbers[create.Number]; exists {
		return domain.ErrConflict
	}
	if _, exists := st.accounts[create.ID]; exists {
		return domain.ErrConflict
	}
	now := time.Now()
	st.accounts[create.ID] = accountRow{AccountCreate: create, CreatedAt: now, UpdatedAt: now}
	st.numbers[create.Number] = create.ID
	return nil
}

func (r *memoryAccountRepo) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	row, ok := r.m.state.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return accountRowToRead(row), nil
}

func (r *memoryAccountRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	return r.Get(ctx, id)
}

func (r *memoryAccountRepo) GetByNumber(ctx context.Context, number string) (*dto.AccountRead, error) {
	id, ok := r.m.state.numbers[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.Get(ctx, id)
}

func (r *memoryAccountRepo) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	st := r.m.state
	row, ok := st.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if update.Balance != nil {
		row.Balance = *update.Balance
	}
	if update.Status != nil {
		row.Status = *update.Status
	}
	row.UpdatedAt = time.Now()
	st.accounts[id] = row
	return nil
}

func (r *memoryAccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*dto.AccountRead, error) {
	var reads []*dto.AccountRead
	for _, row := range r.m.state.accounts {
		if row.OwnerID == ownerID {
			reads = append(reads, accountRowToRead(row))
		}
	}
	sort.Slice(reads, func(i, j int) bool { return reads[i].CreatedAt.Before(reads[j].CreatedAt) })
	return reads, nil
}

type memoryEntryRepo struct {
	m *MemoryUoW
}

func (r *memoryEntryRepo) Create(ctx context.Context, create dto.EntryCreate) error {
	st := r.m.state
	if _, exists := st.refs[create.Reference]; exists {
		return domain.ErrConflict
	}
	st.entries[create.ID] = entryRow{EntryCreate: create, Timestamp: time.Now()}
	st.refs[create.Reference] = create.ID
	return nil
}

func (r *memoryEntryRepo) Get(ctx context.Context, id uuid.UUID) (*dto.EntryRead, error) {
	row, ok := r.m.state.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return entryRowToRead(row), nil
}

func (r *memoryEntryRepo) GetByReference(ctx context.Context, reference string) (*dto.EntryRead, error) {
	id, ok := r.m.state.refs[reference]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return r.Get(ctx, id)
}

func (r *memoryEntryRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, filter dto.EntryFilter) ([]*dto.EntryRead, error) {
	var reads []*dto.EntryRead
	for _, row := range r.m.state.entries {
		if row.AccountID != accountID {
			continue
		}
		if filter.Type != "" && row.Type != filter.Type {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(row.Description), q) &&
				!strings.Contains(strings.ToLower(row.Reference), q) {
				continue
			}
		}
		reads = append(reads, entryRowToRead(row))
	}
	sort.Slice(reads, func(i, j int) bool { return reads[i].Timestamp.After(reads[j].Timestamp) })
	if filter.Limit > 0 && len(reads) > filter.Limit {
		reads = reads[:filter.Limit]
	}
	return reads, nil
}

func accountRowToRead(row accountRow) *dto.AccountRead {
	bal := money.NewFromData(row.Balance, row.Currency)
	return &dto.AccountRead{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Number:    row.Number,
		Type:      row.Type,
		Balance:   bal.AmountFloat(),
		Currency:  row.Currency,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func entryRowToRead(row entryRow) *dto.EntryRead {
	amount := money.NewFromData(row.Amount, row.Currency)
	return &dto.EntryRead{
		ID:           row.ID,
		AccountID:    row.AccountID,
		Type:         row.Type,
		Amount:       amount.AmountFloat(),
		Currency:     row.Currency,
		Description:  row.Description,
		Counterparty: row.Counterparty,
		Reference:    row.Reference,
		Status:       row.Status,
		Timestamp:    row.Timestamp,
	}
}
