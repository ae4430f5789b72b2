package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByUserIDFunc      func(ctx context.Context, userID string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	AdjustBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, delta domain.Credits, updatedAt time.Time) error
	SetWritesBlockedFunc func(ctx context.Context, id string, blocked bool, updatedAt time.Time) error
	SetDisabledFunc      func(ctx context.Context, id string, disabled bool, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores an account directly, bypassing any configured funcs.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	return m.Create(ctx, account)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta domain.Credits, updatedAt time.Time) error {
	if m.AdjustBalanceFunc != nil {
		return m.AdjustBalanceFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance += delta
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) SetWritesBlocked(ctx context.Context, id string, blocked bool, updatedAt time.Time) error {
	if m.SetWritesBlockedFunc != nil {
		return m.SetWritesBlockedFunc(ctx, id, blocked, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.WritesBlocked = blocked
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) SetDisabled(ctx context.Context, id string, disabled bool, updatedAt time.Time) error {
	if m.SetDisabledFunc != nil {
		return m.SetDisabledFunc(ctx, id, disabled, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Disabled = disabled
	if disabled {
		acc.DisabledAt = &updatedAt
	} else {
		acc.DisabledAt = nil
	}
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.LedgerEntry

	CreateFunc                         func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	GetByIDFunc                        func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByReferenceFunc                 func(ctx context.Context, referenceID string) ([]*domain.LedgerEntry, error)
	GetSettledByReferenceFunc          func(ctx context.Context, tx usecase.Transaction, referenceID string) (*domain.LedgerEntry, error)
	GetPendingByReferenceForUpdateFunc func(ctx context.Context, tx usecase.Transaction, referenceID string) (*domain.LedgerEntry, error)
	UpdateStatusFunc                   func(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, settledAt *time.Time) error
	SettleFunc                         func(ctx context.Context, tx usecase.Transaction, id, toAccountID string, settledAt time.Time) error
	UpdateAmountFunc                   func(ctx context.Context, tx usecase.Transaction, id string, amount domain.Credits) error
	ListByAccountFunc                  func(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	SumEffectsFunc                     func(ctx context.Context, accountID string) (domain.Credits, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		entries: make(map[string]*domain.LedgerEntry),
	}
}

func (m *MockLedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockLedgerRepository) GetByReference(ctx context.Context, referenceID string) ([]*domain.LedgerEntry, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, referenceID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.ReferenceID == referenceID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockLedgerRepository) GetSettledByReference(ctx context.Context, tx usecase.Transaction, referenceID string) (*domain.LedgerEntry, error) {
	if m.GetSettledByReferenceFunc != nil {
		return m.GetSettledByReferenceFunc(ctx, tx, referenceID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ReferenceID == referenceID && e.Status == domain.EntryStatusSuccess {
			return e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockLedgerRepository) GetPendingByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, referenceID string) (*domain.LedgerEntry, error) {
	if m.GetPendingByReferenceForUpdateFunc != nil {
		return m.GetPendingByReferenceForUpdateFunc(ctx, tx, referenceID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ReferenceID == referenceID && e.Status == domain.EntryStatusPending {
			return e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockLedgerRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, settledAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, settledAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Status = status
	e.SettledAt = settledAt
	return nil
}

func (m *MockLedgerRepository) Settle(ctx context.Context, tx usecase.Transaction, id, toAccountID string, settledAt time.Time) error {
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, tx, id, toAccountID, settledAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.ToAccountID = &toAccountID
	e.Status = domain.EntryStatusSuccess
	e.SettledAt = &settledAt
	return nil
}

func (m *MockLedgerRepository) UpdateAmount(ctx context.Context, tx usecase.Transaction, id string, amount domain.Credits) error {
	if m.UpdateAmountFunc != nil {
		return m.UpdateAmountFunc(ctx, tx, id, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Amount = amount
	return nil
}

func (m *MockLedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if (e.FromAccountID != nil && *e.FromAccountID == accountID) ||
			(e.ToAccountID != nil && *e.ToAccountID == accountID) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockLedgerRepository) SumEffects(ctx context.Context, accountID string) (domain.Credits, error) {
	if m.SumEffectsFunc != nil {
		return m.SumEffectsFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum domain.Credits
	for _, e := range m.entries {
		sum += e.Effect(accountID)
	}
	return sum, nil
}

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.ServiceBooking

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, booking *domain.ServiceBooking) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.ServiceBooking, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.ServiceBooking, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, booking *domain.ServiceBooking) error
	ListByClientFunc     func(ctx context.Context, clientAccountID string, limit, offset int) ([]*domain.ServiceBooking, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.ServiceBooking, error)
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.ServiceBooking),
	}
}

func (m *MockBookingRepository) Seed(booking *domain.ServiceBooking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, tx usecase.Transaction, booking *domain.ServiceBooking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, booking)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.ServiceBooking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ServiceBooking, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockBookingRepository) Update(ctx context.Context, tx usecase.Transaction, booking *domain.ServiceBooking) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, booking)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) ListByClient(ctx context.Context, clientAccountID string, limit, offset int) ([]*domain.ServiceBooking, error) {
	if m.ListByClientFunc != nil {
		return m.ListByClientFunc(ctx, clientAccountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var bookings []*domain.ServiceBooking
	for _, b := range m.bookings {
		if b.ClientAccountID == clientAccountID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (m *MockBookingRepository) List(ctx context.Context, limit, offset int) ([]*domain.ServiceBooking, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var bookings []*domain.ServiceBooking
	for _, b := range m.bookings {
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// MockTimeEntryRepository is a mock implementation of TimeEntryRepository.
type MockTimeEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.TimeEntry

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.TimeEntry) error
	GetOpenForUpdateFunc func(ctx context.Context, tx usecase.Transaction, workerAccountID string) (*domain.TimeEntry, error)
	HasClockInSinceFunc  func(ctx context.Context, tx usecase.Transaction, workerAccountID string, since time.Time) (bool, error)
	HasClockOutSinceFunc func(ctx context.Context, tx usecase.Transaction, workerAccountID string, since time.Time) (bool, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.TimeEntry) error
	ListForRangeFunc     func(ctx context.Context, workerAccountID, storeID string, from, to time.Time) ([]*domain.TimeEntry, error)
}

func NewMockTimeEntryRepository() *MockTimeEntryRepository {
	return &MockTimeEntryRepository{
		entries: make(map[string]*domain.TimeEntry),
	}
}

func (m *MockTimeEntryRepository) Seed(entry *domain.TimeEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
}

func (m *MockTimeEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.TimeEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockTimeEntryRepository) GetOpenForUpdate(ctx context.Context, tx usecase.Transaction, workerAccountID string) (*domain.TimeEntry, error) {
	if m.GetOpenForUpdateFunc != nil {
		return m.GetOpenForUpdateFunc(ctx, tx, workerAccountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.WorkerAccountID == workerAccountID && e.IsOpen() {
			return e, nil
		}
	}
	return nil, domain.ErrNoOpenEntry
}

func (m *MockTimeEntryRepository) HasClockInSince(ctx context.Context, tx usecase.Transaction, workerAccountID string, since time.Time) (bool, error) {
	if m.HasClockInSinceFunc != nil {
		return m.HasClockInSinceFunc(ctx, tx, workerAccountID, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.WorkerAccountID == workerAccountID && !e.ClockIn.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTimeEntryRepository) HasClockOutSince(ctx context.Context, tx usecase.Transaction, workerAccountID string, since time.Time) (bool, error) {
	if m.HasClockOutSinceFunc != nil {
		return m.HasClockOutSinceFunc(ctx, tx, workerAccountID, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.WorkerAccountID == workerAccountID && e.ClockOut != nil && !e.ClockOut.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTimeEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.TimeEntry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrNoOpenEntry
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockTimeEntryRepository) ListForRange(ctx context.Context, workerAccountID, storeID string, from, to time.Time) ([]*domain.TimeEntry, error) {
	if m.ListForRangeFunc != nil {
		return m.ListForRangeFunc(ctx, workerAccountID, storeID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.TimeEntry
	for _, e := range m.entries {
		if e.WorkerAccountID != workerAccountID {
			continue
		}
		if storeID != "" && e.StoreID != storeID {
			continue
		}
		if e.ClockIn.Before(from) || !e.ClockIn.Before(to) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MockAssignmentRepository is a mock implementation of AssignmentRepository.
type MockAssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[string]*domain.FixedAssignment

	CreateFunc              func(ctx context.Context, assignment *domain.FixedAssignment) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.FixedAssignment, error)
	GetActiveFunc           func(ctx context.Context, workerAccountID, storeID string) (*domain.FixedAssignment, error)
	ListActiveForWorkerFunc func(ctx context.Context, workerAccountID string) ([]*domain.FixedAssignment, error)
	SoftDeleteFunc          func(ctx context.Context, id string, deletedAt time.Time) error
}

func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{
		assignments: make(map[string]*domain.FixedAssignment),
	}
}

func (m *MockAssignmentRepository) Seed(assignment *domain.FixedAssignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[assignment.ID] = assignment
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *domain.FixedAssignment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, assignment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id string) (*domain.FixedAssignment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAssignmentNotFound
}

func (m *MockAssignmentRepository) GetActive(ctx context.Context, workerAccountID, storeID string) (*domain.FixedAssignment, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, workerAccountID, storeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.assignments {
		if a.WorkerAccountID == workerAccountID && a.StoreID == storeID && a.Active() {
			return a, nil
		}
	}
	return nil, domain.ErrAssignmentNotFound
}

func (m *MockAssignmentRepository) ListActiveForWorker(ctx context.Context, workerAccountID string) ([]*domain.FixedAssignment, error) {
	if m.ListActiveForWorkerFunc != nil {
		return m.ListActiveForWorkerFunc(ctx, workerAccountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var assignments []*domain.FixedAssignment
	for _, a := range m.assignments {
		if a.WorkerAccountID == workerAccountID && a.Active() {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}

func (m *MockAssignmentRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id, deletedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return domain.ErrAssignmentNotFound
	}
	a.DeletedAt = &deletedAt
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns everything recorded so far.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc          func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc        func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc            func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceIDFunc func(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return m.Logs(), nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	if m.GetByResourceIDFunc != nil {
		return m.GetByResourceIDFunc(ctx, resourceType, resourceID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	hashes map[string]string

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, user *domain.User, passwordHash string) error
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, string, error)
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[string]*domain.User),
		hashes: make(map[string]string),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User, passwordHash string) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, user, passwordHash)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	m.hashes[user.ID] = passwordHash
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, m.hashes[u.ID], nil
		}
	}
	return nil, "", domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier is a mock implementation of Retrier that runs the operation
// exactly once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

// MockPaymentVerifier is a mock implementation of PaymentVerifier.
type MockPaymentVerifier struct {
	VerifyFunc func(ctx context.Context, sessionID string) error
}

func NewMockPaymentVerifier() *MockPaymentVerifier {
	return &MockPaymentVerifier{}
}

func (m *MockPaymentVerifier) Verify(ctx context.Context, sessionID string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, sessionID)
	}
	return nil
}
