// Package testutil provides in-memory stand-ins for the PostgreSQL
// repositories and transaction manager, plus helpers for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	blockedRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/blocked"
	bookingRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/booking"
	historyRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/history"
	settingsRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
)

type txKey struct{}

// Store holds every table in memory. A transaction holds the store mutex for
// its whole duration, so transactions are fully serialized, and a failed
// transaction restores the snapshot taken at its start.
type Store struct {
	mu sync.Mutex

	bookings map[string]*domain.Booking
	blocked  map[string]*domain.BlockedSlot
	history  map[string]*domain.ActionHistoryEntry
	settings *domain.Settings

	// LockedPartitions records every LockPartition call
	LockedPartitions []string

	// StatementsBeforeLock records, per LockPartition call, how many
	// statements its transaction had already run
	StatementsBeforeLock []int
	txStatements         int

	// Failure injection
	AppendErr error
	UpdateErr error
	CreateErr error
	ListErr   error
}

func NewStore() *Store {
	return &Store{
		bookings: make(map[string]*domain.Booking),
		blocked:  make(map[string]*domain.BlockedSlot),
		history:  make(map[string]*domain.ActionHistoryEntry),
	}
}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil || dbmetrics.IsInTransaction(ctx)
}

func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		s.txStatements++
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	bookings map[string]*domain.Booking
	blocked  map[string]*domain.BlockedSlot
	history  map[string]*domain.ActionHistoryEntry
	settings *domain.Settings
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		bookings: make(map[string]*domain.Booking, len(s.bookings)),
		blocked:  make(map[string]*domain.BlockedSlot, len(s.blocked)),
		history:  make(map[string]*domain.ActionHistoryEntry, len(s.history)),
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v.Clone()
	}
	for k, v := range s.blocked {
		c := *v
		snap.blocked[k] = &c
	}
	for k, v := range s.history {
		snap.history[k] = cloneEntry(v)
	}
	if s.settings != nil {
		c := *s.settings
		snap.settings = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.bookings = snap.bookings
	s.blocked = snap.blocked
	s.history = snap.history
	s.settings = snap.settings
}

// PutBooking seeds a booking directly
func (s *Store) PutBooking(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b.Clone()
}

// Booking returns a copy of a stored booking, or nil
func (s *Store) Booking(id string) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[id]; ok {
		return b.Clone()
	}
	return nil
}

// Bookings returns copies of every stored booking ordered by creation time
func (s *Store) Bookings() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedBookings(func(*domain.Booking) bool { return true })
}

// HistoryEntries returns copies of every entry, oldest first
func (s *Store) HistoryEntries() []*domain.ActionHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.ActionHistoryEntry, 0, len(s.history))
	for _, e := range s.history {
		out = append(out, cloneEntry(e))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// PutSettings seeds the settings row
func (s *Store) PutSettings(settings *domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *settings
	s.settings = &c
}

// PutBlocked seeds a blocked slot
func (s *Store) PutBlocked(slot *domain.BlockedSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *slot
	s.blocked[blockedKey(slot.ServiceType, slot.SlotID, slot.Date)] = &c
}

func (s *Store) sortedBookings(keep func(*domain.Booking) bool) []*domain.Booking {
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func blockedKey(st domain.ServiceType, slotID, date string) string {
	return fmt.Sprintf("%s|%s|%s", st, slotID, date)
}

func cloneEntry(e *domain.ActionHistoryEntry) *domain.ActionHistoryEntry {
	c := *e
	if e.UndoneAt != nil {
		at := *e.UndoneAt
		c.UndoneAt = &at
	}
	if e.BookingID != nil {
		id := *e.BookingID
		c.BookingID = &id
	}
	return &c
}

// TxManager runs functions under the store mutex with rollback on error
type TxManager struct {
	store *Store

	mu    sync.Mutex
	calls int
}

func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Calls returns how many top-level transactions were started
func (m *TxManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	m.store.txStatements = 0
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// SQLDB lets the production transaction manager drive the store. BeginTx
// takes the store mutex and a snapshot; Rollback restores the snapshot.
type SQLDB struct {
	store *Store

	mu    sync.Mutex
	begun int
}

func (s *Store) SQLDB() *SQLDB {
	return &SQLDB{store: s}
}

// Begun returns how many transactions were started
func (d *SQLDB) Begun() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.begun
}

func (d *SQLDB) BeginTx(_ context.Context, _ *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	d.mu.Lock()
	d.begun++
	d.mu.Unlock()

	d.store.mu.Lock()
	d.store.txStatements = 0
	return &sqlTx{store: d.store, snap: d.store.snapshot()}, nil
}

// sqlTx only tracks the transaction boundary; the in-memory repositories
// never issue SQL through it.
type sqlTx struct {
	dbmetrics.DBExecutor
	store *Store
	snap  snapshot
	done  bool
}

func (t *sqlTx) Commit() error {
	if !t.done {
		t.done = true
		t.store.mu.Unlock()
	}
	return nil
}

func (t *sqlTx) Rollback() error {
	if !t.done {
		t.done = true
		t.store.restore(t.snap)
		t.store.mu.Unlock()
	}
	return nil
}

// BookingRepo mirrors booking.Repository
type BookingRepo struct {
	store *Store
}

func (s *Store) BookingRepo() *BookingRepo {
	return &BookingRepo{store: s}
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	defer r.store.lock(ctx)()
	if r.store.CreateErr != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", bookingRepo.ErrExecQuery, r.store.CreateErr)
	}
	if _, exists := r.store.bookings[b.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", bookingRepo.ErrExecQuery, b.ID)
	}
	r.store.bookings[b.ID] = b.Clone()
	return b, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	defer r.store.lock(ctx)()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r *BookingRepo) ListByDay(ctx context.Context, st domain.ServiceType, date string) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()
	if r.store.ListErr != nil {
		return nil, fmt.Errorf("%w: ListByDay - execute query: %w", bookingRepo.ErrExecQuery, r.store.ListErr)
	}
	return r.store.sortedBookings(func(b *domain.Booking) bool {
		return b.ServiceType == st && b.Date == date
	}), nil
}

func (r *BookingRepo) ListWaitlist(ctx context.Context, date string) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()
	return r.store.sortedBookings(func(b *domain.Booking) bool {
		return b.Date == date && b.IsWaitlisted()
	}), nil
}

func (r *BookingRepo) ListByGuest(ctx context.Context, guestID string) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()
	out := r.store.sortedBookings(func(b *domain.Booking) bool { return b.GuestID == guestID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *BookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	defer r.store.lock(ctx)()
	if r.store.UpdateErr != nil {
		return fmt.Errorf("%w: Update - execute update: %w", bookingRepo.ErrExecQuery, r.store.UpdateErr)
	}
	if _, ok := r.store.bookings[b.ID]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	r.store.bookings[b.ID] = b.Clone()
	return nil
}

func (r *BookingRepo) LockPartition(ctx context.Context, st domain.ServiceType, date string) error {
	if !inTx(ctx) {
		return fmt.Errorf("%w: LockPartition - no transaction in context", bookingRepo.ErrTransaction)
	}
	r.store.LockedPartitions = append(r.store.LockedPartitions, fmt.Sprintf("%s:%s", st, date))
	r.store.StatementsBeforeLock = append(r.store.StatementsBeforeLock, r.store.txStatements)
	r.store.txStatements++
	return nil
}

// BlockedRepo mirrors blocked.Repository
type BlockedRepo struct {
	store *Store
}

func (s *Store) BlockedRepo() *BlockedRepo {
	return &BlockedRepo{store: s}
}

func (r *BlockedRepo) Create(ctx context.Context, slot *domain.BlockedSlot) (bool, error) {
	defer r.store.lock(ctx)()
	k := blockedKey(slot.ServiceType, slot.SlotID, slot.Date)
	if _, ok := r.store.blocked[k]; ok {
		return false, nil
	}
	c := *slot
	r.store.blocked[k] = &c
	return true, nil
}

func (r *BlockedRepo) Delete(ctx context.Context, st domain.ServiceType, slotID, date string) error {
	defer r.store.lock(ctx)()
	k := blockedKey(st, slotID, date)
	if _, ok := r.store.blocked[k]; !ok {
		return blockedRepo.ErrBlockedSlotNotFound
	}
	delete(r.store.blocked, k)
	return nil
}

func (r *BlockedRepo) IsBlocked(ctx context.Context, st domain.ServiceType, slotID, date string) (bool, error) {
	defer r.store.lock(ctx)()
	_, ok := r.store.blocked[blockedKey(st, slotID, date)]
	return ok, nil
}

func (r *BlockedRepo) ListByDate(ctx context.Context, st domain.ServiceType, date string) ([]*domain.BlockedSlot, error) {
	defer r.store.lock(ctx)()
	out := make([]*domain.BlockedSlot, 0)
	for _, b := range r.store.blocked {
		if b.Date == date && (st == "" || b.ServiceType == st) {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ServiceType == out[j].ServiceType {
			return out[i].SlotID < out[j].SlotID
		}
		return out[i].ServiceType < out[j].ServiceType
	})
	return out, nil
}

// HistoryRepo mirrors history.Repository
type HistoryRepo struct {
	store *Store
}

func (s *Store) HistoryRepo() *HistoryRepo {
	return &HistoryRepo{store: s}
}

func (r *HistoryRepo) Append(ctx context.Context, e *domain.ActionHistoryEntry) error {
	defer r.store.lock(ctx)()
	if r.store.AppendErr != nil {
		return fmt.Errorf("%w: Append - execute insert: %w", historyRepo.ErrExecQuery, r.store.AppendErr)
	}
	r.store.history[e.ID] = cloneEntry(e)
	return nil
}

func (r *HistoryRepo) GetByID(ctx context.Context, id string) (*domain.ActionHistoryEntry, error) {
	defer r.store.lock(ctx)()
	e, ok := r.store.history[id]
	if !ok {
		return nil, historyRepo.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

func (r *HistoryRepo) ListByServiceDay(ctx context.Context, day string) ([]*domain.ActionHistoryEntry, error) {
	defer r.store.lock(ctx)()
	out := make([]*domain.ActionHistoryEntry, 0)
	for _, e := range r.store.history {
		if e.ServiceDay == day {
			out = append(out, cloneEntry(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *HistoryRepo) MarkUndone(ctx context.Context, id string, at time.Time) error {
	defer r.store.lock(ctx)()
	e, ok := r.store.history[id]
	if !ok {
		return historyRepo.ErrEntryNotFound
	}
	e.UndoneAt = &at
	return nil
}

func (r *HistoryRepo) Clear(ctx context.Context, day *string) (int64, error) {
	defer r.store.lock(ctx)()
	var n int64
	for id, e := range r.store.history {
		if day == nil || e.ServiceDay == *day {
			delete(r.store.history, id)
			n++
		}
	}
	return n, nil
}

// SettingsRepo mirrors settings.Repository
type SettingsRepo struct {
	store *Store
}

func (s *Store) SettingsRepo() *SettingsRepo {
	return &SettingsRepo{store: s}
}

func (r *SettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	defer r.store.lock(ctx)()
	if r.store.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	c := *r.store.settings
	return &c, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	defer r.store.lock(ctx)()
	c := *s
	r.store.settings = &c
	out := c
	return &out, nil
}
