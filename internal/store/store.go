// Package store owns the authoritative todo list and keeps the persisted
// snapshot consistent with it.
//
// Every mutation builds a new list, writes the full snapshot to the slot and
// only then installs the new list in memory. A Store is meant to be driven
// from a single goroutine and does no locking.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/snapshot"
)

// Key is the one slot the todo list lives under.
const Key = "todos"

var (
	// ErrEmptyTitle rejects a title that is empty after trimming.
	ErrEmptyTitle = errors.New("empty title")
	// ErrNoRecord reports an unknown id or an out-of-range index.
	ErrNoRecord = errors.New("no such record")
)

// Slot is a key-value backend holding UTF-8 text values.
type Slot interface {
	// Get returns ok=false when key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Store is the in-memory todo list mirrored to a Slot.
type Store struct {
	slot    Slot
	logger  *log.Logger
	records []model.Record
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open builds a Store on slot and loads the persisted list.
func Open(ctx context.Context, slot Slot, opts ...Option) (*Store, error) {
	s := &Store{
		slot:   slot,
		logger: log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.records = records
	return s, nil
}

// Load reads the persisted snapshot. A missing, empty or malformed snapshot
// yields an empty list; only a failing backend is reported as an error.
func (s *Store) Load(ctx context.Context) ([]model.Record, error) {
	raw, ok, err := s.slot.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", Key, err)
	}
	if !ok {
		s.logger.Debug("no snapshot yet", "key", Key)
		return []model.Record{}, nil
	}
	records, err := snapshot.Decode([]byte(raw))
	if err != nil {
		s.logger.Debug("ignoring unreadable snapshot", "key", Key, "err", err)
		return []model.Record{}, nil
	}
	s.logger.Debug("snapshot loaded", "key", Key, "records", len(records))
	return records, nil
}

// Persist writes records as the full snapshot, overwriting any prior value.
func (s *Store) Persist(ctx context.Context, records []model.Record) error {
	b, err := snapshot.Encode(records)
	if err != nil {
		return err
	}
	if err := s.slot.Set(ctx, Key, string(b)); err != nil {
		return fmt.Errorf("write slot %q: %w", Key, err)
	}
	return nil
}

// commit persists next and installs it as the current list.
func (s *Store) commit(ctx context.Context, next []model.Record) error {
	if err := s.Persist(ctx, next); err != nil {
		return err
	}
	s.records = next
	return nil
}

// Records returns a copy of the list in display order.
func (s *Store) Records() []model.Record { return slices.Clone(s.records) }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// IndexOf returns the current position of id, or -1.
func (s *Store) IndexOf(id string) int {
	return slices.IndexFunc(s.records, func(r model.Record) bool { return r.ID == id })
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (model.Record, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return model.Record{}, false
	}
	return s.records[i], true
}

// Add appends a record and persists the list.
func (s *Store) Add(ctx context.Context, title, description string) (model.Record, error) {
	if !model.ValidTitle(title) {
		return model.Record{}, ErrEmptyTitle
	}
	r := model.NewRecord(title, description)
	next := append(slices.Clone(s.records), r)
	if err := s.commit(ctx, next); err != nil {
		return model.Record{}, err
	}
	s.logger.Debug("record added", "id", r.ID, "index", len(next)-1)
	return r, nil
}

// Update replaces the record with the given id in place.
func (s *Store) Update(ctx context.Context, id, title, description string) error {
	i := s.IndexOf(id)
	if i < 0 {
		s.logger.Warn("update of unknown record ignored", "id", id)
		return ErrNoRecord
	}
	return s.UpdateAt(ctx, i, title, description)
}

// UpdateAt replaces the record at index, keeping its position and id.
func (s *Store) UpdateAt(ctx context.Context, index int, title, description string) error {
	if index < 0 || index >= len(s.records) {
		s.logger.Warn("update out of range ignored", "index", index, "len", len(s.records))
		return ErrNoRecord
	}
	if !model.ValidTitle(title) {
		return ErrEmptyTitle
	}
	next := slices.Clone(s.records)
	next[index].Title = strings.TrimSpace(title)
	next[index].Description = description
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Debug("record updated", "id", next[index].ID, "index", index)
	return nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	i := s.IndexOf(id)
	if i < 0 {
		s.logger.Warn("delete of unknown record ignored", "id", id)
		return ErrNoRecord
	}
	return s.DeleteAt(ctx, i)
}

// DeleteAt removes the record at index; later records shift down by one.
func (s *Store) DeleteAt(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.records) {
		s.logger.Warn("delete out of range ignored", "index", index, "len", len(s.records))
		return ErrNoRecord
	}
	id := s.records[index].ID
	next := slices.Delete(slices.Clone(s.records), index, index+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Debug("record deleted", "id", id, "index", index)
	return nil
}

// Replace installs records as the whole list. Titles are validated and
// trimmed, and records without an id get one.
func (s *Store) Replace(ctx context.Context, records []model.Record) error {
	next := make([]model.Record, 0, len(records))
	for i, r := range records {
		if !model.ValidTitle(r.Title) {
			return fmt.Errorf("record %d: %w", i+1, ErrEmptyTitle)
		}
		r.Title = strings.TrimSpace(r.Title)
		if r.ID == "" {
			r.ID = model.NewID()
		}
		next = append(next, r)
	}
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Info("list replaced", "records", len(next))
	return nil
}

// Close releases the underlying slot.
func (s *Store) Close() error { return s.slot.Close() }
