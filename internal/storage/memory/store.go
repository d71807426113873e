// Package memory provides the live record store of snapkv.
package memory

import (
	"slices"
	"strings"

	"github.com/yndnr/snapkv/internal/core/domain"
)

// Record is the set of fields stored under one key.
type Record map[string]domain.Cell

// Records is the full contents of a store, keyed by record key.
type Records map[string]Record

// Store holds the live records.
type Store struct {
	records Records
}

// New creates an empty store.
func New() *Store {
	return &Store{
		records: make(Records),
	}
}

// Set stores a permanent value.
func (s *Store) Set(key, field, value string, now int64) error {
	return s.put(key, field, domain.NewCell(value))
}

// SetWithTTL stores a value that expires at now+ttl.
// The sign of ttl is not checked.
func (s *Store) SetWithTTL(key, field, value string, now, ttl int64) error {
	return s.put(key, field, domain.NewCellWithTTL(value, now, ttl))
}

func (s *Store) put(key, field string, cell domain.Cell) error {
	if key == "" || field == "" {
		return domain.ErrInvalidArgument
	}

	rec, ok := s.records[key]
	if !ok {
		rec = make(Record)
		s.records[key] = rec
	}
	rec[field] = cell
	return nil
}

// lookup returns the live cell for key/field at now.
func (s *Store) lookup(key, field string, now int64) (domain.Cell, bool) {
	rec, ok := s.records[key]
	if !ok {
		return domain.Cell{}, false
	}
	cell, ok := rec[field]
	if !ok || cell.IsExpired(now) {
		return domain.Cell{}, false
	}
	return cell, true
}

// Get returns the value of key/field if it exists and is live at now.
// An expired cell is reported as absent but left in place.
func (s *Store) Get(key, field string, now int64) (string, bool) {
	cell, ok := s.lookup(key, field, now)
	if !ok {
		return "", false
	}
	return cell.Value, true
}

// TTL returns the remaining lifetime of key/field at now, or -1 for a
// permanent value. ok is false when the field is absent or expired.
func (s *Store) TTL(key, field string, now int64) (remaining int64, ok bool) {
	cell, ok := s.lookup(key, field, now)
	if !ok {
		return 0, false
	}
	return cell.Remaining(now), true
}

// Delete removes a live field and reports whether it did.
// An expired field counts as already absent: Delete returns false and does
// not touch it. Removing the last field of a record removes the record.
func (s *Store) Delete(key, field string, now int64) bool {
	if _, ok := s.lookup(key, field, now); !ok {
		return false
	}

	rec := s.records[key]
	delete(rec, field)
	if len(rec) == 0 {
		delete(s.records, key)
	}
	return true
}

// ScanAll returns the live fields of key sorted by field name.
func (s *Store) ScanAll(key string, now int64) []domain.FieldValue {
	return s.ScanByPrefix(key, "", now)
}

// ScanByPrefix returns the live fields of key whose name starts with
// prefix, sorted by field name. An empty prefix matches every field.
func (s *Store) ScanByPrefix(key, prefix string, now int64) []domain.FieldValue {
	rec, ok := s.records[key]
	if !ok {
		return []domain.FieldValue{}
	}

	out := make([]domain.FieldValue, 0, len(rec))
	for field, cell := range rec {
		if !strings.HasPrefix(field, prefix) || cell.IsExpired(now) {
			continue
		}
		out = append(out, domain.FieldValue{Field: field, Value: cell.Value})
	}

	slices.SortFunc(out, func(a, b domain.FieldValue) int {
		return strings.Compare(a.Field, b.Field)
	})
	return out
}

// Len returns the number of records physically held, including records
// whose fields have all expired but were never deleted.
func (s *Store) Len() int {
	return len(s.records)
}

// FieldCount returns the number of cells physically held.
func (s *Store) FieldCount() int {
	n := 0
	for _, rec := range s.records {
		n += len(rec)
	}
	return n
}

// CopyLive returns a deep copy of the cells that are live at at.
// Records left without fields are omitted.
func (s *Store) CopyLive(at int64) Records {
	out := make(Records, len(s.records))
	for key, rec := range s.records {
		cp := make(Record, len(rec))
		for field, cell := range rec {
			if !cell.IsExpired(at) {
				cp[field] = cell
			}
		}
		if len(cp) > 0 {
			out[key] = cp
		}
	}
	return out
}

// Replace discards the current contents and adopts records.
// The store takes ownership of records; empty records are dropped.
func (s *Store) Replace(records Records) {
	s.records = make(Records, len(records))
	for key, rec := range records {
		if len(rec) > 0 {
			s.records[key] = rec
		}
	}
}
