// Package service provides the database service of snapkv.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/snapkv/internal/core/domain"
	"github.com/yndnr/snapkv/internal/storage/memory"
	"github.com/yndnr/snapkv/internal/storage/snapshot"
	"github.com/yndnr/snapkv/internal/telemetry/logger"
	"github.com/yndnr/snapkv/internal/telemetry/metric"
)

// Operation names reported to the metric recorder.
const (
	OpSet          = "set"
	OpSetWithTTL   = "set_ttl"
	OpGet          = "get"
	OpDelete       = "delete"
	OpScan         = "scan"
	OpScanByPrefix = "scan_prefix"
	OpTTL          = "ttl"
	OpBackup       = "backup"
	OpRestore      = "restore"
)

// Stats summarizes the sizes held by a Database.
type Stats struct {
	Records   int `json:"records"`
	Fields    int `json:"fields"`
	Snapshots int `json:"snapshots"`
}

// Database is a record store plus its backup archive.
type Database struct {
	mu      sync.RWMutex
	store   *memory.Store
	archive *snapshot.Archive
	metrics metric.Recorder
}

// Option configures a Database.
type Option func(*Database)

// WithRecorder sets the metric recorder.
func WithRecorder(r metric.Recorder) Option {
	return func(db *Database) {
		if r != nil {
			db.metrics = r
		}
	}
}

// New creates an empty database.
func New(opts ...Option) *Database {
	db := &Database{
		store:   memory.New(),
		archive: snapshot.NewArchive(),
		metrics: metric.Nop{},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

func (db *Database) observe(op string, start time.Time, result string) {
	db.metrics.ObserveOperation(op, result, time.Since(start))
}

func resultOf(err error) string {
	if err != nil {
		return metric.ResultError
	}
	return metric.ResultOK
}

func found(ok bool) string {
	if ok {
		return metric.ResultOK
	}
	return metric.ResultNotFound
}

// Set stores a permanent value at key/field.
func (db *Database) Set(ctx context.Context, key, field, value string, now int64) error {
	start := time.Now()

	db.mu.Lock()
	err := db.store.Set(key, field, value, now)
	db.mu.Unlock()

	db.observe(OpSet, start, resultOf(err))
	if err != nil {
		return err
	}

	logger.L(ctx).Debug("field set", "key", key, "field", field, "value", value, "time", now)
	return nil
}

// SetWithTTL stores a value at key/field expiring at now+ttl.
func (db *Database) SetWithTTL(ctx context.Context, key, field, value string, now, ttl int64) error {
	start := time.Now()

	db.mu.Lock()
	err := db.store.SetWithTTL(key, field, value, now, ttl)
	db.mu.Unlock()

	db.observe(OpSetWithTTL, start, resultOf(err))
	if err != nil {
		return err
	}

	logger.L(ctx).Debug("field set with ttl",
		"key", key, "field", field, "value", value, "time", now, "ttl", ttl)
	return nil
}

// Get returns the live value at key/field.
func (db *Database) Get(_ context.Context, key, field string, now int64) (string, bool) {
	start := time.Now()

	db.mu.RLock()
	v, ok := db.store.Get(key, field, now)
	db.mu.RUnlock()

	db.observe(OpGet, start, found(ok))
	return v, ok
}

// TTL returns the remaining lifetime of key/field (-1 when permanent).
func (db *Database) TTL(_ context.Context, key, field string, now int64) (int64, bool) {
	start := time.Now()

	db.mu.RLock()
	rem, ok := db.store.TTL(key, field, now)
	db.mu.RUnlock()

	db.observe(OpTTL, start, found(ok))
	return rem, ok
}

// Delete removes a live field and reports whether it existed.
func (db *Database) Delete(ctx context.Context, key, field string, now int64) bool {
	start := time.Now()

	db.mu.Lock()
	ok := db.store.Delete(key, field, now)
	db.mu.Unlock()

	db.observe(OpDelete, start, found(ok))
	if ok {
		logger.L(ctx).Debug("field deleted", "key", key, "field", field, "time", now)
	}
	return ok
}

// ScanAll returns the live fields of key sorted by name.
func (db *Database) ScanAll(_ context.Context, key string, now int64) []domain.FieldValue {
	start := time.Now()

	db.mu.RLock()
	out := db.store.ScanAll(key, now)
	db.mu.RUnlock()

	db.observe(OpScan, start, found(len(out) > 0))
	return out
}

// ScanByPrefix returns the live fields of key starting with prefix.
func (db *Database) ScanByPrefix(_ context.Context, key, prefix string, now int64) []domain.FieldValue {
	start := time.Now()

	db.mu.RLock()
	out := db.store.ScanByPrefix(key, prefix, now)
	db.mu.RUnlock()

	db.observe(OpScanByPrefix, start, found(len(out) > 0))
	return out
}

// Backup snapshots the state live at at and returns the record count.
func (db *Database) Backup(ctx context.Context, at int64) int {
	start := time.Now()

	db.mu.Lock()
	n := db.archive.Backup(db.store, at)
	db.mu.Unlock()

	db.observe(OpBackup, start, metric.ResultOK)
	logger.L(ctx).Info("backup taken", "backup_time", at, "records", n)
	return n
}

// Restore replaces the live state with the latest snapshot taken at or
// before restoreTime, re-basing expirations onto currentTime.
func (db *Database) Restore(ctx context.Context, currentTime, restoreTime int64) (snapshot.Info, error) {
	start := time.Now()

	db.mu.Lock()
	info, err := db.archive.Restore(db.store, currentTime, restoreTime)
	db.mu.Unlock()

	if err != nil {
		result := metric.ResultError
		if errors.Is(err, domain.ErrNoBackupAvailable) {
			result = metric.ResultNotFound
		}
		db.observe(OpRestore, start, result)
		logger.L(ctx).Warn("restore failed",
			"current_time", currentTime, "restore_time", restoreTime, "error", err)
		return snapshot.Info{}, err
	}
	db.observe(OpRestore, start, metric.ResultOK)

	logger.L(ctx).Info("state restored",
		"current_time", currentTime,
		"restore_time", restoreTime,
		"backup_time", info.Time,
		"records", info.Records)
	return info, nil
}

// Backups lists the archive in ascending backup-time order.
func (db *Database) Backups(_ context.Context) []snapshot.Info {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.archive.List()
}

// Stats returns the current sizes.
func (db *Database) Stats(_ context.Context) Stats {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return Stats{
		Records:   db.store.Len(),
		Fields:    db.store.FieldCount(),
		Snapshots: db.archive.Len(),
	}
}

// MetricStats adapts Stats for metric.NewCollector.
func (db *Database) MetricStats() metric.Stats {
	s := db.Stats(context.Background())
	return metric.Stats{
		Records:   s.Records,
		Fields:    s.Fields,
		Snapshots: s.Snapshots,
	}
}
