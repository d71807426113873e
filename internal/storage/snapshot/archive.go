// Package snapshot provides the point-in-time backup archive of snapkv.
package snapshot

import (
	"strconv"

	"github.com/google/btree"

	"github.com/yndnr/snapkv/internal/core/domain"
	"github.com/yndnr/snapkv/internal/storage/memory"
)

// btreeDegree is the fan-out of the ordered index.
const btreeDegree = 16

// Info describes one stored snapshot.
type Info struct {
	// Time is the logical backup time, the archive key.
	Time int64 `json:"time"`
	// Records is the number of non-empty records captured.
	Records int `json:"records"`
	// Fields is the number of cells captured.
	Fields int `json:"fields"`
}

// entry is an immutable snapshot held by the archive.
type entry struct {
	time    int64
	records memory.Records
	fields  int
}

func (e *entry) info() Info {
	return Info{Time: e.time, Records: len(e.records), Fields: e.fields}
}

func lessByTime(a, b *entry) bool {
	return a.time < b.time
}

// Archive is an ordered collection of snapshots.
// It is not safe for concurrent use.
type Archive struct {
	tree *btree.BTreeG[*entry]
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{
		tree: btree.NewG[*entry](btreeDegree, lessByTime),
	}
}

// Backup captures the cells of store that are live at at and stores them
// under key at, replacing any snapshot already taken at that exact time.
// It returns the number of non-empty records captured.
//
// The snapshot shares nothing with store: later writes to store are never
// visible through it.
func (a *Archive) Backup(store *memory.Store, at int64) int {
	records := store.CopyLive(at)

	fields := 0
	for _, rec := range records {
		fields += len(rec)
	}

	a.tree.ReplaceOrInsert(&entry{
		time:    at,
		records: records,
		fields:  fields,
	})
	return len(records)
}

// Restore replaces the contents of store with the snapshot whose backup
// time is the greatest one not exceeding restoreTime. Every expiring cell
// is re-based from the backup time to currentTime; permanent cells stay
// permanent. It returns the info of the snapshot that was used.
//
// Restore is a full replacement: nothing written to store before the call
// survives it. When no snapshot qualifies, store is left untouched and
// ErrNoBackupAvailable is returned.
//
// Calling Restore twice with the same arguments yields the same state;
// calling it again with a later currentTime shifts every expiration
// forward by the difference.
func (a *Archive) Restore(store *memory.Store, currentTime, restoreTime int64) (Info, error) {
	e, ok := a.floor(restoreTime)
	if !ok {
		return Info{}, domain.ErrNoBackupAvailable.WithDetails(
			"restore_time=" + strconv.FormatInt(restoreTime, 10))
	}

	restored := make(memory.Records, len(e.records))
	for key, rec := range e.records {
		cp := make(memory.Record, len(rec))
		for field, cell := range rec {
			cp[field] = cell.Rebase(e.time, currentTime)
		}
		restored[key] = cp
	}

	store.Replace(restored)
	return e.info(), nil
}

// Floor returns the snapshot Restore would use for restoreTime.
func (a *Archive) Floor(restoreTime int64) (Info, bool) {
	e, ok := a.floor(restoreTime)
	if !ok {
		return Info{}, false
	}
	return e.info(), true
}

func (a *Archive) floor(t int64) (*entry, bool) {
	var found *entry
	a.tree.DescendLessOrEqual(&entry{time: t}, func(e *entry) bool {
		found = e
		return false
	})
	return found, found != nil
}

// List returns every snapshot in ascending backup-time order.
func (a *Archive) List() []Info {
	out := make([]Info, 0, a.tree.Len())
	a.tree.Ascend(func(e *entry) bool {
		out = append(out, e.info())
		return true
	})
	return out
}

// Len returns the number of snapshots held.
func (a *Archive) Len() int {
	return a.tree.Len()
}
