// Package domain defines the core value types of snapkv.
package domain

// Cell is a single field value plus its optional absolute expiration.
//
// Cell is a value type: assigning or passing a Cell copies it, so a Cell
// held by a snapshot can never be changed through the live store.
type Cell struct {
	// Value is the stored string.
	Value string `json:"value"`

	// ExpiresAt is the absolute logical expiration time.
	// Only meaningful when Expires is true; may be negative after a restore
	// re-anchors a snapshot to an earlier current time.
	ExpiresAt int64 `json:"expires_at,omitempty"`

	// Expires is false for permanent cells.
	Expires bool `json:"expires"`
}

// NewCell returns a permanent cell.
func NewCell(value string) Cell {
	return Cell{Value: value}
}

// NewCellWithTTL returns a cell expiring at now+ttl.
// A ttl <= 0 is accepted and yields a cell that is expired once the
// caller's clock moves past now+ttl.
func NewCellWithTTL(value string, now, ttl int64) Cell {
	return Cell{
		Value:     value,
		ExpiresAt: now + ttl,
		Expires:   true,
	}
}

// IsExpired reports whether the cell is expired at now.
// A cell written at t with ttl is readable for now in [t, t+ttl) and
// expired from t+ttl onwards.
func (c Cell) IsExpired(now int64) bool {
	return c.Expires && c.ExpiresAt <= now
}

// Rebase re-anchors the expiration from backupTime to currentTime so the
// remaining TTL measured at the backup moment is preserved.
func (c Cell) Rebase(backupTime, currentTime int64) Cell {
	if !c.Expires {
		return c
	}
	c.ExpiresAt = c.ExpiresAt - backupTime + currentTime
	return c
}

// Remaining returns ExpiresAt-now, or -1 for a permanent cell.
func (c Cell) Remaining(now int64) int64 {
	if !c.Expires {
		return -1
	}
	return c.ExpiresAt - now
}

// FieldValue is one entry of a scan result.
type FieldValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// String renders the pair as "field : value".
func (fv FieldValue) String() string {
	return fv.Field + " : " + fv.Value
}
