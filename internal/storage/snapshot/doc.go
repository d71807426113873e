// Package snapshot provides the point-in-time backup archive of snapkv.
//
// An Archive keeps an ordered set of snapshots keyed by their logical
// backup time. Each snapshot is a deep copy of the live store, filtered of
// cells that were already expired at the backup time.
//
// Restore picks the snapshot with the greatest backup time not exceeding
// the requested restore time (a floor lookup) and rebuilds the live store
// from it, re-anchoring every expiration so that the TTL remaining at the
// backup moment is preserved relative to the new current time:
//
//	expiresAt' = expiresAt - backupTime + currentTime
//
// The archive is never pruned; its size is bounded only by how often the
// caller takes backups.
package snapshot
