// Package service provides the database service of snapkv.
//
// Database owns one live record store and one snapshot archive and is the
// only entry point transports use. The storage packages underneath are
// single-threaded; Database serializes access to them:
//
//   - Get, TTL, the scans, Backups and Stats run under a read lock
//   - Set, SetWithTTL, Delete, Backup and Restore run under the write lock,
//     so a restore never interleaves with another operation
//
// Every operation is timed and reported to a metric.Recorder.
package service
