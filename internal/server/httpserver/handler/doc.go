// Package handler implements the snapkv HTTP endpoints: health probes and
// the admin API for backups, restores and statistics.
//
// Every JSON body uses the Response envelope. Failures carry a
// KV-<AREA>-<NNNN> code whose numeric part selects the HTTP status.
package handler
