// Package memory provides the live record store of snapkv.
//
// Data is organized as key -> field -> Cell. Every operation takes the
// caller's logical "current time"; there is no internal clock.
//
// Expiration is lazy: an expired cell is invisible to Get, Delete and the
// scans, but it stays in the map until Delete is called on a live value,
// or until a backup excludes it from the snapshot it produces.
//
// Thread Safety:
//
// Store is not safe for concurrent use. Callers that share a Store between
// goroutines must serialize access (see service.Database).
package memory
