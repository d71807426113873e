// Package domain defines the core value types of snapkv.
//
// Domain types are plain values without IO dependencies or framework
// coupling. This package contains:
//
//   - Cell: a field value with an optional absolute expiration time
//   - FieldValue: a field/value pair produced by scans
//   - Errors: domain error codes shared by every transport
//
// Time is always supplied by the caller as a logical integer timestamp;
// nothing in this package reads the wall clock.
package domain
