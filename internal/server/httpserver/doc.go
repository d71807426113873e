// Package httpserver serves the snapkv HTTP surface: health probes,
// Prometheus metrics and the admin API.
//
// Requests pass through Recover, RequestID and AccessLog in that order.
package httpserver
