// Package connection is the snapkv-cli client for the RESP endpoint.
//
// It reuses the server's codec so that both sides agree on framing and
// limits. One Client wraps one TCP connection and is not safe for
// concurrent use.
package connection
