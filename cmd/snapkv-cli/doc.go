// Package main provides the entry point for snapkv-cli.
//
// snapkv-cli talks to snapkv-server over the Redis protocol:
//
//	snapkv-cli --server 127.0.0.1:6380 set --time 100 A name Alice
//	snapkv-cli -o json scan --time 100 A
//	snapkv-cli backup --time 120
//	snapkv-cli restore --time 500 130
//
// Defaults come from ~/.snapkv/cli.yaml and SNAPKV_CLI_* variables.
package main
