// Package command defines the snapkv-cli commands.
//
// Data commands take the logical time with --time and default to the
// current Unix time in seconds. Global flags must precede the command
// name; command flags must precede positional arguments.
package command
