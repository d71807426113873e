// Package output renders snapkv-cli results as a table, JSON or YAML.
//
// Tables are derived from struct fields by reflection; the json tag names
// the column. Scalars print as a bare line in table mode.
package output
