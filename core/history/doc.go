// Package history provides the optional run-history audit log.
//
// Each completed comparison run inserts a single row of aggregate counts
// (mode, total keys, mismatches, missing counts) into MySQL. Record data is
// never persisted; records live only for the duration of their run.
//
// History is opt-in via configuration. When disabled, the application never
// connects to a database.
package history
