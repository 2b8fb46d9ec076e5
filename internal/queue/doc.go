// Package queue persists asynchronous translation jobs in SQLite so
// that submissions survive daemon restarts and can be inspected from
// the CLI and the HTTP API.
package queue
