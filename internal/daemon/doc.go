// Package daemon coordinates the long-running serve mode: it enforces
// single-instance execution with a lock file, owns the HTTP API
// server, and runs the background worker that drains the job queue.
package daemon
