// Package services provides the shared error classification and request
// context helpers used by the daemon, server, and pipeline layers.
package services
