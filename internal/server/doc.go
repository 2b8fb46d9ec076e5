// Package server exposes the HTTP surface: synchronous subtitle
// translation, asynchronous job submission, and daemon status.
package server
