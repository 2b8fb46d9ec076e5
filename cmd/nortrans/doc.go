// Command nortrans translates SubRip subtitle files between languages,
// either in one shot from the command line or as a daemon exposing an
// HTTP API with a persistent job queue.
package main
