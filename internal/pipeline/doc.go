// Package pipeline drives subtitle documents through a translation
// backend: it extracts the translatable text segments, fans them out
// across a bounded worker pool, and writes the results back into a
// copy of the document with markup and timing untouched.
package pipeline
