// Package language normalizes ISO 639 language codes and validates the
// source/target pairs the translation pipeline accepts.
package language
