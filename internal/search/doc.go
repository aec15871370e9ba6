// Package search finds and replaces text in an in-memory buffer.
//
// It is the single find/replace core shared by the CLI, batch rule files and
// the terminal view. Patterns are built from a raw term plus Options
// (match case, whole word, regex mode), scanned left to right into a
// MatchSet of non-overlapping spans, navigated with a 1-based Cursor and
// substituted by Replace. All offsets are character (rune) offsets.
//
// Nothing in this package holds global state or touches storage. Session
// is a convenience wrapper that keeps the cursor-reset rule in one place.
package search
