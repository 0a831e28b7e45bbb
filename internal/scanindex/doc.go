// Package scanindex persists the freshness table that lets the library
// scanner skip unchanged preset files across process restarts.
//
// The index is a single SQLite table keyed by identity (the de-duplicated
// preset name). Each entry records the source path, its modification time
// at extraction, and the path of the persisted preview. An entry is fresh
// when its stored modification time equals the file's current one.
//
// A missing or unreadable database is not an error: it is treated as an
// empty index and every file is re-extracted on the next pass. A failed
// write, by contrast, is escalated, since an unwritable index invalidates
// every future freshness decision.
package scanindex
