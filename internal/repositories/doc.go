// Package repositories implements SQLite persistence for split run history.
//
// [RunRepository] stores one row per finished split and one row per playlist it created.
// History is append-only from the split's point of view: a run is recorded once it completes and
// is never read back to resume or skip work.
//
// Sequence numbers provide stable, human-readable ordering (e.g. run #42) independent of UUIDs and timestamps.
// The [NextSequence] function increments per-table sequence counters in dedicated sequence tables.
package repositories
