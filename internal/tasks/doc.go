// Package tasks splits a playlist into per-genre playlists with real-time progress reporting.
//
// # Stages
//
// [SplitEngine.Run] performs the stages strictly in order, each consuming the previous stage's full output:
//
//  1. Resolve the authenticated user's profile
//  2. Locate the source playlist by exact name
//  3. Read every valid track (a URI and an artists list)
//  4. Resolve artist genres in batches of at most 50, pausing 200ms between batches
//  5. Group tracks by the first genre of their first artist that has one, or "Unknown"
//  6. Create one playlist per genre and append its tracks in batches of at most 100, pausing 250ms between batches
//
// A missing profile or source playlist ends the run early with [shared.ErrProfileUnavailable] or
// [shared.ErrPlaylistNotFound]. A failure while writing one genre is logged and recorded in
// [SplitResult.Failed]; the remaining genres still run.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Waits
//
// Every pause goes through a [services.Sleeper], so tests record waits instead of sleeping.
package tasks
