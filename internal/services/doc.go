// Package services implements the Spotify Web API client used by genre splits.
//
// # Request Executor
//
// [Executor] sends one request at a time and decides after every attempt, through a small decision
// function, whether to return the response, retry, or give up:
//   - 429 : wait Retry-After (default 1) plus one second, then retry
//   - 5xx : wait 500ms × attempt number while attempts remain, then retry
//   - anything else : return the response untouched, callers read the payload
//
// After five attempts a request that is still rate limited fails with [shared.ErrRetriesExhausted].
// Waits go through a [Sleeper] so tests can record them instead of sleeping.
//
// Bodies that parse as JSON are exposed as a [gjson.Result], which lets callers treat missing
// or malformed fields as absent instead of failing the whole decode.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with a static bearer token through [oauth2.StaticTokenSource].
// Listings are walked with limit/offset pagination that stops on the first short page.
// Batch endpoints reject oversized input with [shared.ErrTooManyIDs]:
//   - GET /v1/artists : at most [MaxArtistIDs]
//   - POST /v1/playlists/{id}/tracks : at most [MaxTrackURIs]
package services
