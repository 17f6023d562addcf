// Package models defines the entities that flow through a genre split.
//
// The package contains two categories of types:
//
// 1. Run-scoped values built once per split and read-only afterwards
//   - [Playlist] : playlist metadata returned by the locator
//   - [Track] : a playlist track reduced to URI, ID, name and ordered artist IDs
//   - [ArtistGenreMap] : artist ID to genre list lookup
//   - [GenreGroups] : genre buckets of track URIs in first-encounter order
//   - [CreatedPlaylist] : a playlist created for one genre bucket
//
// 2. History records written after a run finishes
//   - [SplitRun] : summary of one split, keyed by a v4 UUID
//   - [RunPlaylist] : the playlists created by that split
package models
