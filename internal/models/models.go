// package models defines the data model for genre splits
package models

import (
	"time"
)

// UnknownGenre labels tracks whose artists carry no genre.
const UnknownGenre = "Unknown"

// Playlist represents a playlist as listed for the authenticated user.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
	OwnerID     string `json:"owner_id,omitempty"`
}

// Track is a playlist entry that has a URI and an artist list.
type Track struct {
	URI       string   `json:"uri"`
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ArtistIDs []string `json:"artist_ids"`
}

// ArtistGenreMap maps an artist ID to its genres in the order the API lists them.
type ArtistGenreMap map[string][]string

// CreatedPlaylist is a genre playlist created during a run.
type CreatedPlaylist struct {
	Genre       string `json:"genre"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	ExternalURL string `json:"external_url,omitempty"`
	TrackCount  int    `json:"track_count"`
}

// Link returns the external URL, or the playlist ID when the API returned none.
func (c CreatedPlaylist) Link() string {
	if c.ExternalURL != "" {
		return c.ExternalURL
	}
	return c.ID
}

// SplitRun summarizes a finished split for the history database.
type SplitRun struct {
	ID           string        `json:"id"`
	Sequence     int           `json:"sequence"`
	UserID       string        `json:"user_id"`
	SourceID     string        `json:"source_id"`
	SourceName   string        `json:"source_name"`
	TrackCount   int           `json:"track_count"`
	GenreCount   int           `json:"genre_count"`
	CreatedCount int           `json:"created_count"`
	FailedCount  int           `json:"failed_count"`
	DryRun       bool          `json:"dry_run"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  time.Time     `json:"completed_at"`
	Playlists    []RunPlaylist `json:"playlists,omitempty"`
}

// RunPlaylist is one playlist created by a [SplitRun].
type RunPlaylist struct {
	Genre      string `json:"genre"`
	PlaylistID string `json:"playlist_id"`
	Name       string `json:"name"`
	URL        string `json:"url,omitempty"`
	TrackCount int    `json:"track_count"`
}

// Duration returns how long the run took.
func (r *SplitRun) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
