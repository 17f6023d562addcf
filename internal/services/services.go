// package services implements the Spotify Web API client used by genre splits
package services

import (
	"context"

	"github.com/desertthunder/genrex/internal/models"
)

// Service defines the Spotify Web API operations a genre split performs.
type Service interface {
	// CurrentUser fetches the authenticated user's profile. A profile without an ID is returned as-is.
	CurrentUser(ctx context.Context) (*SpotifyUser, error)

	// FindPlaylistByName pages through the user's playlists and returns the first exact name match, or nil.
	FindPlaylistByName(ctx context.Context, name string) (*models.Playlist, error)

	// PlaylistTracks reads every page of a playlist and returns the valid tracks
	// along with the number of raw items read, including null and incomplete entries.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, int, error)

	// SeveralArtists fetches up to [MaxArtistIDs] artists. ok is false when the response has no artists list.
	SeveralArtists(ctx context.Context, ids []string) (artists []SpotifyArtist, ok bool, err error)

	// CreatePlaylist creates a playlist for userID. A response without an ID yields [shared.ErrPlaylistCreate].
	CreatePlaylist(ctx context.Context, userID string, req CreatePlaylistRequest) (*models.CreatedPlaylist, error)

	// AddTracksToPlaylist appends up to [MaxTrackURIs] URIs to a playlist.
	AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error
}
