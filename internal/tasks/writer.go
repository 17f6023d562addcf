package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/samber/lo"
)

const (
	// TrackBatchPause separates consecutive track appends to one playlist.
	TrackBatchPause = 250 * time.Millisecond
	// MaxPlaylistNameLength is the longest playlist name sent on creation, in characters.
	MaxPlaylistNameLength = 100
)

// PlaylistName names the playlist for genre, truncated to [MaxPlaylistNameLength] characters.
func PlaylistName(source, genre string) string {
	return shared.Truncate(fmt.Sprintf("%s — %s", source, genre), MaxPlaylistNameLength)
}

// PlaylistDescription describes the playlist for genre.
func PlaylistDescription(prefix, genre string) string {
	return prefix + ": " + genre
}

// WritePlaylists creates one playlist per genre, in encounter order, and fills it.
//
// A genre that fails is logged and returned in the failure list; the remaining genres still run.
// A playlist that was created before its genre failed is still listed in created, with the tracks it received.
// Only context cancellation stops the loop early.
func (e *SplitEngine) WritePlaylists(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	userID, source string,
	groups *models.GenreGroups,
	opts SplitOptions,
) ([]models.CreatedPlaylist, []GenreFailure, error) {
	genres := groups.Genres()
	prefix := opts.prefix()

	var created []models.CreatedPlaylist
	var failed []GenreFailure

	for i, genre := range genres {
		if err := ctx.Err(); err != nil {
			return created, failed, err
		}

		req := services.CreatePlaylistRequest{
			Name:        PlaylistName(source, genre),
			Public:      opts.Public,
			Description: PlaylistDescription(prefix, genre),
		}

		e.sendProgress(progress, createPlaylistUpdate(i+1, len(genres), req.Name, req.Public))

		pl, err := e.writeGenre(ctx, progress, userID, genre, req, groups.URIs(genre))
		if pl != nil {
			created = append(created, *pl)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return created, failed, ctxErr
			}
			e.logger.Warn("genre failed", "genre", genre, "error", err)
			failed = append(failed, GenreFailure{Genre: genre, Err: err})
			e.sendProgress(progress, failedPlaylistUpdate(i+1, len(genres), genre, err))
			continue
		}

		e.sendProgress(progress, createdPlaylistUpdate(i+1, len(genres), pl))
	}

	return created, failed, nil
}

// writeGenre creates the playlist and appends uris in batches of at most [services.MaxTrackURIs].
//
// A rejected batch is logged and the next batch is sent. Any other error abandons the genre;
// once the playlist exists it is returned with the error, counting only the tracks added so far.
func (e *SplitEngine) writeGenre(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	userID, genre string,
	req services.CreatePlaylistRequest,
	uris []string,
) (*models.CreatedPlaylist, error) {
	pl, err := e.spotify.CreatePlaylist(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	pl.Genre = genre
	logger := shared.WithLogger(e.logger, "genre", genre, "playlist", pl.ID)

	batches := lo.Chunk(uris, services.MaxTrackURIs)
	for i, batch := range batches {
		if i > 0 {
			if err := e.sleeper.Sleep(ctx, TrackBatchPause); err != nil {
				return pl, err
			}
		}

		e.sendProgress(progress, addTracksUpdate(i+1, len(batches), pl.Name, len(batch)))

		if err := e.spotify.AddTracksToPlaylist(ctx, pl.ID, batch); err != nil {
			if errors.Is(err, shared.ErrRequestRejected) {
				logger.Warn("track batch rejected", "batch", i+1, "error", err)
				continue
			}
			return pl, fmt.Errorf("playlist %s created but not filled: %w", pl.ID, err)
		}
		pl.TrackCount += len(batch)
	}

	logger.Info("created playlist", "name", pl.Name, "tracks", pl.TrackCount)
	return pl, nil
}
