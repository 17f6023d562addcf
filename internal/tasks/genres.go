package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/samber/lo"
)

// ArtistBatchPause separates consecutive artist lookups.
const ArtistBatchPause = 200 * time.Millisecond

// ResolveArtistGenres looks up every distinct artist of tracks, at most [services.MaxArtistIDs] per request.
//
// Artists appear in first-seen order. A batch whose response has no artists list leaves its artists
// unset. Errors from the executor abort the lookup.
func (e *SplitEngine) ResolveArtistGenres(ctx context.Context, progress chan<- ProgressUpdate, tracks []models.Track) (models.ArtistGenreMap, error) {
	ids := lo.Uniq(lo.FlatMap(tracks, func(t models.Track, _ int) []string {
		return t.ArtistIDs
	}))

	genres := make(models.ArtistGenreMap, len(ids))
	batches := lo.Chunk(ids, services.MaxArtistIDs)

	for i, batch := range batches {
		if i > 0 {
			if err := e.sleeper.Sleep(ctx, ArtistBatchPause); err != nil {
				return genres, err
			}
		}

		e.sendProgress(progress, artistBatchUpdate(i+1, len(batches), len(batch)))

		artists, ok, err := e.spotify.SeveralArtists(ctx, batch)
		if err != nil {
			return genres, err
		}
		if !ok {
			e.logger.Warn("artist batch returned no artists", "batch", i+1, "size", len(batch))
			continue
		}

		for _, a := range artists {
			genres[a.ID] = a.Genres
		}
	}

	e.logger.Debug("resolved artist genres", "artists", len(ids), "resolved", len(genres), "batches", len(batches))
	return genres, nil
}

// PickGenre returns the first genre of the first artist, in track order, that has any, or [models.UnknownGenre].
func PickGenre(track models.Track, genres models.ArtistGenreMap) string {
	for _, id := range track.ArtistIDs {
		if g := genres[id]; len(g) > 0 {
			return g[0]
		}
	}
	return models.UnknownGenre
}

// GroupByGenre places every track in exactly one genre bucket, preserving encounter order.
func GroupByGenre(tracks []models.Track, genres models.ArtistGenreMap) *models.GenreGroups {
	groups := &models.GenreGroups{}
	for _, t := range tracks {
		groups.Add(PickGenre(t, genres), t.URI)
	}
	return groups
}
