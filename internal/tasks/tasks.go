package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
)

// SplitOptions configures one split run.
type SplitOptions struct {
	SourcePlaylist    string // exact name of the playlist to split
	Public            bool   // visibility of the created playlists
	DescriptionPrefix string // empty selects the default template
	DryRun            bool   // stop after grouping, creating nothing
}

// OptionsFromConfig builds [SplitOptions] from the split section of the configuration.
func OptionsFromConfig(cfg shared.SplitConfig, dryRun bool) SplitOptions {
	return SplitOptions{
		SourcePlaylist:    cfg.SourcePlaylist,
		Public:            cfg.Public,
		DescriptionPrefix: cfg.Prefix(),
		DryRun:            dryRun,
	}
}

func (o SplitOptions) prefix() string {
	return shared.SplitConfig{SourcePlaylist: o.SourcePlaylist, DescriptionPrefix: o.DescriptionPrefix}.Prefix()
}

// GenreFailure records a genre whose playlist could not be written.
type GenreFailure struct {
	Genre string
	Err   error
}

// SplitResult contains all data from a split run.
type SplitResult struct {
	UserID      string                // Authenticated user
	Source      *models.Playlist      // Source playlist
	RawItems    int                   // Playlist items read, including null and incomplete entries
	Tracks      []models.Track        // Valid tracks in playlist order
	Genres      models.ArtistGenreMap // Resolved artist genres
	Groups      *models.GenreGroups   // Track URIs by genre
	Created     []models.CreatedPlaylist
	Failed      []GenreFailure
	DryRun      bool
	StartedAt   time.Time
	CompletedAt time.Time
}

// Record converts the result into a history entry.
func (r *SplitResult) Record() *models.SplitRun {
	run := &models.SplitRun{
		UserID:       r.UserID,
		TrackCount:   len(r.Tracks),
		CreatedCount: len(r.Created),
		FailedCount:  len(r.Failed),
		DryRun:       r.DryRun,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
	}
	if r.Source != nil {
		run.SourceID = r.Source.ID
		run.SourceName = r.Source.Name
	}
	if r.Groups != nil {
		run.GenreCount = r.Groups.Len()
	}
	for _, p := range r.Created {
		run.Playlists = append(run.Playlists, models.RunPlaylist{
			Genre:      p.Genre,
			PlaylistID: p.ID,
			Name:       p.Name,
			URL:        p.ExternalURL,
			TrackCount: p.TrackCount,
		})
	}
	return run
}

// Engine defines the genre split operation.
type Engine interface {
	// Run locates the source playlist, groups its tracks by genre, and writes one playlist per genre.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts SplitOptions) (*SplitResult, error)
}

// SplitEngine implements [Engine] over a [services.Service].
//
// All requests are made sequentially from the calling goroutine.
type SplitEngine struct {
	spotify services.Service
	sleeper services.Sleeper
	logger  *log.Logger
	now     func() time.Time
}

var _ Engine = (*SplitEngine)(nil)

// NewSplitEngine creates a SplitEngine. A nil sleeper waits in real time.
func NewSplitEngine(spotify services.Service, sleeper services.Sleeper, logger *log.Logger) *SplitEngine {
	if sleeper == nil {
		sleeper = services.RealSleeper
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SplitEngine{spotify: spotify, sleeper: sleeper, logger: logger, now: time.Now}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *SplitEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs a full genre split.
//
// A profile without an ID yields [shared.ErrProfileUnavailable] and an unknown source name yields
// [shared.ErrPlaylistNotFound]; neither makes any further request. With opts.DryRun the run stops
// after grouping. The partial result is returned alongside errors raised after the source playlist was read.
func (e *SplitEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts SplitOptions) (*SplitResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if strings.TrimSpace(opts.SourcePlaylist) == "" {
		return nil, fmt.Errorf("%w: source playlist name is required", shared.ErrMissingArgument)
	}

	result := &SplitResult{DryRun: opts.DryRun, StartedAt: e.now()}

	e.sendProgress(progress, resolvingProfileUpdate())
	user, err := e.spotify.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%w: profile response has no user id", shared.ErrProfileUnavailable)
	}
	result.UserID = user.ID
	e.sendProgress(progress, resolvedProfileUpdate(user))

	e.sendProgress(progress, locatingPlaylistUpdate(opts.SourcePlaylist))
	source, err := e.spotify.FindPlaylistByName(ctx, opts.SourcePlaylist)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: no playlist named %q", shared.ErrPlaylistNotFound, opts.SourcePlaylist)
	}
	result.Source = source
	e.sendProgress(progress, foundPlaylistUpdate(source))

	tracks, raw, err := e.spotify.PlaylistTracks(ctx, source.ID)
	if err != nil {
		return result, err
	}
	result.Tracks = tracks
	result.RawItems = raw
	e.sendProgress(progress, readTracksUpdate(len(tracks), raw))
	e.logger.Info("read tracks", "playlist", source.Name, "valid", len(tracks), "items", raw)

	genres, err := e.ResolveArtistGenres(ctx, progress, tracks)
	if err != nil {
		return result, err
	}
	result.Genres = genres

	result.Groups = GroupByGenre(tracks, genres)
	e.sendProgress(progress, groupedTracksUpdate(result.Groups))

	if opts.DryRun {
		result.CompletedAt = e.now()
		return result, nil
	}

	created, failed, err := e.WritePlaylists(ctx, progress, user.ID, source.Name, result.Groups, opts)
	result.Created = created
	result.Failed = failed
	result.CompletedAt = e.now()
	if err != nil {
		return result, err
	}

	return result, nil
}
