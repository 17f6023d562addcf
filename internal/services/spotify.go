// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// MaxArtistIDs is the largest batch accepted by GET /v1/artists.
	MaxArtistIDs = 50
	// MaxTrackURIs is the largest batch accepted by POST /v1/playlists/{id}/tracks.
	MaxTrackURIs = 100
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyArtist represents a Spotify artist with its genres.
type SpotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// CreatePlaylistRequest is the body of POST /v1/users/{id}/playlists.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Public      bool   `json:"public"`
	Description string `json:"description"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	BaseURL           string
	HTTPClient        *http.Client // base client wrapped by the bearer token transport
	RequestsPerSecond float64
	Sleeper           Sleeper
	Logger            *log.Logger
}

// SpotifyService implements [Service] over the Spotify Web API.
//
// The bearer token is attached by an [oauth2] static token source; acquiring or refreshing it happens elsewhere.
type SpotifyService struct {
	api    *Executor
	logger *log.Logger
}

var _ Service = (*SpotifyService)(nil)

// NewSpotifyService creates a Spotify client authenticated with a pre-provisioned bearer token.
func NewSpotifyService(ctx context.Context, token string, opts SpotifyOpts) (*SpotifyService, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: spotify token is empty", shared.ErrMissingCredentials)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	api := NewExecutor(ExecutorOpts{
		BaseURL:    opts.BaseURL,
		HTTPClient: oauth2.NewClient(ctx, src),
		Sleeper:    opts.Sleeper,
		Limiter:    limiter,
		Logger:     opts.Logger,
	})

	return NewSpotifyServiceWithExecutor(api, opts.Logger), nil
}

// NewSpotifyServiceWithExecutor creates a Spotify client over an existing [Executor].
func NewSpotifyServiceWithExecutor(api *Executor, logger *log.Logger) *SpotifyService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SpotifyService{api: api, logger: logger}
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	resp, err := s.api.Get(ctx, "/v1/me")
	if err != nil {
		return nil, err
	}

	user := &SpotifyUser{
		ID:          resp.Get("id").String(),
		DisplayName: resp.Get("display_name").String(),
	}
	if user.ID == "" {
		s.logger.Debug("profile response without id", "status", resp.StatusCode, "body", shared.Truncate(resp.Text(), 200))
	}

	return user, nil
}

// FindPlaylistByName pages through the user's playlists, 50 at a time, until one is named exactly name.
func (s *SpotifyService) FindPlaylistByName(ctx context.Context, name string) (*models.Playlist, error) {
	var found *models.Playlist

	fetch := func(ctx context.Context, limit, offset int) (*Response, error) {
		return s.api.Get(ctx, fmt.Sprintf("/v1/me/playlists?limit=%d&offset=%d", limit, offset))
	}

	err := paginate(ctx, playlistPageSize, fetch, func(item gjson.Result) bool {
		if !item.IsObject() || item.Get("name").String() != name {
			return true
		}
		found = &models.Playlist{
			ID:          item.Get("id").String(),
			Name:        item.Get("name").String(),
			Description: item.Get("description").String(),
			TrackCount:  int(item.Get("tracks.total").Int()),
			Public:      item.Get("public").Bool(),
			OwnerID:     item.Get("owner.id").String(),
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// PlaylistTracks reads a playlist's tracks, 100 at a time.
//
// Items without a track, a track URI, or an artists list are dropped.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, int, error) {
	var tracks []models.Track
	raw := 0

	fetch := func(ctx context.Context, limit, offset int) (*Response, error) {
		endpoint := fmt.Sprintf("/v1/playlists/%s/tracks?limit=%d&offset=%d", url.PathEscape(playlistID), limit, offset)
		return s.api.Get(ctx, endpoint)
	}

	err := paginate(ctx, trackPageSize, fetch, func(item gjson.Result) bool {
		raw++
		if track, ok := trackFromItem(item); ok {
			tracks = append(tracks, track)
		}
		return true
	})
	if err != nil {
		return nil, raw, err
	}

	return tracks, raw, nil
}

func trackFromItem(item gjson.Result) (models.Track, bool) {
	t := item.Get("track")
	if !t.IsObject() {
		return models.Track{}, false
	}

	uri := t.Get("uri").String()
	artists := t.Get("artists")
	if uri == "" || !artists.IsArray() {
		return models.Track{}, false
	}

	ids := []string{}
	for _, a := range artists.Array() {
		if id := a.Get("id").String(); id != "" {
			ids = append(ids, id)
		}
	}

	return models.Track{
		URI:       uri,
		ID:        t.Get("id").String(),
		Name:      t.Get("name").String(),
		ArtistIDs: ids,
	}, true
}

// SeveralArtists retrieves multiple artists by their IDs (up to 50).
//
// Null entries and entries without an ID are skipped; a missing genres field becomes an empty list.
func (s *SpotifyService) SeveralArtists(ctx context.Context, ids []string) ([]SpotifyArtist, bool, error) {
	if len(ids) == 0 {
		return nil, false, fmt.Errorf("%w: no artist IDs provided", shared.ErrMissingArgument)
	}
	if len(ids) > MaxArtistIDs {
		return nil, false, fmt.Errorf("%w: %d artist IDs, maximum %d", shared.ErrTooManyIDs, len(ids), MaxArtistIDs)
	}

	resp, err := s.api.Get(ctx, "/v1/artists?ids="+url.QueryEscape(strings.Join(ids, ",")))
	if err != nil {
		return nil, false, err
	}

	list := resp.Get("artists")
	if !list.IsArray() {
		return nil, false, nil
	}

	artists := make([]SpotifyArtist, 0, len(ids))
	for _, a := range list.Array() {
		id := a.Get("id").String()
		if !a.IsObject() || id == "" {
			continue
		}

		genres := []string{}
		for _, g := range a.Get("genres").Array() {
			genres = append(genres, g.String())
		}

		artists = append(artists, SpotifyArtist{ID: id, Name: a.Get("name").String(), Genres: genres})
	}

	return artists, true, nil
}

// CreatePlaylist creates a playlist on the user's account.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID string, req CreatePlaylistRequest) (*models.CreatedPlaylist, error) {
	endpoint := fmt.Sprintf("/v1/users/%s/playlists", url.PathEscape(userID))

	resp, err := s.api.Post(ctx, endpoint, req)
	if err != nil {
		return nil, err
	}

	id := resp.Get("id").String()
	if id == "" {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrPlaylistCreate, resp.StatusCode, shared.Truncate(resp.Text(), 200))
	}

	name := resp.Get("name").String()
	if name == "" {
		name = req.Name
	}

	return &models.CreatedPlaylist{
		ID:          id,
		Name:        name,
		ExternalURL: resp.Get("external_urls.spotify").String(),
	}, nil
}

// AddTracksToPlaylist appends a batch of up to 100 URIs.
//
// An error status or error payload yields [shared.ErrRequestRejected].
func (s *SpotifyService) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > MaxTrackURIs {
		return fmt.Errorf("%w: %d URIs, maximum %d", shared.ErrTooManyIDs, len(uris), MaxTrackURIs)
	}

	endpoint := fmt.Sprintf("/v1/playlists/%s/tracks", url.PathEscape(playlistID))

	resp, err := s.api.Post(ctx, endpoint, addTracksRequest{URIs: uris})
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest || resp.Get("error").Exists() {
		return fmt.Errorf("%w: status %d: %s", shared.ErrRequestRejected, resp.StatusCode, shared.Truncate(resp.Text(), 200))
	}

	return nil
}
