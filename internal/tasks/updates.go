package tasks

import (
	"fmt"
	"strings"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	ResolveProfile Phase = iota
	LocatePlaylist
	ReadTracks
	ResolveGenres
	GroupTracks
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case ResolveProfile:
		return "resolve_profile"
	case LocatePlaylist:
		return "locate_playlist"
	case ReadTracks:
		return "read_tracks"
	case ResolveGenres:
		return "resolve_genres"
	case GroupTracks:
		return "group_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func resolvingProfileUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveProfile,
		Step:    1,
		Total:   1,
		Message: "Resolving Spotify profile...",
	}
}

func resolvedProfileUpdate(user *services.SpotifyUser) ProgressUpdate {
	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	return ProgressUpdate{
		Phase:   ResolveProfile,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Signed in as %s", name),
		Data:    user,
	}
}

func locatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LocatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking for playlist %q...", name),
	}
}

func foundPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LocatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func readTracksUpdate(valid, raw int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadTracks,
		Step:    valid,
		Total:   raw,
		Message: fmt.Sprintf("Read %d tracks (%d skipped)", valid, raw-valid),
	}
}

func artistBatchUpdate(step, total, size int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveGenres,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching genres for %d artists...", step, total, size),
	}
}

func groupedTracksUpdate(groups *models.GenreGroups) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GroupTracks,
		Step:    groups.Len(),
		Total:   groups.Len(),
		Message: fmt.Sprintf("Grouped %d tracks into %d genres", groups.Total(), groups.Len()),
		Data:    groups.Counts(),
	}
}

func createPlaylistUpdate(step, total int, name string, public bool) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Creating %s playlist %s...", step, total, strings.ToLower(shared.VisibilityString(public)), name),
	}
}

func createdPlaylistUpdate(step, total int, pl *models.CreatedPlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, pl.Name, pl.TrackCount),
		Data:    pl,
	}
}

func failedPlaylistUpdate(step, total int, genre string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, genre, err),
	}
}

func addTracksUpdate(step, total int, name string, size int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Adding %d tracks to %s...", step, total, size, name),
	}
}
