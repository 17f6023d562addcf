package models

import (
	"reflect"
	"testing"
	"time"
)

func TestGenreGroups(t *testing.T) {
	t.Run("zero value preserves encounter order", func(t *testing.T) {
		var g GenreGroups
		g.Add("rock", "u1")
		g.Add("jazz", "u2")
		g.Add("rock", "u3")
		g.Add(UnknownGenre, "u4")

		if got, want := g.Genres(), []string{"rock", "jazz", UnknownGenre}; !reflect.DeepEqual(got, want) {
			t.Errorf("Genres() = %v, want %v", got, want)
		}
		if got, want := g.URIs("rock"), []string{"u1", "u3"}; !reflect.DeepEqual(got, want) {
			t.Errorf("URIs(rock) = %v, want %v", got, want)
		}
		if g.Len() != 3 {
			t.Errorf("expected 3 buckets, got %d", g.Len())
		}
		if g.Total() != 4 {
			t.Errorf("expected 4 uris, got %d", g.Total())
		}
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		var g GenreGroups
		g.Add("rock", "u1")

		g.URIs("rock")[0] = "changed"
		g.Genres()[0] = "changed"

		if g.URIs("rock")[0] != "u1" || g.Genres()[0] != "rock" {
			t.Error("mutating returned slices should not change the groups")
		}
	})

	t.Run("unknown genre has no uris", func(t *testing.T) {
		var g GenreGroups
		if uris := g.URIs("missing"); len(uris) != 0 {
			t.Errorf("expected no uris, got %v", uris)
		}
	})

	t.Run("counts", func(t *testing.T) {
		var g GenreGroups
		g.Add("jazz", "u1")
		g.Add("rock", "u2")
		g.Add("jazz", "u3")

		want := []GenreCount{{Genre: "jazz", Count: 2}, {Genre: "rock", Count: 1}}
		if got := g.Counts(); !reflect.DeepEqual(got, want) {
			t.Errorf("Counts() = %v, want %v", got, want)
		}
	})
}

func TestCreatedPlaylistLink(t *testing.T) {
	withURL := CreatedPlaylist{ID: "pl1", ExternalURL: "https://open.spotify.com/playlist/pl1"}
	if withURL.Link() != "https://open.spotify.com/playlist/pl1" {
		t.Errorf("expected external url, got %s", withURL.Link())
	}

	withoutURL := CreatedPlaylist{ID: "pl2"}
	if withoutURL.Link() != "pl2" {
		t.Errorf("expected id fallback, got %s", withoutURL.Link())
	}
}

func TestSplitRunDuration(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	run := SplitRun{StartedAt: start, CompletedAt: start.Add(90 * time.Second)}
	if run.Duration() != 90*time.Second {
		t.Errorf("expected 90s, got %v", run.Duration())
	}
}
