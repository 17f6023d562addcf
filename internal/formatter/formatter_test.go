package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/genrex/internal/models"
)

func TestGenreTable(t *testing.T) {
	out := GenreTable([]models.GenreCount{
		{Genre: "rock", Count: 2},
		{Genre: "jazz", Count: 1},
		{Genre: "Unknown", Count: 4},
	})

	for _, want := range []string{"Genre", "Tracks", "rock", "jazz", "Unknown", "Total", "7"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "rock") > strings.Index(out, "jazz") || strings.Index(out, "jazz") > strings.Index(out, "Unknown") {
		t.Errorf("expected encounter order, got:\n%s", out)
	}
}

func TestCreatedList(t *testing.T) {
	out := CreatedList([]models.CreatedPlaylist{
		{Genre: "rock", ID: "p1", Name: "MIX — rock", ExternalURL: "https://open.spotify.com/playlist/p1"},
		{Genre: "Unknown", ID: "p2", Name: "MIX — Unknown"},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "rock => MIX — rock ") || !strings.Contains(lines[0], "https://open.spotify.com/playlist/p1") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Unknown => MIX — Unknown ") || !strings.Contains(lines[1], "p2") {
		t.Errorf("expected ID fallback, got %q", lines[1])
	}
}

func TestSummary(t *testing.T) {
	t.Run("All Created", func(t *testing.T) {
		out := Summary("MIX", 1, []models.CreatedPlaylist{{Genre: "rock", ID: "p1", Name: "MIX — rock"}}, nil)

		if !strings.Contains(out, `Created 1 of 1 playlists from "MIX"`) {
			t.Errorf("missing heading:\n%s", out)
		}
		if strings.Contains(out, "Failed") {
			t.Errorf("unexpected failed section:\n%s", out)
		}
	})

	t.Run("With Failures", func(t *testing.T) {
		out := Summary("MIX", 3, []models.CreatedPlaylist{{Genre: "rock", ID: "p1", Name: "MIX — rock"}}, []string{"jazz", "Unknown"})

		for _, want := range []string{"Created 1 of 3", "Failed 2 genres", "  - jazz", "  - Unknown"} {
			if !strings.Contains(out, want) {
				t.Errorf("summary missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Partially Filled Playlist", func(t *testing.T) {
		created := []models.CreatedPlaylist{
			{Genre: "rock", ID: "p1", Name: "MIX — rock", TrackCount: 100},
			{Genre: "jazz", ID: "p2", Name: "MIX — jazz", TrackCount: 1},
		}
		out := Summary("MIX", 2, created, []string{"rock"})

		for _, want := range []string{"Created 2 of 2", "rock => MIX — rock", "Failed 1 genres", "  - rock"} {
			if !strings.Contains(out, want) {
				t.Errorf("summary missing %q:\n%s", want, out)
			}
		}
	})
}

func sampleRuns() []*models.SplitRun {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []*models.SplitRun{
		{
			ID: "id-2", Sequence: 2, UserID: "u1", SourceID: "s2", SourceName: "Chill",
			TrackCount: 10, GenreCount: 2, DryRun: true,
			StartedAt: started.Add(time.Hour), CompletedAt: started.Add(time.Hour + 5*time.Second),
		},
		{
			ID: "id-1", Sequence: 1, UserID: "u1", SourceID: "s1", SourceName: "MIX",
			TrackCount: 3, GenreCount: 3, CreatedCount: 2, FailedCount: 1,
			StartedAt: started, CompletedAt: started.Add(90 * time.Second),
			Playlists: []models.RunPlaylist{
				{Genre: "rock", PlaylistID: "p1", Name: "MIX — rock", URL: "https://open.spotify.com/playlist/p1", TrackCount: 1},
				{Genre: "Unknown", PlaylistID: "p3", Name: "MIX — Unknown", TrackCount: 1},
			},
		},
	}
}

func TestRunTable(t *testing.T) {
	t.Run("Runs", func(t *testing.T) {
		out := RunTable(sampleRuns())

		for _, want := range []string{"#", "Source", "Chill", "MIX", "dry run", "split"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
		if strings.Index(out, "Chill") > strings.Index(out, "MIX") {
			t.Errorf("expected listing order preserved:\n%s", out)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if out := RunTable(nil); !strings.Contains(out, "No runs recorded.") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestRunDetails(t *testing.T) {
	t.Run("Split", func(t *testing.T) {
		out := RunDetails(sampleRuns()[1])

		for _, want := range []string{
			"Run #1: MIX",
			"ID: id-1",
			"Source: MIX (s1)",
			"Created: 2",
			"Failed: 1",
			"Duration: 1m30s",
			"rock => MIX — rock",
			"https://open.spotify.com/playlist/p1",
			"Unknown => MIX — Unknown",
			"p3",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("details missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Dry run") {
			t.Errorf("unexpected dry run note:\n%s", out)
		}
	})

	t.Run("Dry Run", func(t *testing.T) {
		out := RunDetails(sampleRuns()[0])
		if !strings.Contains(out, "Dry run: nothing was created") {
			t.Errorf("missing dry run note:\n%s", out)
		}
	})
}

func TestToJSON(t *testing.T) {
	run := sampleRuns()[1]

	compact, err := ToJSON(run, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Error("expected compact output")
	}

	pretty, err := ToJSON(run, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"id\": \"id-1\"") {
		t.Errorf("expected indented output, got %s", pretty)
	}

	var decoded map[string]any
	if err := json.Unmarshal(pretty, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["source_name"] != "MIX" || decoded["created_count"] != float64(2) {
		t.Errorf("unexpected fields %v", decoded)
	}

	if _, err := ToJSON(make(chan int), false); err == nil {
		t.Error("expected error for unsupported value")
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette("#000000", "#000000", "#000000", "#000000", "#000000")
	for name, got := range map[string]string{
		"title": p.Title("a"),
		"ok":    p.OK("b"),
		"err":   p.Err("c"),
		"warn":  p.Warn("d"),
		"help":  p.Help("e"),
	} {
		if got == "" {
			t.Errorf("%s rendered empty", name)
		}
	}
	if !strings.Contains(p.OK("done"), "done") {
		t.Error("expected text preserved")
	}
}
