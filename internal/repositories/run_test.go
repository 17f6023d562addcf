package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/google/uuid"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenHistory(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func sampleRun(source string) *models.SplitRun {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.SplitRun{
		UserID:       "u1",
		SourceID:     "src-" + source,
		SourceName:   source,
		TrackCount:   3,
		GenreCount:   3,
		CreatedCount: 2,
		FailedCount:  1,
		StartedAt:    started,
		CompletedAt:  started.Add(90 * time.Second),
		Playlists: []models.RunPlaylist{
			{Genre: "rock", PlaylistID: "p1", Name: source + " — rock", URL: "https://open.spotify.com/playlist/p1", TrackCount: 1},
			{Genre: "Unknown", PlaylistID: "p2", Name: source + " — Unknown", TrackCount: 1},
		},
	}
}

func TestRunRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		first := sampleRun("MIX")
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		second := sampleRun("Chill")
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		if _, err := uuid.Parse(first.ID); err != nil {
			t.Errorf("expected UUID, got %q", first.ID)
		}
		if first.Sequence != 1 || second.Sequence != 2 {
			t.Errorf("expected sequences 1 and 2, got %d and %d", first.Sequence, second.Sequence)
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		run := sampleRun("MIX")
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := repo.Get(run.ID)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}

		if got.SourceName != "MIX" || got.UserID != "u1" || got.CreatedCount != 2 || got.FailedCount != 1 {
			t.Errorf("unexpected run %+v", got)
		}
		if !got.StartedAt.Equal(run.StartedAt) || got.Duration() != 90*time.Second {
			t.Errorf("unexpected timestamps %v %v", got.StartedAt, got.CompletedAt)
		}
		if len(got.Playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(got.Playlists))
		}
		if got.Playlists[0].Genre != "rock" || got.Playlists[1].Genre != "Unknown" {
			t.Errorf("expected creation order, got %+v", got.Playlists)
		}
		if got.Playlists[0].URL == "" || got.Playlists[1].URL != "" {
			t.Errorf("unexpected URLs %+v", got.Playlists)
		}
	})

	t.Run("GetBySequence", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		for _, name := range []string{"A", "B"} {
			if err := repo.Create(sampleRun(name)); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		got, err := repo.GetBySequence(2)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if got.SourceName != "B" || len(got.Playlists) != 2 {
			t.Errorf("unexpected run %+v", got)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
		if _, err := repo.GetBySequence(7); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("Dry Run Without Playlists", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		run := sampleRun("MIX")
		run.DryRun = true
		run.Playlists = nil
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := repo.Get(run.ID)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if !got.DryRun || len(got.Playlists) != 0 {
			t.Errorf("unexpected run %+v", got)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		for _, name := range []string{"A", "B", "C"} {
			if err := repo.Create(sampleRun(name)); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		all, err := repo.List(0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(all) != 3 || all[0].SourceName != "C" || all[2].SourceName != "A" {
			t.Errorf("expected newest first, got %d runs", len(all))
		}
		if all[0].Playlists != nil {
			t.Error("expected playlists not loaded")
		}

		limited, err := repo.List(2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(limited) != 2 || limited[1].SourceName != "B" {
			t.Errorf("unexpected limited list %+v", limited)
		}
	})

	t.Run("List Empty", func(t *testing.T) {
		db := setupTestDB(t)

		runs, err := NewRunRepository(db).List(10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected no runs, got %d", len(runs))
		}
	})

	t.Run("Delete Cascades", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)

		run := sampleRun("MIX")
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		if err := repo.Delete(run.ID); err != nil {
			t.Fatalf("failed to delete run: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM run_playlists").Scan(&count); err != nil {
			t.Fatalf("failed to count playlists: %v", err)
		}
		if count != 0 {
			t.Errorf("expected playlists removed, got %d", count)
		}

		if err := repo.Delete(run.ID); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRunRepository(db)
		db.Close()

		run := sampleRun("MIX")
		if err := repo.Create(run); err == nil {
			t.Error("expected error on closed database")
		}
		if run.ID != "" {
			t.Error("expected ID unset after failed create")
		}
		if _, err := repo.List(0); err == nil {
			t.Error("expected error on closed database")
		}
	})
}

func TestNextSequence(t *testing.T) {
	t.Run("Increments", func(t *testing.T) {
		db := setupTestDB(t)

		for want := 1; want <= 3; want++ {
			tx, err := db.Begin()
			if err != nil {
				t.Fatalf("failed to begin: %v", err)
			}
			got, err := NextSequence(tx, "split_runs")
			if err != nil {
				t.Fatalf("failed to get sequence: %v", err)
			}
			if err := tx.Commit(); err != nil {
				t.Fatalf("failed to commit: %v", err)
			}
			if got != want {
				t.Errorf("expected %d, got %d", want, got)
			}
		}
	})

	t.Run("Rolled Back", func(t *testing.T) {
		db := setupTestDB(t)

		tx, _ := db.Begin()
		if _, err := NextSequence(tx, "split_runs"); err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		tx.Rollback()

		tx, _ = db.Begin()
		defer tx.Rollback()
		got, err := NextSequence(tx, "split_runs")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != 1 {
			t.Errorf("expected rollback to discard increment, got %d", got)
		}
	})

	t.Run("Unknown Table", func(t *testing.T) {
		db := setupTestDB(t)

		tx, _ := db.Begin()
		defer tx.Rollback()
		if _, err := NextSequence(tx, "nope"); err == nil {
			t.Error("expected error for unknown table")
		}
	})
}
