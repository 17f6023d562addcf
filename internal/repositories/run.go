package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/shared"
)

const runColumns = `id, sequence, user_id, source_id, source_name, track_count, genre_count,
	created_count, failed_count, dry_run, started_at, completed_at`

// RunRepository persists [models.SplitRun] records and their playlists.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run and its playlists in one transaction, assigning the ID and sequence.
func (r *RunRepository) Create(run *models.SplitRun) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(tx, "split_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO split_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		id,
		sequence,
		run.UserID,
		run.SourceID,
		run.SourceName,
		run.TrackCount,
		run.GenreCount,
		run.CreatedCount,
		run.FailedCount,
		run.DryRun,
		run.StartedAt.UTC(),
		run.CompletedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, p := range run.Playlists {
		_, err := tx.Exec(`
			INSERT INTO run_playlists (run_id, position, genre, playlist_id, name, url, track_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, i, p.Genre, p.PlaylistID, p.Name, p.URL, p.TrackCount)
		if err != nil {
			return fmt.Errorf("failed to insert run playlist %q: %w", p.Genre, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = id
	run.Sequence = sequence
	return nil
}

// Get retrieves a run by ID, including its playlists
func (r *RunRepository) Get(id string) (*models.SplitRun, error) {
	query := `SELECT ` + runColumns + ` FROM split_runs WHERE id = ?`
	return r.getWithPlaylists(r.db.QueryRow(query, id), id)
}

// GetBySequence retrieves a run by its sequence number, including its playlists
func (r *RunRepository) GetBySequence(sequence int) (*models.SplitRun, error) {
	query := `SELECT ` + runColumns + ` FROM split_runs WHERE sequence = ?`
	return r.getWithPlaylists(r.db.QueryRow(query, sequence), fmt.Sprintf("#%d", sequence))
}

func (r *RunRepository) getWithPlaylists(row *sql.Row, ref string) (*models.SplitRun, error) {
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, ref)
	}
	if err != nil {
		return nil, err
	}

	if run.Playlists, err = r.playlists(run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// List retrieves the most recent runs, newest first, without their playlists. A limit of 0 or less returns all runs.
func (r *RunRepository) List(limit int) ([]*models.SplitRun, error) {
	query := `SELECT ` + runColumns + ` FROM split_runs ORDER BY sequence DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SplitRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Delete removes a run and, by cascade, its playlists.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM split_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return nil
}

func (r *RunRepository) playlists(runID string) ([]models.RunPlaylist, error) {
	rows, err := r.db.Query(`
		SELECT genre, playlist_id, name, url, track_count
		FROM run_playlists
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.RunPlaylist
	for rows.Next() {
		var p models.RunPlaylist
		if err := rows.Scan(&p.Genre, &p.PlaylistID, &p.Name, &p.URL, &p.TrackCount); err != nil {
			return nil, fmt.Errorf("failed to scan run playlist: %w", err)
		}
		playlists = append(playlists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// scanner is satisfied by [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.SplitRun, error) {
	var run models.SplitRun

	err := s.Scan(
		&run.ID,
		&run.Sequence,
		&run.UserID,
		&run.SourceID,
		&run.SourceName,
		&run.TrackCount,
		&run.GenreCount,
		&run.CreatedCount,
		&run.FailedCount,
		&run.DryRun,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return &run, nil
}
