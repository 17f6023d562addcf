package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/genrex/internal/formatter"
	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/repositories"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) openRuns(cmd *cli.Command) (*repositories.RunRepository, *sql.DB, error) {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	db, err := shared.OpenHistory(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return repositories.NewRunRepository(db), db, nil
}

// findRun resolves a run reference: a sequence number (optionally prefixed with #) or a run ID.
func findRun(repo *repositories.RunRepository, ref string) (*models.SplitRun, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: run number or ID", shared.ErrMissingArgument)
	}

	if seq, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}

// HistoryList lists recorded splits, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", shared.ErrInvalidArgument)
	}

	repo, db, err := r.openRuns(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repo.List(limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if runs == nil {
			runs = []*models.SplitRun{}
		}
		return r.writeJSON(runs, true)
	}

	return r.writePlain("%s", formatter.RunTable(runs))
}

// HistoryShow prints one recorded split with its playlists.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openRuns(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(repo, cmd.StringArg("run"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(run, true)
	}

	return r.writePlain("%s", formatter.RunDetails(run))
}

// HistoryDelete removes one recorded split.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openRuns(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(repo, cmd.StringArg("run"))
	if err != nil {
		return err
	}

	if err := repo.Delete(run.ID); err != nil {
		return err
	}

	r.logger.Info("deleted run", "run", run.Sequence, "id", run.ID)
	return r.writePlain("%s\n", formatter.Styles.OK(fmt.Sprintf("✓ Deleted run #%d (%s)", run.Sequence, run.SourceName)))
}
