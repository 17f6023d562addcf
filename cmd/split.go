package main

import (
	"context"
	"errors"

	"github.com/desertthunder/genrex/internal/formatter"
	"github.com/desertthunder/genrex/internal/models"
	"github.com/desertthunder/genrex/internal/repositories"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// splitReport is the JSON form of a split result.
type splitReport struct {
	UserID   string                   `json:"user_id"`
	Source   *models.Playlist         `json:"source"`
	Items    int                      `json:"items"`
	Tracks   int                      `json:"tracks"`
	Genres   []models.GenreCount      `json:"genres"`
	Created  []models.CreatedPlaylist `json:"created,omitempty"`
	Failed   []failedGenre            `json:"failed,omitempty"`
	DryRun   bool                     `json:"dry_run"`
	Sequence int                      `json:"run,omitempty"`
}

type failedGenre struct {
	Genre string `json:"genre"`
	Error string `json:"error"`
}

func newSplitReport(result *tasks.SplitResult) splitReport {
	report := splitReport{
		UserID:  result.UserID,
		Source:  result.Source,
		Items:   result.RawItems,
		Tracks:  len(result.Tracks),
		Genres:  result.Groups.Counts(),
		Created: result.Created,
		DryRun:  result.DryRun,
	}
	for _, f := range result.Failed {
		report.Failed = append(report.Failed, failedGenre{Genre: f.Genre, Error: f.Err.Error()})
	}
	return report
}

// applySplitFlags overrides configuration values with flags given on the command line.
func applySplitFlags(cfg *shared.Config, cmd *cli.Command) {
	if v := cmd.String("token"); v != "" {
		cfg.Spotify.Token = v
	}
	if v := cmd.String("source"); v != "" {
		cfg.Split.SourcePlaylist = v
	}
	if cmd.IsSet("public") {
		cfg.Split.Public = cmd.Bool("public")
	}
	if v := cmd.String("description-prefix"); v != "" {
		cfg.Split.DescriptionPrefix = v
	}
}

// Split runs a genre split of the configured source playlist.
//
// A missing profile or source playlist is reported and treated as a successful no-op.
func (r *Runner) Split(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	applySplitFlags(cfg, cmd)

	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, err := r.newService(ctx, cfg.Spotify)
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	opts := tasks.OptionsFromConfig(cfg.Split, cmd.Bool("dry-run"))
	engine := tasks.NewSplitEngine(svc, r.sleeper, r.logger)

	r.logger.Info("starting split", "source", opts.SourcePlaylist, "dry_run", opts.DryRun)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if !asJSON {
				r.writeProgress(update)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if errors.Is(err, shared.ErrProfileUnavailable) || errors.Is(err, shared.ErrPlaylistNotFound) {
		r.logger.Warn("nothing to split", "reason", err)
		return nil
	}
	if err != nil {
		return err
	}

	sequence := 0
	if cfg.History.Enabled {
		sequence = r.recordRun(cfg.Database, result)
	}

	if asJSON {
		report := newSplitReport(result)
		report.Sequence = sequence
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlain("\n%s", formatter.GenreTable(result.Groups.Counts()))
	if result.DryRun {
		r.writePlain("%s\n", formatter.Styles.Help("Dry run: no playlists were created."))
		return nil
	}

	failed := make([]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, f.Genre)
	}
	r.writePlain("\n%s", formatter.Summary(result.Source.Name, result.Groups.Len(), result.Created, failed))
	return nil
}

// recordRun stores the result in the history database. Failures are logged, never returned.
func (r *Runner) recordRun(cfg shared.DatabaseConfig, result *tasks.SplitResult) int {
	db, err := shared.OpenHistory(cfg)
	if err != nil {
		r.logger.Warn("failed to open history database", "path", cfg.Path, "error", err)
		return 0
	}
	defer db.Close()

	run := result.Record()
	if err := repositories.NewRunRepository(db).Create(run); err != nil {
		r.logger.Warn("failed to record run", "error", err)
		return 0
	}

	r.logger.Info("recorded run", "run", run.Sequence, "id", run.ID)
	return run.Sequence
}

func (r *Runner) writeProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.ResolveProfile, tasks.LocatePlaylist, tasks.ReadTracks:
		r.writePlain("📥 %s\n", update.Message)
	case tasks.ResolveGenres:
		r.writePlain("🔍 %s\n", update.Message)
	case tasks.GroupTracks:
		r.writePlain("🗂  %s\n", update.Message)
	case tasks.CreatePlaylist:
		r.writePlain("📝 %s\n", update.Message)
	case tasks.AddTracks:
		r.writePlain("   %s\n", update.Message)
	default:
		r.writePlain("%s\n", update.Message)
	}
}
