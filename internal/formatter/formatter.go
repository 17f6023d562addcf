// package formatter renders split results and run history for the terminal and as JSON
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/genrex/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		Headers(headers...)
}

// GenreTable renders bucket sizes in encounter order with a total row.
func GenreTable(counts []models.GenreCount) string {
	t := newTable("Genre", "Tracks")
	total := 0
	for _, c := range counts {
		t.Row(c.Genre, strconv.Itoa(c.Count))
		total += c.Count
	}
	t.Row("Total", strconv.Itoa(total))
	return t.String() + "\n"
}

// CreatedList renders one "genre => name link" line per created playlist.
func CreatedList(created []models.CreatedPlaylist) string {
	var buf bytes.Buffer
	for _, p := range created {
		fmt.Fprintf(&buf, "%s => %s %s\n", p.Genre, p.Name, Styles.Help(p.Link()))
	}
	return buf.String()
}

// Summary renders the outcome of a split: the created playlists followed by any failed genres.
//
// A genre whose playlist was created but not completely filled appears in both lists.
func Summary(source string, genres int, created []models.CreatedPlaylist, failed []string) string {
	var buf bytes.Buffer

	buf.WriteString(Styles.Title(fmt.Sprintf("Created %d of %d playlists from %q", len(created), genres, source)))
	buf.WriteString("\n\n")
	buf.WriteString(CreatedList(created))

	if len(failed) > 0 {
		buf.WriteString("\n")
		buf.WriteString(Styles.Warn(fmt.Sprintf("Failed %d genres:", len(failed))))
		buf.WriteString("\n")
		for _, g := range failed {
			fmt.Fprintf(&buf, "  - %s\n", g)
		}
	}

	return buf.String()
}

// RunTable renders a history listing.
func RunTable(runs []*models.SplitRun) string {
	if len(runs) == 0 {
		return Styles.Help("No runs recorded.") + "\n"
	}

	t := newTable("#", "Source", "Tracks", "Genres", "Created", "Failed", "Started", "Mode")
	for _, r := range runs {
		mode := "split"
		if r.DryRun {
			mode = "dry run"
		}
		t.Row(
			strconv.Itoa(r.Sequence),
			r.SourceName,
			strconv.Itoa(r.TrackCount),
			strconv.Itoa(r.GenreCount),
			strconv.Itoa(r.CreatedCount),
			strconv.Itoa(r.FailedCount),
			r.StartedAt.Local().Format(timeLayout),
			mode,
		)
	}
	return t.String() + "\n"
}

// RunDetails renders a single run with its playlists.
func RunDetails(run *models.SplitRun) string {
	var buf bytes.Buffer

	buf.WriteString(Styles.Title(fmt.Sprintf("Run #%d: %s", run.Sequence, run.SourceName)))
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "ID: %s\n", run.ID)
	fmt.Fprintf(&buf, "User: %s\n", run.UserID)
	fmt.Fprintf(&buf, "Source: %s (%s)\n", run.SourceName, run.SourceID)
	fmt.Fprintf(&buf, "Tracks: %d\n", run.TrackCount)
	fmt.Fprintf(&buf, "Genres: %d\n", run.GenreCount)
	fmt.Fprintf(&buf, "Created: %d\n", run.CreatedCount)
	fmt.Fprintf(&buf, "Failed: %d\n", run.FailedCount)
	fmt.Fprintf(&buf, "Started: %s\n", run.StartedAt.Local().Format(timeLayout))
	fmt.Fprintf(&buf, "Duration: %s\n", run.Duration().Round(time.Second))
	if run.DryRun {
		buf.WriteString("Dry run: nothing was created\n")
	}

	if len(run.Playlists) > 0 {
		buf.WriteString("\n")
		for _, p := range run.Playlists {
			link := p.URL
			if link == "" {
				link = p.PlaylistID
			}
			fmt.Fprintf(&buf, "%s => %s %s (%d tracks)\n", p.Genre, p.Name, Styles.Help(link), p.TrackCount)
		}
	}

	return buf.String()
}

// ToJSON encodes v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
