package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/zapponejosh/church-calendar/internal/calendar"
	"github.com/zapponejosh/church-calendar/internal/database"
	"github.com/zapponejosh/church-calendar/internal/export"
)

// Output formats accepted by --format on top of the export formats.
const (
	formatAuto  = "auto"
	formatTable = "table"
)

// DateCmd shows one date.
type DateCmd struct {
	Date   string `arg:"" optional:"" help:"Date as YYYY-MM-DD (default today)"`
	TZ     string `name:"tz" help:"IANA time zone used for today"`
	Format string `short:"f" default:"auto" enum:"auto,table,csv,json,yaml" help:"Output format"`
}

func (c *DateCmd) Run(g *Globals) error {
	date, err := c.resolve(g.now())
	if err != nil {
		return err
	}

	engine, err := g.engine()
	if err != nil {
		return err
	}
	return g.writeRows(c.Format, []export.Row{export.NewRow(engine.BuildResult(date))})
}

func (c *DateCmd) resolve(now time.Time) (time.Time, error) {
	if c.Date != "" {
		date, err := calendar.ParseDateString(c.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", c.Date)
		}
		return date, nil
	}
	if c.TZ != "" {
		loc, err := time.LoadLocation(c.TZ)
		if err != nil {
			return time.Time{}, fmt.Errorf("unknown time zone %q: %w", c.TZ, err)
		}
		now = now.In(loc)
	}
	return now, nil
}

// RangeCmd shows an inclusive date range.
type RangeCmd struct {
	Start  string `required:"" help:"First date (YYYY-MM-DD)"`
	End    string `required:"" help:"Last date (YYYY-MM-DD)"`
	Format string `short:"f" default:"auto" enum:"auto,table,csv,json,yaml" help:"Output format"`
}

func (c *RangeCmd) Run(g *Globals) error {
	start, err := calendar.ParseDateString(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date %q: use YYYY-MM-DD", c.Start)
	}
	end, err := calendar.ParseDateString(c.End)
	if err != nil {
		return fmt.Errorf("invalid end date %q: use YYYY-MM-DD", c.End)
	}

	engine, err := g.engine()
	if err != nil {
		return err
	}
	results, err := engine.BuildRange(start, end)
	if err != nil {
		return err
	}
	return g.writeRows(c.Format, export.NewRows(results))
}

// HolyDaysCmd lists the holy-day catalog for a year.
type HolyDaysCmd struct {
	Year int  `arg:"" help:"Calendar year"`
	JSON bool `help:"Print JSON instead of a table"`
}

func (c *HolyDaysCmd) Run(g *Globals) error {
	engine, err := g.engine()
	if err != nil {
		return err
	}
	days, err := engine.HolyDays(c.Year)
	if err != nil {
		return err
	}

	if c.JSON {
		return g.writeJSON(days)
	}
	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tHOLY DAY")
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", calendar.FormatDate(d.Date), calendar.DayName(d.Date), d.Name)
	}
	return tw.Flush()
}

// FeastsCmd lists the movable feasts of a year.
type FeastsCmd struct {
	Year int  `arg:"" help:"Calendar year"`
	JSON bool `help:"Print JSON instead of a table"`
}

func (c *FeastsCmd) Run(g *Globals) error {
	engine, err := g.engine()
	if err != nil {
		return err
	}
	summary, err := engine.YearSummary(c.Year)
	if err != nil {
		return err
	}

	if c.JSON {
		return g.writeJSON(summary)
	}
	fmt.Fprintf(g.Out, "Easter:                 %s\n", summary.Easter)
	fmt.Fprintf(g.Out, "First Sunday of Advent: %s (%s begins)\n", summary.FirstSundayOfAdvent, summary.AdventCycle)
	fmt.Fprintln(g.Out)

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FEAST\tDATE")
	for _, f := range summary.Feasts {
		fmt.Fprintf(tw, "%s\t%s\n", f.Feast, f.Date)
	}
	return tw.Flush()
}

// KeysCreateCmd issues a key.
type KeysCreateCmd struct {
	Name string `arg:"" help:"Name describing the key holder"`
}

func (c *KeysCreateCmd) Run(g *Globals) error {
	return g.withStore(func(ctx context.Context, db *database.DB) error {
		issued, err := db.CreateAPIKey(ctx, c.Name)
		if err != nil {
			return fmt.Errorf("failed to create API key: %w", err)
		}
		fmt.Fprintf(g.Out, "Created API key %q\n", issued.Name)
		fmt.Fprintf(g.Out, "  ID:     %s\n", issued.PublicID)
		fmt.Fprintf(g.Out, "  Prefix: %s\n", issued.Prefix)
		fmt.Fprintf(g.Out, "  Key:    %s\n", issued.Key)
		fmt.Fprintln(g.Out, "The key is not stored and cannot be shown again.")
		return nil
	})
}

// KeysListCmd lists keys.
type KeysListCmd struct{}

func (c *KeysListCmd) Run(g *Globals) error {
	return g.withStore(func(ctx context.Context, db *database.DB) error {
		keys, err := db.ListAPIKeys(ctx)
		if err != nil {
			return fmt.Errorf("failed to list API keys: %w", err)
		}
		if len(keys) == 0 {
			fmt.Fprintln(g.Out, "No API keys.")
			return nil
		}

		tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPREFIX\tCREATED\tLAST USED\tSTATUS")
		for _, k := range keys {
			status := "active"
			if !k.Active() {
				status = "revoked"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				k.PublicID, k.Name, k.Prefix, k.CreatedAt.Format(time.RFC3339), formatOptionalTime(k.LastUsedAt), status)
		}
		return tw.Flush()
	})
}

// KeysRevokeCmd revokes a key.
type KeysRevokeCmd struct {
	ID string `arg:"" help:"Public ID of the key"`
}

func (c *KeysRevokeCmd) Run(g *Globals) error {
	return g.withStore(func(ctx context.Context, db *database.DB) error {
		if err := db.RevokeAPIKey(ctx, c.ID); err != nil {
			if database.IsNotFound(err) {
				return fmt.Errorf("API key %s not found or already revoked", c.ID)
			}
			return fmt.Errorf("failed to revoke API key: %w", err)
		}
		fmt.Fprintf(g.Out, "Revoked API key %s\n", c.ID)
		return nil
	})
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.Out, "churchcal version %s\n", version)
	return nil
}

// withStore opens and migrates the key database for the duration of fn.
func (g *Globals) withStore(fn func(ctx context.Context, db *database.DB) error) error {
	db, err := database.Open(database.DefaultConfig(g.Database), g.logger())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		return err
	}
	return fn(ctx, db)
}

// writeRows prints calendar rows. auto picks a table on a terminal and
// CSV otherwise.
func (g *Globals) writeRows(format string, rows []export.Row) error {
	if format == formatAuto {
		format = string(export.FormatCSV)
		if g.isTerminal() {
			format = formatTable
		}
	}

	if format == formatTable {
		return writeTable(g, rows)
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	return export.Write(g.Out, f, rows)
}

func writeTable(g *Globals, rows []export.Row) error {
	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(export.CSVHeader, "\t")))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row.Record(), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, row := range rows {
		if len(row.Unavailable) > 0 {
			fmt.Fprintf(g.Out, "%s: unavailable: %s\n", row.Date, strings.Join(row.Unavailable, ", "))
		}
	}
	return nil
}

func (g *Globals) writeJSON(v any) error {
	enc := json.NewEncoder(g.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isTerminal reports whether output goes to an interactive terminal.
func (g *Globals) isTerminal() bool {
	f, ok := g.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}
