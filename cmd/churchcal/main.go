// Command churchcal prints liturgical calendar data and manages the
// API keys used by the export endpoint.
package main

import (
	"io"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/alecthomas/kong"

	"github.com/zapponejosh/church-calendar/internal/calendar"
	"github.com/zapponejosh/church-calendar/internal/config"
	"github.com/zapponejosh/church-calendar/internal/logger"
)

const version = "0.1.0"

// Globals holds flags shared by every command.
type Globals struct {
	EasterSource string `name:"easter-source" default:"computus" enum:"computus,rickar" env:"EASTER_SOURCE" help:"Easter calculator (computus, rickar)"`
	Database     string `name:"db" default:"./data/churchcal.db" env:"DATABASE_PATH" type:"path" help:"API key database path"`
	LogLevel     string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Diagnostic log level"`

	Out io.Writer        `kong:"-"`
	now func() time.Time `kong:"-"`
}

// CLI defines the command-line interface for churchcal.
type CLI struct {
	Globals

	Date     DateCmd     `cmd:"" help:"Show the calendar for one date (default today)"`
	Range    RangeCmd    `cmd:"" help:"Show the calendar for an inclusive date range"`
	HolyDays HolyDaysCmd `cmd:"" name:"holy-days" help:"List the holy days of a year"`
	Feasts   FeastsCmd   `cmd:"" help:"List the movable feasts of a year"`
	Keys     KeysGroup   `cmd:"" help:"Manage export API keys"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// KeysGroup contains API key operations.
type KeysGroup struct {
	Create KeysCreateCmd `cmd:"" help:"Issue a new API key"`
	List   KeysListCmd   `cmd:"" help:"List API keys"`
	Revoke KeysRevokeCmd `cmd:"" help:"Revoke an API key"`
}

func (g *Globals) logger() *slog.Logger {
	return logger.New(os.Stderr, g.LogLevel, "text")
}

func (g *Globals) engine() (*calendar.Engine, error) {
	cfg := &config.Config{EasterSource: g.EasterSource}
	return cfg.Engine(calendar.WithLogger(g.logger()))
}

func main() {
	cli := CLI{Globals: Globals{Out: os.Stdout, now: time.Now}}
	ctx := kong.Parse(&cli,
		kong.Name("churchcal"),
		kong.Description("Church calendar: seasons, weeks, holy days and year cycles"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
