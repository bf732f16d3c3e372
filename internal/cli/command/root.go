package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/pkg/resp"
)

// ErrReply is returned by single commands whose reply was a server error.
// The reply itself has already been printed.
var ErrReply = errors.New("server replied with an error")

const settingsKey = "settings"

// Settings are the resolved global options.
type Settings struct {
	Server      string
	Output      output.Format
	Timeout     time.Duration
	HistoryFile string
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "respkv-cli",
		Usage:   "command-line client for respkv-server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			SetCommand(),
			GetCommand(),
			ReplCommand(),
		},
		Before: func(c *cli.Context) error {
			s, err := resolveSettings(c)
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = make(map[string]any)
			}
			c.App.Metadata[settingsKey] = s
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "server",
			Aliases:     []string{"s"},
			Usage:       "respkv server address",
			EnvVars:     []string{"RESPKV_SERVER"},
			DefaultText: config.DefaultServer,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output format: raw, json, yaml",
			EnvVars:     []string{"RESPKV_OUTPUT"},
			DefaultText: config.DefaultOutput,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Aliases:     []string{"t"},
			Usage:       "Dial and per-command timeout",
			EnvVars:     []string{"RESPKV_TIMEOUT"},
			DefaultText: config.DefaultTimeout.String(),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "CLI config file",
			EnvVars:     []string{"RESPKV_CLI_CONFIG"},
			DefaultText: "~/.respkv/cli.yaml",
		},
	}
}

func resolveSettings(c *cli.Context) (*Settings, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load cli config: %w", err)
	}

	s := &Settings{
		Server:      cfg.Server,
		Timeout:     cfg.Timeout,
		HistoryFile: cfg.HistoryFile,
	}
	format := cfg.Output

	if c.IsSet("server") {
		s.Server = c.String("server")
	}
	if c.IsSet("output") {
		format = c.String("output")
	}
	if c.IsSet("timeout") {
		s.Timeout = c.Duration("timeout")
	}

	if s.Output, err = output.ParseFormat(format); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSettings retrieves the resolved settings from context.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s
	}
	return &Settings{
		Server:  config.DefaultServer,
		Output:  output.FormatRaw,
		Timeout: config.DefaultTimeout,
	}
}

// runOnce dials the server, sends args and prints the reply.
func runOnce(c *cli.Context, args ...string) error {
	s := GetSettings(c)

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := connection.Dial(ctx, s.Server, s.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(ctx, args...)
	if err != nil {
		return err
	}
	if err := output.NewFormatter(s.Output).Format(c.App.Writer, reply); err != nil {
		return err
	}
	if reply.Kind == resp.KindError {
		return ErrReply
	}
	return nil
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
