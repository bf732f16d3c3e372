package command

import (
	"context"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
)

// ReplCommand returns the interactive mode command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Send commands interactively",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not read or write the history file",
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	s := GetSettings(c)

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	sess := &session{settings: s, out: c.App.Writer}
	defer sess.close()

	historyFile := s.HistoryFile
	if historyFile == "" {
		historyFile = repl.DefaultHistoryPath()
	}
	if c.Bool("no-history") {
		historyFile = ""
	}

	r := repl.New(sess.exec,
		repl.WithInput(c.App.Reader),
		repl.WithOutput(c.App.Writer),
		repl.WithPrompt(s.Server+"> "),
		repl.WithHistory(repl.NewHistory(historyFile, repl.DefaultHistorySize)),
	)
	return r.Run(ctx)
}

// session keeps one connection open across REPL lines and redials after a
// connection failure.
type session struct {
	settings *Settings
	out      io.Writer
	client   *connection.Client
}

func (s *session) exec(ctx context.Context, args []string) error {
	if s.client == nil {
		client, err := connection.Dial(ctx, s.settings.Server, s.settings.Timeout)
		if err != nil {
			return err
		}
		s.client = client
	}

	reply, err := s.client.Do(ctx, args...)
	if err != nil {
		s.close()
		return err
	}
	return output.NewFormatter(s.settings.Output).Format(s.out, reply)
}

func (s *session) close() {
	if s.client != nil {
		_ = s.client.Close()
		s.client = nil
	}
}
