package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snapkv/internal/cli/connection"
	"github.com/yndnr/snapkv/internal/cli/output"
	"github.com/yndnr/snapkv/internal/infra/buildinfo"
)

// PingResult is printed by ping.
type PingResult struct {
	Status  string `json:"status" yaml:"status"`
	Latency string `json:"latency" yaml:"latency"`
}

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers",
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				d, err := cl.Ping(ctx)
				return PingResult{Status: "PONG", Latency: d.String()}, err
			})
		},
	}
}

// InfoCommand returns the info command.
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show record, field and snapshot counts",
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				return cl.Info(ctx)
			})
		},
	}
}

// VersionCommand returns the version command. It needs no server.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			return output.NewFormatter(flags.Output).Format(c.App.Writer, buildinfo.Get())
		},
	}
}

func parseInt64(s, name string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return n, nil
}
