package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snapkv/internal/cli/config"
	"github.com/yndnr/snapkv/internal/cli/connection"
	"github.com/yndnr/snapkv/internal/cli/output"
	"github.com/yndnr/snapkv/internal/infra/buildinfo"
)

// now supplies the default --time value.
var now = func() int64 { return time.Now().Unix() }

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "snapkv-cli",
		Usage:   "snapkv command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SetCommand(),
			SetTTLCommand(),
			GetCommand(),
			DelCommand(),
			ScanCommand(),
			TTLCommand(),
			BackupCommand(),
			RestoreCommand(),
			BackupsCommand(),
			InfoCommand(),
			PingCommand(),
			VersionCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "CLI config file",
			Value: config.DefaultPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "snapkv RESP address (host:port)",
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "password sent with AUTH",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "request timeout",
		},
	}
}

func timeFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:    "time",
		Aliases: []string{"t"},
		Usage:   "logical time of the operation (default: current Unix time)",
	}
}

func timeOf(c *cli.Context) int64 {
	if c.IsSet("time") {
		return c.Int64("time")
	}
	return now()
}

// GlobalFlags are the resolved connection and output settings.
type GlobalFlags struct {
	Server   string
	Password string
	Output   output.Format
	Timeout  time.Duration
}

// ParseGlobalFlags merges the config file, environment and flags.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("password") {
		cfg.Password = c.String("password")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	return &GlobalFlags{
		Server:   cfg.Server,
		Password: cfg.Password,
		Output:   format,
		Timeout:  cfg.Timeout,
	}, nil
}

// withClient dials the server, runs fn and prints its result.
func withClient(c *cli.Context, fn func(ctx context.Context, cl *connection.Client) (any, error)) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	cl, err := connection.Dial(ctx, connection.Options{
		Addr:     flags.Server,
		Password: flags.Password,
		Timeout:  flags.Timeout,
	})
	if err != nil {
		return err
	}
	defer cl.Close()

	res, err := fn(ctx, cl)
	if err != nil {
		return err
	}
	return output.NewFormatter(flags.Output).Format(c.App.Writer, res)
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("usage: %s %s", c.Command.HelpName, c.Command.ArgsUsage)
	}
	return nil
}
