package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snapkv/internal/cli/connection"
)

// GetResult is printed by get.
type GetResult struct {
	Key   string `json:"key" yaml:"key"`
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
	Found bool   `json:"found" yaml:"found"`
}

// DeleteResult is printed by del.
type DeleteResult struct {
	Key     string `json:"key" yaml:"key"`
	Field   string `json:"field" yaml:"field"`
	Deleted bool   `json:"deleted" yaml:"deleted"`
}

// TTLResult is printed by ttl. TTL is -1 for permanent and -2 for absent.
type TTLResult struct {
	Key   string `json:"key" yaml:"key"`
	Field string `json:"field" yaml:"field"`
	TTL   int64  `json:"ttl" yaml:"ttl"`
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a permanent value",
		ArgsUsage: "KEY FIELD VALUE",
		Flags:     []cli.Flag{timeFlag()},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 3); err != nil {
				return err
			}
			args := c.Args()
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				return "OK", cl.Set(ctx, args.Get(0), args.Get(1), args.Get(2), timeOf(c))
			})
		},
	}
}

// SetTTLCommand returns the setttl command.
func SetTTLCommand() *cli.Command {
	return &cli.Command{
		Name:      "setttl",
		Usage:     "Store a value that expires TTL time units after --time",
		ArgsUsage: "KEY FIELD VALUE TTL",
		Flags:     []cli.Flag{timeFlag()},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 4); err != nil {
				return err
			}
			args := c.Args()
			ttl, err := parseInt64(args.Get(3), "TTL")
			if err != nil {
				return err
			}
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				return "OK", cl.SetTTL(ctx, args.Get(0), args.Get(1), args.Get(2), timeOf(c), ttl)
			})
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read a value",
		ArgsUsage: "KEY FIELD",
		Flags:     []cli.Flag{timeFlag()},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			key, field := c.Args().Get(0), c.Args().Get(1)
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				v, ok, err := cl.Get(ctx, key, field, timeOf(c))
				return GetResult{Key: key, Field: field, Value: v, Found: ok}, err
			})
		},
	}
}

// DelCommand returns the del command.
func DelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Usage:     "Delete a field",
		ArgsUsage: "KEY FIELD",
		Flags:     []cli.Flag{timeFlag()},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			key, field := c.Args().Get(0), c.Args().Get(1)
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				ok, err := cl.Delete(ctx, key, field, timeOf(c))
				return DeleteResult{Key: key, Field: field, Deleted: ok}, err
			})
		},
	}
}

// ScanCommand returns the scan command.
func ScanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "List the live fields of a key in field order",
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			timeFlag(),
			&cli.StringFlag{Name: "prefix", Usage: "only fields starting with this prefix"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			key := c.Args().Get(0)
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				return cl.Scan(ctx, key, c.String("prefix"), timeOf(c))
			})
		},
	}
}

// TTLCommand returns the ttl command.
func TTLCommand() *cli.Command {
	return &cli.Command{
		Name:      "ttl",
		Usage:     "Show the remaining lifetime of a field",
		ArgsUsage: "KEY FIELD",
		Flags:     []cli.Flag{timeFlag()},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			key, field := c.Args().Get(0), c.Args().Get(1)
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				ttl, err := cl.TTL(ctx, key, field, timeOf(c))
				return TTLResult{Key: key, Field: field, TTL: ttl}, err
			})
		},
	}
}
