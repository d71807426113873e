package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snapkv/internal/cli/connection"
)

// BackupResult is printed by backup.
type BackupResult struct {
	Time    int64 `json:"time" yaml:"time"`
	Records int64 `json:"records" yaml:"records"`
}

// RestoreResult is printed by restore.
type RestoreResult struct {
	CurrentTime int64 `json:"current_time" yaml:"current_time"`
	RestoreTime int64 `json:"restore_time" yaml:"restore_time"`
	BackupTime  int64 `json:"backup_time" yaml:"backup_time"`
}

// BackupCommand returns the backup command.
func BackupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Snapshot the state live at --time",
		Flags: []cli.Flag{timeFlag()},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 0); err != nil {
				return err
			}
			at := timeOf(c)
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				n, err := cl.Backup(ctx, at)
				return BackupResult{Time: at, Records: n}, err
			})
		},
	}
}

// RestoreCommand returns the restore command.
func RestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Replace the state with the latest backup at or before RESTORE_TIME",
		ArgsUsage: "RESTORE_TIME",
		Flags:     []cli.Flag{timeFlag()},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			restoreTime, err := parseInt64(c.Args().Get(0), "RESTORE_TIME")
			if err != nil {
				return err
			}
			current := timeOf(c)
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				bt, err := cl.Restore(ctx, current, restoreTime)
				return RestoreResult{CurrentTime: current, RestoreTime: restoreTime, BackupTime: bt}, err
			})
		},
	}
}

// BackupsCommand returns the backups command.
func BackupsCommand() *cli.Command {
	return &cli.Command{
		Name:  "backups",
		Usage: "List stored backups",
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, cl *connection.Client) (any, error) {
				return cl.Backups(ctx)
			})
		},
	}
}
