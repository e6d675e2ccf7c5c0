package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type snapshotCmd struct {
	svc Service
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record today's total asset value" }
func (*snapshotCmd) Usage() string {
	return `gorich snapshot

  Appends today's portfolio value plus cash (in KRW) to the asset history.
  Running it twice on the same day is a no-op.
`
}

func (c *snapshotCmd) SetFlags(_ *flag.FlagSet) {}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	snap, created, err := c.svc.SnapshotAsset(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if !created {
		fmt.Println("asset snapshot already taken today")
		return subcommands.ExitSuccess
	}

	fmt.Printf("asset snapshot recorded: %s KRW\n", money(snap.Amount))
	return subcommands.ExitSuccess
}

type daemonCmd struct {
	daemon DaemonRunner
}

func (*daemonCmd) Name() string     { return "daemon" }
func (*daemonCmd) Synopsis() string { return "run the background jobs until interrupted" }
func (*daemonCmd) Usage() string {
	return `gorich daemon

  Starts the scheduler, which snapshots the total asset value once a day,
  and blocks until SIGINT/SIGTERM.
`
}

func (c *daemonCmd) SetFlags(_ *flag.FlagSet) {}

func (c *daemonCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.daemon.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
