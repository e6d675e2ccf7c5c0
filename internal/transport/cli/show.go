package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type showCmd struct {
	svc Service
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print raw ledger rows" }
func (*showCmd) Usage() string {
	return `gorich show <transaction|dividend|cash|current_asset>

  Dumps the rows of one ledger table as they are stored.
`
}

func (c *showCmd) SetFlags(_ *flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	switch f.Arg(0) {
	case "transaction":
		txs, err := c.svc.Transactions(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		renderTransactions(os.Stdout, txs)
	case "dividend":
		dividends, err := c.svc.Dividends(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		renderDividendRecords(os.Stdout, dividends)
	case "cash":
		balances, err := c.svc.CashBalances(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		renderCash(os.Stdout, balances)
	case "current_asset":
		snaps, err := c.svc.AssetSnapshots(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		renderSnapshots(os.Stdout, snaps)
	default:
		fmt.Fprintf(os.Stderr, "unknown table %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	return subcommands.ExitSuccess
}
