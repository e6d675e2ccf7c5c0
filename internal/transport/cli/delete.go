package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dokyun-kim/gorich/data/repository"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type deleteLastCmd struct {
	svc Service
}

func (*deleteLastCmd) Name() string     { return "delete-last" }
func (*deleteLastCmd) Synopsis() string { return "delete the most recent row of a ledger table" }
func (*deleteLastCmd) Usage() string {
	return `gorich delete-last <transaction|dividend|current_asset>

  Removes the last inserted row, for undoing a typo.
`
}

func (c *deleteLastCmd) SetFlags(_ *flag.FlagSet) {}

func (c *deleteLastCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	table := f.Arg(0)
	if err := c.svc.DeleteLast(ctx, table); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, repository.ErrUnknownTable) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("last row of %s deleted\n", table)
	return subcommands.ExitSuccess
}

type deleteAllCmd struct {
	svc Service
}

func (*deleteAllCmd) Name() string     { return "delete-all" }
func (*deleteAllCmd) Synopsis() string { return "delete every row of a ledger table" }
func (*deleteAllCmd) Usage() string {
	return `gorich delete-all <transaction|dividend|current_asset>

  Wipes the whole table after an interactive confirmation.
`
}

func (c *deleteAllCmd) SetFlags(_ *flag.FlagSet) {}

func (c *deleteAllCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	table := f.Arg(0)

	fmt.Printf("delete ALL rows from %s? type 'yes' to confirm: ", table)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.TrimSpace(answer) != "yes" {
		fmt.Println("aborted")
		return subcommands.ExitSuccess
	}

	if err := c.svc.DeleteAll(ctx, table); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, repository.ErrUnknownTable) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("all rows of %s deleted\n", table)
	return subcommands.ExitSuccess
}
