package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dokyun-kim/gorich/internal/service"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type cashCmd struct {
	svc Service

	currency string
	amount   string
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "set the cash balance for a currency" }
func (*cashCmd) Usage() string {
	return `gorich cash -currency <KRW|USD> -amount <amount>

  Sets the deposit balance for one currency. Run without -amount to list
  the current balances.
`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "KRW or USD")
	f.StringVar(&c.amount, "amount", "", "new balance, zero allowed")
}

func (c *cashCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	if c.amount == "" && c.currency == "" {
		balances, err := c.svc.CashBalances(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		renderCash(os.Stdout, balances)
		return subcommands.ExitSuccess
	}

	if err := c.svc.UpdateCash(ctx, c.currency, c.amount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, service.ErrValidation) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("cash balance for %s set to %s\n", c.currency, c.amount)
	return subcommands.ExitSuccess
}
