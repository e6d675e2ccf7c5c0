package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type tradedCmd struct {
	svc Service

	krw bool
}

func (*tradedCmd) Name() string     { return "traded" }
func (*tradedCmd) Synopsis() string { return "show total bought and sold amounts in KRW" }
func (*tradedCmd) Usage() string {
	return `gorich traded [-krw]

  Sums every buy and sell across the whole history. With -krw the stored
  transaction-time KRW totals are used; without it USA totals are revalued
  at the current exchange rate.
`
}

func (c *tradedCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.krw, "krw", false, "use transaction-time KRW totals")
}

func (c *tradedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	traded, err := c.svc.TotalTradedAmount(ctx, displayMode(c.krw))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Bought: %s KRW\n", money(traded.Buy))
	fmt.Printf("Sold:   %s KRW\n", money(traded.Sell))
	fmt.Printf("Net:    %s KRW\n", money(traded.Net))
	return subcommands.ExitSuccess
}
