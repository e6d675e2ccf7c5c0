package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type dividendsCmd struct {
	svc Service
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "show dividends received per symbol" }
func (*dividendsCmd) Usage() string {
	return `gorich dividends

  Sums every recorded dividend per symbol and prints the KRW total.
`
}

func (c *dividendsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *dividendsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	dividends, totalKRW, err := c.svc.DividendSummary(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	renderDividends(os.Stdout, dividends, totalKRW)
	return subcommands.ExitSuccess
}
