package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	svc Service

	krw bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the full portfolio valuation" }
func (*summaryCmd) Usage() string {
	return `gorich summary [-krw]

  Values every open position at its live quote and prints the portfolio
  table, KRW totals and the per-country split. With -krw all figures are
  converted to KRW.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.krw, "krw", false, "show every figure in KRW")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	report, err := c.svc.PortfolioSummary(ctx, displayMode(c.krw))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	renderSummary(os.Stdout, report)
	return subcommands.ExitSuccess
}
