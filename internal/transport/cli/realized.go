package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type realizedCmd struct {
	svc Service

	krw bool
}

func (*realizedCmd) Name() string     { return "realized" }
func (*realizedCmd) Synopsis() string { return "show realized gains of fully-closed positions" }
func (*realizedCmd) Usage() string {
	return `gorich realized [-krw]

  Shows sell-total minus buy-total for every position that is completely
  closed, plus per-currency totals. Needs no live quotes.
`
}

func (c *realizedCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.krw, "krw", false, "show every figure in KRW")
}

func (c *realizedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	gains, totals, err := c.svc.RealizedGains(ctx, displayMode(c.krw))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	renderRealized(os.Stdout, gains, totals)
	return subcommands.ExitSuccess
}
