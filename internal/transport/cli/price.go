package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dokyun-kim/gorich/internal/service"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type priceCmd struct {
	svc Service

	country string
	symbol  string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "show the live quote for one symbol" }
func (*priceCmd) Usage() string {
	return `gorich price -country <KOR|USA|CRYPTO> -symbol <symbol>
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.country, "country", "", "market: KOR, USA or CRYPTO")
	f.StringVar(&c.symbol, "symbol", "", "instrument symbol")
}

func (c *priceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	quote, currency, err := c.svc.Quote(ctx, c.country, c.symbol)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, service.ErrValidation) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("%s: %s %s (%s%% today)\n", c.symbol, money(quote.Price), currency, quote.DayChangePct.String())
	return subcommands.ExitSuccess
}

type historyCmd struct {
	svc Service

	country string
	symbol  string
	from    string
	to      string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show daily historical prices (USA only)" }
func (*historyCmd) Usage() string {
	return `gorich history -country USA -symbol <symbol> [-from <YYYY-MM-DD>] [-to <YYYY-MM-DD>]

  Prints daily candles for the period, defaulting to the last month.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.country, "country", "USA", "market, only USA is supported")
	f.StringVar(&c.symbol, "symbol", "", "instrument symbol")
	f.StringVar(&c.from, "from", "", "start date, YYYY-MM-DD")
	f.StringVar(&c.to, "to", "", "end date, YYYY-MM-DD")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	to := time.Now()
	from := to.AddDate(0, -1, 0)
	var err error
	if c.from != "" {
		if from, err = time.Parse("2006-01-02", c.from); err != nil {
			fmt.Fprintf(os.Stderr, "bad -from date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.to != "" {
		if to, err = time.Parse("2006-01-02", c.to); err != nil {
			fmt.Fprintf(os.Stderr, "bad -to date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	candles, err := c.svc.HistoricalPrices(ctx, c.country, c.symbol, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrUnsupportedMarket) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	renderCandles(os.Stdout, candles)
	return subcommands.ExitSuccess
}
