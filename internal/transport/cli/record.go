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

type recordCmd struct {
	svc Service

	date     string
	country  string
	trade    string
	symbol   string
	quantity string
	price    string
}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "append a buy or sell to the transaction ledger" }
func (*recordCmd) Usage() string {
	return `gorich record -date <YYYY-MM-DD> -country <KOR|USA|CRYPTO> -type <b|s> -symbol <symbol> -qty <quantity> -price <price>

  Records one trade. USA trades also store the KRW total at today's
  exchange rate; that snapshot is kept forever.
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "trade date, YYYY-MM-DD")
	f.StringVar(&c.country, "country", "", "market: KOR, USA or CRYPTO")
	f.StringVar(&c.trade, "type", "", "'b'/'buy' or 's'/'sell'")
	f.StringVar(&c.symbol, "symbol", "", "instrument symbol, e.g. AAPL or 005930")
	f.StringVar(&c.quantity, "qty", "", "quantity traded, fractional allowed")
	f.StringVar(&c.price, "price", "", "price per unit in the market's currency")
}

func (c *recordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	tx, err := c.svc.RecordTransaction(ctx, c.date, c.country, c.trade, c.symbol, c.quantity, c.price)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, service.ErrValidation) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("recorded %s %s %s @ %s (%s)\n", tx.Type, tx.Quantity.String(), tx.Symbol, tx.Price.String(), tx.Country)
	return subcommands.ExitSuccess
}
