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

type dividendCmd struct {
	svc Service

	date     string
	symbol   string
	amount   string
	currency string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a received dividend" }
func (*dividendCmd) Usage() string {
	return `gorich dividend -date <YYYY-MM-DD> -symbol <symbol> -amount <amount> -currency <KRW|USD>

  Records a dividend payment in the currency it was paid in.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "payment date, YYYY-MM-DD")
	f.StringVar(&c.symbol, "symbol", "", "paying instrument symbol")
	f.StringVar(&c.amount, "amount", "", "amount received")
	f.StringVar(&c.currency, "currency", "", "KRW or USD")
}

func (c *dividendCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	div, err := c.svc.RecordDividend(ctx, c.date, c.symbol, c.amount, c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, service.ErrValidation) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("recorded dividend %s %s from %s\n", div.Dividend.String(), div.Currency, div.Symbol)
	return subcommands.ExitSuccess
}
