package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dokyun-kim/gorich/utils"
	"github.com/google/subcommands"
)

type importCmd struct {
	svc Service

	file   string
	target string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "bulk-load a csv export into the ledger" }
func (*importCmd) Usage() string {
	return `gorich import -file <file.csv> [-target <transaction|dividend>]

  Loads a csv file row by row. Transaction files need the header
  date,country,type,symbol,quantity,price; dividend files need
  date,symbol,dividend,currency. The import stops at the first bad row.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "path to the csv file")
	f.StringVar(&c.target, "target", "transaction", "transaction or dividend")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	if c.file == "" {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	f, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	imported, err := c.svc.ImportCSV(ctx, f, c.target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v (%d rows imported before the failure)\n", err, imported)
		return subcommands.ExitFailure
	}

	fmt.Printf("%d rows imported into %s\n", imported, c.target)
	return subcommands.ExitSuccess
}
