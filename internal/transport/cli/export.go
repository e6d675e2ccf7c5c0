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

type exportCmd struct {
	svc Service

	out    string
	upload bool
	krw    bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the portfolio report as xlsx" }
func (*exportCmd) Usage() string {
	return `gorich export [-out <file.xlsx>] [-upload] [-krw]

  Renders the valuation report to an xlsx file. With -upload the file is
  also pushed to Google Drive and a share link is printed (needs
  GOOGLE_DRIVE_CREDENTIALS_FILE).
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "portfolio.xlsx", "output file path")
	f.BoolVar(&c.upload, "upload", false, "upload the report to cloud storage")
	f.BoolVar(&c.krw, "krw", false, "show every figure in KRW")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRqID(ctx)

	link, err := c.svc.ExportReport(ctx, displayMode(c.krw), c.out, c.upload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, service.ErrCloudStorageOff) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	fmt.Printf("report written to %s\n", c.out)
	if link != "" {
		fmt.Printf("uploaded: %s\n", link)
	}
	return subcommands.ExitSuccess
}
