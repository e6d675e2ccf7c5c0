package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderSummary(w io.Writer, report model.PortfolioReport) {
	tw := newTable(w)
	fmt.Fprintln(tw, "COUNTRY\tSYMBOL\tQTY\tDAY%\tPRICE\tAVG PAID\tGAIN%\tVALUE\tINVESTED\tGAIN\tCUR")
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Country,
			row.Symbol,
			row.Quantity.String(),
			row.DayChangePct.String(),
			money(row.CurrentPrice),
			money(row.AveragePricePaid),
			row.PctGain.String(),
			money(row.CurrentValue),
			money(row.InvestedAmount),
			money(row.TotalGain),
			row.Currency,
		)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Invested:      %s KRW\n", money(report.Value.InvestedAmount))
	fmt.Fprintf(w, "Current value: %s KRW\n", money(report.Value.CurrentValue))
	fmt.Fprintf(w, "Gain:          %s KRW (%s%%)\n", money(report.Value.Gain), report.Value.Yield.String())
	fmt.Fprintf(w, "Cash:          %s KRW\n", money(report.TotalCash))
	fmt.Fprintf(w, "Total asset:   %s KRW\n", money(report.CurrentAsset))

	if len(report.ByCountry) > 0 {
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "COUNTRY\tINVESTED\tVALUE\tGAIN\tCUR")
		for _, c := range report.ByCountry {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				c.Country, money(c.InvestedAmount), money(c.CurrentValue), money(c.TotalGain), c.Currency)
		}
		tw.Flush()
	}
}

func renderRealized(w io.Writer, gains []model.RealizedGain, totals []model.CurrencyGain) {
	if len(gains) == 0 {
		fmt.Fprintln(w, "no fully-closed positions yet")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "COUNTRY\tSYMBOL\tBOUGHT\tSOLD\tREALIZED\tCUR")
	for _, g := range gains {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			g.Country, g.Symbol, money(g.BuyValue), money(g.SellValue), money(g.RealizedGain), g.Currency)
	}
	tw.Flush()

	fmt.Fprintln(w)
	for _, t := range totals {
		fmt.Fprintf(w, "Total realized (%s): %s\n", t.Currency, money(t.RealizedGain))
	}
}

func renderDividends(w io.Writer, dividends []model.SymbolDividend, totalKRW decimal.Decimal) {
	if len(dividends) == 0 {
		fmt.Fprintln(w, "no dividends recorded yet")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "SYMBOL\tDIVIDEND\tCUR")
	for _, d := range dividends {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Symbol, money(d.Dividend), d.Currency)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total dividends: %s KRW\n", money(totalKRW))
}

func renderTransactions(w io.Writer, txs []model.Transaction) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tCOUNTRY\tSYMBOL\tTYPE\tQTY\tPRICE\tTOTAL\tTOTAL KRW")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID,
			tx.Date.Format("2006-01-02"),
			tx.Country,
			tx.Symbol,
			tx.Type,
			tx.Quantity.String(),
			money(tx.Price),
			money(tx.TotalPricePaid),
			money(tx.TotalPricePaidKRW),
		)
	}
	tw.Flush()
}

func renderDividendRecords(w io.Writer, dividends []model.DividendRecord) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tSYMBOL\tDIVIDEND\tCUR")
	for _, d := range dividends {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			d.ID, d.Date.Format("2006-01-02"), d.Symbol, money(d.Dividend), d.Currency)
	}
	tw.Flush()
}

func renderCash(w io.Writer, balances []model.CashBalance) {
	tw := newTable(w)
	fmt.Fprintln(tw, "CURRENCY\tAMOUNT")
	for _, b := range balances {
		fmt.Fprintf(tw, "%s\t%s\n", b.Currency, money(b.Amount))
	}
	tw.Flush()
}

func renderSnapshots(w io.Writer, snaps []model.AssetSnapshot) {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tAMOUNT KRW")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\n", s.Date.Format("2006-01-02"), money(s.Amount))
	}
	tw.Flush()
}

func renderCandles(w io.Writer, candles []model.Candle) {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME")
	for _, c := range candles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Date.Format("2006-01-02"), money(c.Open), money(c.High), money(c.Low), money(c.Close), c.Volume.String())
	}
	tw.Flush()
}
