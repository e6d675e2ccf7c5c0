// Package cli is the command-line surface of the portfolio engine. Every
// subcommand parses its flags, hands off to the service and renders the
// result; no valuation logic lives here.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/internal/valuation"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type Service interface {
	RecordTransaction(ctx context.Context, date, country, tradeType, symbol, quantity, price string) (model.Transaction, error)
	RecordDividend(ctx context.Context, date, symbol, amount, currency string) (model.DividendRecord, error)
	UpdateCash(ctx context.Context, currency, amount string) error
	PortfolioSummary(ctx context.Context, mode valuation.DisplayMode) (model.PortfolioReport, error)
	RealizedGains(ctx context.Context, mode valuation.DisplayMode) ([]model.RealizedGain, []model.CurrencyGain, error)
	DividendSummary(ctx context.Context) ([]model.SymbolDividend, decimal.Decimal, error)
	TotalTradedAmount(ctx context.Context, mode valuation.DisplayMode) (model.TradedAmount, error)
	Quote(ctx context.Context, country, symbol string) (model.Quote, string, error)
	HistoricalPrices(ctx context.Context, country, symbol string, from, to time.Time) ([]model.Candle, error)
	SnapshotAsset(ctx context.Context) (model.AssetSnapshot, bool, error)
	ExportReport(ctx context.Context, mode valuation.DisplayMode, outPath string, upload bool) (string, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	Dividends(ctx context.Context) ([]model.DividendRecord, error)
	CashBalances(ctx context.Context) ([]model.CashBalance, error)
	AssetSnapshots(ctx context.Context) ([]model.AssetSnapshot, error)
	DeleteLast(ctx context.Context, table string) error
	DeleteAll(ctx context.Context, table string) error
	ImportCSV(ctx context.Context, r io.Reader, target string) (int, error)
}

// DaemonRunner blocks running the background jobs until the context is
// cancelled. Wired up in main, where the scheduler lives.
type DaemonRunner interface {
	Run(ctx context.Context) error
}

// Register wires every subcommand into the commander.
func Register(c *subcommands.Commander, svc Service, daemon DaemonRunner) {
	c.Register(&recordCmd{svc: svc}, "ledger")
	c.Register(&dividendCmd{svc: svc}, "ledger")
	c.Register(&cashCmd{svc: svc}, "ledger")
	c.Register(&importCmd{svc: svc}, "ledger")
	c.Register(&deleteLastCmd{svc: svc}, "ledger")
	c.Register(&deleteAllCmd{svc: svc}, "ledger")
	c.Register(&showCmd{svc: svc}, "ledger")

	c.Register(&summaryCmd{svc: svc}, "reports")
	c.Register(&realizedCmd{svc: svc}, "reports")
	c.Register(&dividendsCmd{svc: svc}, "reports")
	c.Register(&tradedCmd{svc: svc}, "reports")
	c.Register(&exportCmd{svc: svc}, "reports")

	c.Register(&priceCmd{svc: svc}, "quotes")
	c.Register(&historyCmd{svc: svc}, "quotes")

	c.Register(&snapshotCmd{svc: svc}, "jobs")
	c.Register(&daemonCmd{daemon: daemon}, "jobs")
}

func displayMode(krw bool) valuation.DisplayMode {
	if krw {
		return valuation.DisplayKRW
	}
	return valuation.DisplayNative
}
