// Package portfolioService orchestrates the ledger, the quote adapters and
// the valuation core into the operations the CLI exposes. It owns no
// arithmetic itself: every figure comes out of the valuation package.
package portfolioService

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dokyun-kim/gorich/data/repository"
	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/internal/service"
	"github.com/dokyun-kim/gorich/internal/validation"
	"github.com/dokyun-kim/gorich/internal/valuation"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	InsertTransaction(ctx context.Context, tx model.Transaction) error
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	InsertDividend(ctx context.Context, div model.DividendRecord) error
	GetDividends(ctx context.Context) ([]model.DividendRecord, error)
	GetCashBalances(ctx context.Context) ([]model.CashBalance, error)
	UpdateCash(ctx context.Context, currency string, amount decimal.Decimal) error
	LatestAssetSnapshotDate(ctx context.Context) (time.Time, error)
	InsertAssetSnapshot(ctx context.Context, snap model.AssetSnapshot) error
	GetAssetSnapshots(ctx context.Context) ([]model.AssetSnapshot, error)
	DeleteLastRow(ctx context.Context, table string) error
	DeleteAllRows(ctx context.Context, table string) error
}

type Cache interface {
	GetQuote(ctx context.Context, country, symbol string) (model.Quote, error)
	SetQuote(ctx context.Context, country, symbol string, quote model.Quote) error
	GetUsdToKrwRate(ctx context.Context) (decimal.Decimal, error)
	SetUsdToKrwRate(ctx context.Context, rate decimal.Decimal) error
}

type QuoteApi interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
}

type CandleApi interface {
	Candles(ctx context.Context, symbol string, from, to time.Time) ([]model.Candle, error)
}

type FxApi interface {
	UsdToKrwRate(ctx context.Context) (decimal.Decimal, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type PortfolioService struct {
	repo      Repository
	cache     Cache
	usaApi    QuoteApi
	korApi    QuoteApi
	cryptoApi QuoteApi
	candleApi CandleApi
	fxApi     FxApi
	generator ReportGenerator
	storage   CloudStorage // nil when cloud storage is not configured
}

func New(
	repo Repository,
	cache Cache,
	usaApi QuoteApi,
	korApi QuoteApi,
	cryptoApi QuoteApi,
	candleApi CandleApi,
	fxApi FxApi,
	generator ReportGenerator,
	storage CloudStorage,
) *PortfolioService {
	return &PortfolioService{
		repo:      repo,
		cache:     cache,
		usaApi:    usaApi,
		korApi:    korApi,
		cryptoApi: cryptoApi,
		candleApi: candleApi,
		fxApi:     fxApi,
		generator: generator,
		storage:   storage,
	}
}

// fetchQuote always hits the upstream api and refreshes the cache. Cache
// write failures are logged and swallowed: a dead cache must not block a
// valuation.
func (s *PortfolioService) fetchQuote(ctx context.Context, country, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.fetchQuote"

	var api QuoteApi
	switch country {
	case model.CountryUSA:
		api = s.usaApi
	case model.CountryKorea:
		api = s.korApi
	case model.CountryCrypto:
		api = s.cryptoApi
	default:
		return model.Quote{}, fmt.Errorf("%w: %q", valuation.ErrUnknownCountry, country)
	}

	quote, err := api.Quote(ctx, symbol)
	if err != nil {
		slog.Error("got error from quote api", slog.String("rqID", rqID), slog.String("op", op), slog.String("country", country), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	if err := s.cache.SetQuote(ctx, country, symbol, quote); err != nil {
		slog.Warn("can't cache quote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return quote, nil
}

// quoteFor goes through the cache first and falls back to the api.
func (s *PortfolioService) quoteFor(ctx context.Context, country, symbol string) (model.Quote, error) {
	quote, err := s.cache.GetQuote(ctx, country, symbol)
	if err == nil {
		return quote, nil
	}
	return s.fetchQuote(ctx, country, symbol)
}

// WarmQuoteCache refreshes the cached quotes of every open position plus
// the FX rate, so interactive commands stay fast while the daemon runs.
// Individual symbol failures are collected, not fatal.
func (s *PortfolioService) WarmQuoteCache(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.WarmQuoteCache"

	slog.Debug("WarmQuoteCache start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("WarmQuoteCache finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	txs, err := s.repo.GetTransactions(ctx)
	if err != nil {
		return err
	}

	positions, err := valuation.Aggregate(txs)
	if err != nil {
		return err
	}

	var errs []error

	rate, err := s.fxApi.UsdToKrwRate(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("fx rate: %w", err))
	} else if err := s.cache.SetUsdToKrwRate(ctx, rate); err != nil {
		slog.Warn("can't cache fx rate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	for _, p := range valuation.Open(positions) {
		if _, err := s.fetchQuote(ctx, p.Country, p.Symbol); err != nil {
			errs = append(errs, fmt.Errorf("quote %s/%s: %w", p.Country, p.Symbol, err))
		}
	}

	return errors.Join(errs...)
}

func (s *PortfolioService) usdToKrw(ctx context.Context) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.usdToKrw"

	rate, err := s.cache.GetUsdToKrwRate(ctx)
	if err == nil {
		return rate, nil
	}

	rate, err = s.fxApi.UsdToKrwRate(ctx)
	if err != nil {
		slog.Error("got error from fx api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return decimal.Zero, err
	}

	if err := s.cache.SetUsdToKrwRate(ctx, rate); err != nil {
		slog.Warn("can't cache fx rate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return rate, nil
}

// RecordTransaction validates the raw fields, derives the totals and
// appends the row to the ledger. The KRW total for USA trades snapshots
// the exchange rate at record time; it is never recomputed afterwards.
func (s *PortfolioService) RecordTransaction(ctx context.Context, date, country, tradeType, symbol, quantity, price string) (tx model.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RecordTransaction"

	slog.Debug("RecordTransaction start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("RecordTransaction finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	tx, res := validation.ParseTransaction(date, country, tradeType, symbol, quantity, price)
	if !res.Ok() {
		return model.Transaction{}, errors.Join(service.ErrValidation, res.Err())
	}

	tx.TotalPricePaid = tx.Quantity.Mul(tx.Price)
	tx.TotalPricePaidKRW = tx.TotalPricePaid
	if tx.Country == model.CountryUSA {
		rate, err := s.usdToKrw(ctx)
		if err != nil {
			return model.Transaction{}, err
		}
		tx.TotalPricePaidKRW = tx.TotalPricePaid.Mul(rate)
	}

	if err := s.repo.InsertTransaction(ctx, tx); err != nil {
		slog.Error("got error from repo.InsertTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, err
	}

	return tx, nil
}

func (s *PortfolioService) RecordDividend(ctx context.Context, date, symbol, amount, currency string) (div model.DividendRecord, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RecordDividend"

	slog.Debug("RecordDividend start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("RecordDividend finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	div, res := validation.ParseDividend(date, symbol, amount, currency)
	if !res.Ok() {
		return model.DividendRecord{}, errors.Join(service.ErrValidation, res.Err())
	}

	if err := s.repo.InsertDividend(ctx, div); err != nil {
		slog.Error("got error from repo.InsertDividend", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.DividendRecord{}, err
	}

	return div, nil
}

// UpdateCash sets the balance for one currency. Zero is a valid balance.
func (s *PortfolioService) UpdateCash(ctx context.Context, currency, amount string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateCash"

	slog.Debug("UpdateCash start", slog.String("rqID", rqID), slog.String("op", op), slog.String("currency", currency))
	defer func() {
		slog.Debug("UpdateCash finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("currency", currency))
	}()

	res := &validation.Result{}
	cur, fieldErr := validation.Currency("currency", currency)
	res.Add(fieldErr)
	amt, fieldErr := validation.NonNegativeAmount("amount", amount)
	res.Add(fieldErr)
	if !res.Ok() {
		return errors.Join(service.ErrValidation, res.Err())
	}

	if err := s.repo.UpdateCash(ctx, cur, amt); err != nil {
		slog.Error("got error from repo.UpdateCash", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

// PortfolioSummary builds the full valuation report: per-position rows,
// KRW-normalized totals, per-country split, asset components with cash and
// the transaction history.
func (s *PortfolioService) PortfolioSummary(ctx context.Context, mode valuation.DisplayMode) (report model.PortfolioReport, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.PortfolioSummary"

	slog.Debug("PortfolioSummary start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("PortfolioSummary finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	txs, err := s.repo.GetTransactions(ctx)
	if err != nil {
		return model.PortfolioReport{}, err
	}

	positions, err := valuation.Aggregate(txs)
	if err != nil {
		return model.PortfolioReport{}, err
	}
	open := valuation.Open(positions)

	quotes := make(map[string]model.Quote, len(open))
	for _, p := range open {
		quote, err := s.quoteFor(ctx, p.Country, p.Symbol)
		if err != nil {
			return model.PortfolioReport{}, fmt.Errorf("quote %s/%s: %w", p.Country, p.Symbol, err)
		}
		quotes[valuation.QuoteKey(p.Country, p.Symbol)] = quote
	}

	rate, err := s.usdToKrw(ctx)
	if err != nil {
		return model.PortfolioReport{}, err
	}

	rows, err := valuation.CurrentPortfolio(open, quotes, rate, mode)
	if err != nil {
		return model.PortfolioReport{}, err
	}

	value, err := valuation.PortfolioValue(rows, rate)
	if err != nil {
		return model.PortfolioReport{}, err
	}

	byCountry, err := valuation.InvestmentByCountry(rows, mode)
	if err != nil {
		return model.PortfolioReport{}, err
	}

	balances, err := s.repo.GetCashBalances(ctx)
	if err != nil {
		return model.PortfolioReport{}, err
	}
	totalCash := valuation.TotalCashKRW(balances, rate)

	return model.PortfolioReport{
		Rows:         rows,
		Value:        value,
		ByCountry:    byCountry,
		Components:   valuation.PortfolioWithCash(rows, totalCash, rate),
		TotalCash:    totalCash,
		CurrentAsset: value.CurrentValue.Add(totalCash),
		Transactions: txs,
	}, nil
}

// RealizedGains reports per-symbol realized profit for fully-closed
// positions plus a per-currency rollup. No quotes are needed.
func (s *PortfolioService) RealizedGains(ctx context.Context, mode valuation.DisplayMode) (gains []model.RealizedGain, totals []model.CurrencyGain, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RealizedGains"

	slog.Debug("RealizedGains start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RealizedGains finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	txs, err := s.repo.GetTransactions(ctx)
	if err != nil {
		return nil, nil, err
	}

	positions, err := valuation.Aggregate(txs)
	if err != nil {
		return nil, nil, err
	}

	gains, err = valuation.RealizedGains(valuation.Closed(positions), mode)
	if err != nil {
		return nil, nil, err
	}

	return gains, valuation.TotalRealizedGain(gains), nil
}

func (s *PortfolioService) DividendSummary(ctx context.Context) (dividends []model.SymbolDividend, totalKRW decimal.Decimal, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.DividendSummary"

	slog.Debug("DividendSummary start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("DividendSummary finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	records, err := s.repo.GetDividends(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	dividends, err = valuation.DividendsBySymbol(records)
	if err != nil {
		return nil, decimal.Zero, err
	}

	rate, err := s.usdToKrw(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	return dividends, valuation.TotalDividendsKRW(records, rate), nil
}

func (s *PortfolioService) TotalTradedAmount(ctx context.Context, mode valuation.DisplayMode) (traded model.TradedAmount, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.TotalTradedAmount"

	slog.Debug("TotalTradedAmount start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("TotalTradedAmount finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	txs, err := s.repo.GetTransactions(ctx)
	if err != nil {
		return model.TradedAmount{}, err
	}

	positions, err := valuation.Aggregate(txs)
	if err != nil {
		return model.TradedAmount{}, err
	}

	rate, err := s.usdToKrw(ctx)
	if err != nil {
		return model.TradedAmount{}, err
	}

	return valuation.TotalTradedAmount(positions, rate, mode), nil
}

// Quote returns the live quote for one symbol together with its native
// currency.
func (s *PortfolioService) Quote(ctx context.Context, country, symbol string) (quote model.Quote, currency string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.Quote"

	slog.Debug("Quote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("Quote finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	res := &validation.Result{}
	c, fieldErr := validation.Country("country", country)
	res.Add(fieldErr)
	sym, fieldErr := validation.Symbol("symbol", symbol)
	res.Add(fieldErr)
	if !res.Ok() {
		return model.Quote{}, "", errors.Join(service.ErrValidation, res.Err())
	}

	currency, err = valuation.CurrencyFor(c, valuation.DisplayNative)
	if err != nil {
		return model.Quote{}, "", err
	}

	quote, err = s.quoteFor(ctx, c, sym)
	if err != nil {
		return model.Quote{}, "", err
	}

	return quote, currency, nil
}

// HistoricalPrices returns daily candles. Only the US market has a candle
// source wired in.
func (s *PortfolioService) HistoricalPrices(ctx context.Context, country, symbol string, from, to time.Time) (candles []model.Candle, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.HistoricalPrices"

	slog.Debug("HistoricalPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("HistoricalPrices finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	c, fieldErr := validation.Country("country", country)
	if fieldErr != nil {
		return nil, errors.Join(service.ErrValidation, fieldErr)
	}
	if c != model.CountryUSA {
		return nil, fmt.Errorf("%w: candles are available for USA only, got %s", service.ErrUnsupportedMarket, c)
	}

	sym, fieldErr := validation.Symbol("symbol", symbol)
	if fieldErr != nil {
		return nil, errors.Join(service.ErrValidation, fieldErr)
	}

	return s.candleApi.Candles(ctx, sym, from, to)
}

// SnapshotAsset appends today's total asset value (portfolio plus cash, in
// KRW) to the history, at most once per calendar day. Re-running on the
// same day returns created=false and touches nothing.
func (s *PortfolioService) SnapshotAsset(ctx context.Context) (snap model.AssetSnapshot, created bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.SnapshotAsset"

	slog.Debug("SnapshotAsset start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("SnapshotAsset finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	today := time.Now()
	latest, err := s.repo.LatestAssetSnapshotDate(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.AssetSnapshot{}, false, err
	}
	if err == nil && sameDay(latest, today) {
		slog.Info("asset snapshot already taken today", slog.String("rqID", rqID), slog.String("op", op))
		return model.AssetSnapshot{Date: latest}, false, nil
	}

	report, err := s.PortfolioSummary(ctx, valuation.DisplayKRW)
	if err != nil {
		return model.AssetSnapshot{}, false, err
	}

	snap = model.AssetSnapshot{Date: today, Amount: report.CurrentAsset}
	if err := s.repo.InsertAssetSnapshot(ctx, snap); err != nil {
		slog.Error("got error from repo.InsertAssetSnapshot", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AssetSnapshot{}, false, err
	}

	return snap, true, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ExportReport renders the xlsx report to outPath and optionally uploads
// it to cloud storage, returning the share link.
func (s *PortfolioService) ExportReport(ctx context.Context, mode valuation.DisplayMode, outPath string, upload bool) (downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ExportReport"

	slog.Debug("ExportReport start", slog.String("rqID", rqID), slog.String("op", op), slog.String("outPath", outPath))
	defer func() {
		slog.Debug("ExportReport finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	if upload && s.storage == nil {
		return "", service.ErrCloudStorageOff
	}

	report, err := s.PortfolioSummary(ctx, mode)
	if err != nil {
		return "", err
	}

	fileBytes, ext, err := s.generator.Generate(ctx, report)
	if err != nil {
		slog.Error("got error from generator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, fileBytes, 0o644); err != nil {
			slog.Error("can't write report file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return "", err
		}
	}

	if upload {
		filename := "portfolio_" + time.Now().Format("2006-01-02") + ext
		downloadLink, err = s.storage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
		if err != nil {
			return "", err
		}
	}

	return downloadLink, nil
}

func (s *PortfolioService) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return s.repo.GetTransactions(ctx)
}

func (s *PortfolioService) Dividends(ctx context.Context) ([]model.DividendRecord, error) {
	return s.repo.GetDividends(ctx)
}

func (s *PortfolioService) CashBalances(ctx context.Context) ([]model.CashBalance, error) {
	return s.repo.GetCashBalances(ctx)
}

func (s *PortfolioService) AssetSnapshots(ctx context.Context) ([]model.AssetSnapshot, error) {
	return s.repo.GetAssetSnapshots(ctx)
}

func (s *PortfolioService) DeleteLast(ctx context.Context, table string) error {
	return s.repo.DeleteLastRow(ctx, table)
}

func (s *PortfolioService) DeleteAll(ctx context.Context, table string) error {
	return s.repo.DeleteAllRows(ctx, table)
}

// ImportCSV bulk-loads a csv export into the ledger. The transaction
// format is date,country,type,symbol,quantity,price; the dividend format
// is date,symbol,dividend,currency. The first row is treated as a header.
// Rows are validated one by one and the import stops at the first bad row,
// reporting how many made it in before.
func (s *PortfolioService) ImportCSV(ctx context.Context, r io.Reader, target string) (imported int, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ImportCSV"

	slog.Debug("ImportCSV start", slog.String("rqID", rqID), slog.String("op", op), slog.String("target", target))
	defer func() {
		slog.Debug("ImportCSV finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int("imported", imported))
	}()

	if target != "transaction" && target != "dividend" {
		return 0, fmt.Errorf("%w: %q", service.ErrUnknownImportTarget, target)
	}

	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}
	if len(records) <= 1 {
		return 0, service.ErrNothingToImport
	}

	for i, row := range records[1:] {
		switch target {
		case "transaction":
			if len(row) != 6 {
				return imported, fmt.Errorf("row %d: expected 6 columns, got %d", i+2, len(row))
			}
			if _, err := s.RecordTransaction(ctx, row[0], row[1], row[2], row[3], row[4], row[5]); err != nil {
				return imported, fmt.Errorf("row %d: %w", i+2, err)
			}
		case "dividend":
			if len(row) != 4 {
				return imported, fmt.Errorf("row %d: expected 4 columns, got %d", i+2, len(row))
			}
			if _, err := s.RecordDividend(ctx, row[0], row[1], row[2], row[3]); err != nil {
				return imported, fmt.Errorf("row %d: %w", i+2, err)
			}
		}
		imported++
	}

	return imported, nil
}
