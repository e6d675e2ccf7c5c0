package portfolioService

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dokyun-kim/gorich/data/repository"
	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/internal/service"
	"github.com/dokyun-kim/gorich/internal/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	txs        []model.Transaction
	dividends  []model.DividendRecord
	balances   []model.CashBalance
	snapshots  []model.AssetSnapshot
	latestSnap time.Time
	hasSnap    bool
}

func (r *fakeRepo) InsertTransaction(_ context.Context, tx model.Transaction) error {
	tx.ID = int64(len(r.txs) + 1)
	r.txs = append(r.txs, tx)
	return nil
}

func (r *fakeRepo) GetTransactions(_ context.Context) ([]model.Transaction, error) {
	return r.txs, nil
}

func (r *fakeRepo) InsertDividend(_ context.Context, div model.DividendRecord) error {
	r.dividends = append(r.dividends, div)
	return nil
}

func (r *fakeRepo) GetDividends(_ context.Context) ([]model.DividendRecord, error) {
	return r.dividends, nil
}

func (r *fakeRepo) GetCashBalances(_ context.Context) ([]model.CashBalance, error) {
	return r.balances, nil
}

func (r *fakeRepo) UpdateCash(_ context.Context, currency string, amount decimal.Decimal) error {
	for i := range r.balances {
		if r.balances[i].Currency == currency {
			r.balances[i].Amount = amount
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeRepo) LatestAssetSnapshotDate(_ context.Context) (time.Time, error) {
	if !r.hasSnap {
		return time.Time{}, repository.ErrNotFound
	}
	return r.latestSnap, nil
}

func (r *fakeRepo) InsertAssetSnapshot(_ context.Context, snap model.AssetSnapshot) error {
	r.snapshots = append(r.snapshots, snap)
	r.latestSnap = snap.Date
	r.hasSnap = true
	return nil
}

func (r *fakeRepo) GetAssetSnapshots(_ context.Context) ([]model.AssetSnapshot, error) {
	return r.snapshots, nil
}

func (r *fakeRepo) DeleteLastRow(_ context.Context, table string) error { return nil }
func (r *fakeRepo) DeleteAllRows(_ context.Context, table string) error { return nil }

// fakeCache always misses so tests hit the fake apis directly.
type fakeCache struct{}

func (c *fakeCache) GetQuote(_ context.Context, _, _ string) (model.Quote, error) {
	return model.Quote{}, errors.New("cache miss")
}

func (c *fakeCache) SetQuote(_ context.Context, _, _ string, _ model.Quote) error { return nil }

func (c *fakeCache) GetUsdToKrwRate(_ context.Context) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("cache miss")
}

func (c *fakeCache) SetUsdToKrwRate(_ context.Context, _ decimal.Decimal) error { return nil }

type fakeQuoteApi struct {
	quotes map[string]model.Quote
	calls  int
}

func (a *fakeQuoteApi) Quote(_ context.Context, symbol string) (model.Quote, error) {
	a.calls++
	q, ok := a.quotes[symbol]
	if !ok {
		return model.Quote{}, errors.New("unknown symbol")
	}
	return q, nil
}

type fakeFxApi struct {
	rate decimal.Decimal
}

func (a *fakeFxApi) UsdToKrwRate(_ context.Context) (decimal.Decimal, error) {
	return a.rate, nil
}

type fakeCandleApi struct{}

func (a *fakeCandleApi) Candles(_ context.Context, _ string, _, _ time.Time) ([]model.Candle, error) {
	return []model.Candle{{Close: decimal.NewFromInt(100)}}, nil
}

func newTestService(repo *fakeRepo, usa, kor, crypto *fakeQuoteApi, rate int64) *PortfolioService {
	return New(
		repo,
		&fakeCache{},
		usa,
		kor,
		crypto,
		&fakeCandleApi{},
		&fakeFxApi{rate: decimal.NewFromInt(rate)},
		nil,
		nil,
	)
}

func emptyApi() *fakeQuoteApi {
	return &fakeQuoteApi{quotes: map[string]model.Quote{}}
}

func TestRecordTransactionSnapshotsFxForUSA(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	tx, err := svc.RecordTransaction(context.Background(), "2022-02-12", "usa", "b", "aapl", "2", "150")
	require.NoError(t, err)

	assert.Equal(t, "USA", tx.Country)
	assert.Equal(t, "AAPL", tx.Symbol)
	assert.True(t, tx.TotalPricePaid.Equal(decimal.NewFromInt(300)))
	assert.True(t, tx.TotalPricePaidKRW.Equal(decimal.NewFromInt(390000)))
	require.Len(t, repo.txs, 1)
}

func TestRecordTransactionKoreaKeepsKRWTotal(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	tx, err := svc.RecordTransaction(context.Background(), "2022-02-12", "KOR", "buy", "005930", "10", "70000")
	require.NoError(t, err)

	assert.True(t, tx.TotalPricePaid.Equal(decimal.NewFromInt(700000)))
	assert.True(t, tx.TotalPricePaidKRW.Equal(tx.TotalPricePaid))
}

func TestRecordTransactionRejectsBadInputWithoutInsert(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	_, err := svc.RecordTransaction(context.Background(), "12-02-2022", "MARS", "hold", "", "-1", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Empty(t, repo.txs)
}

func TestUpdateCashAllowsZero(t *testing.T) {
	repo := &fakeRepo{balances: []model.CashBalance{{Currency: "KRW", Amount: decimal.NewFromInt(5000)}}}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	require.NoError(t, svc.UpdateCash(context.Background(), "krw", "0"))
	assert.True(t, repo.balances[0].Amount.IsZero())
}

func TestPortfolioSummaryBuildsReport(t *testing.T) {
	repo := &fakeRepo{
		balances: []model.CashBalance{
			{Currency: "KRW", Amount: decimal.NewFromInt(100000)},
			{Currency: "USD", Amount: decimal.NewFromInt(10)},
		},
	}
	usa := &fakeQuoteApi{quotes: map[string]model.Quote{
		"AAPL": {Price: decimal.NewFromInt(150), DayChangePct: decimal.NewFromFloat(1.5)},
	}}
	svc := newTestService(repo, usa, emptyApi(), emptyApi(), 1000)

	_, err := svc.RecordTransaction(context.Background(), "2022-02-12", "USA", "b", "AAPL", "2", "100")
	require.NoError(t, err)

	report, err := svc.PortfolioSummary(context.Background(), valuation.DisplayNative)
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, "AAPL", row.Symbol)
	assert.Equal(t, "USD", row.Currency)
	assert.True(t, row.CurrentValue.Equal(decimal.NewFromInt(300)))
	assert.True(t, row.InvestedAmount.Equal(decimal.NewFromInt(200)))

	// value rollup is KRW-normalized at the live rate
	assert.True(t, report.Value.CurrentValue.Equal(decimal.NewFromInt(300000)))

	// cash: 100000 KRW + 10 USD * 1000
	assert.True(t, report.TotalCash.Equal(decimal.NewFromInt(110000)))
	assert.True(t, report.CurrentAsset.Equal(decimal.NewFromInt(410000)))

	// last component is the CASH pseudo-row
	require.NotEmpty(t, report.Components)
	assert.Equal(t, "CASH", report.Components[len(report.Components)-1].Name)
}

func TestSnapshotAssetOncePerDay(t *testing.T) {
	repo := &fakeRepo{
		balances: []model.CashBalance{{Currency: "KRW", Amount: decimal.NewFromInt(100000)}},
	}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	snap, created, err := svc.SnapshotAsset(context.Background())
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, snap.Amount.Equal(decimal.NewFromInt(100000)))
	require.Len(t, repo.snapshots, 1)

	// second run on the same day must not write another row
	_, created, err = svc.SnapshotAsset(context.Background())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.snapshots, 1)
}

func TestSnapshotAssetAfterOldSnapshotWritesNewRow(t *testing.T) {
	repo := &fakeRepo{
		balances:   []model.CashBalance{{Currency: "KRW", Amount: decimal.NewFromInt(100000)}},
		latestSnap: time.Now().AddDate(0, 0, -1),
		hasSnap:    true,
	}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	_, created, err := svc.SnapshotAsset(context.Background())
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, repo.snapshots, 1)
}

func TestRealizedGainsIgnoresOpenPositions(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	ctx := context.Background()
	_, err := svc.RecordTransaction(ctx, "2022-01-01", "KOR", "b", "005930", "10", "100")
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, "2022-02-01", "KOR", "s", "005930", "10", "150")
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, "2022-03-01", "KOR", "b", "035420", "1", "200000")
	require.NoError(t, err)

	gains, totals, err := svc.RealizedGains(ctx, valuation.DisplayNative)
	require.NoError(t, err)

	require.Len(t, gains, 1)
	assert.Equal(t, "005930", gains[0].Symbol)
	assert.True(t, gains[0].RealizedGain.Equal(decimal.NewFromInt(500)))

	require.Len(t, totals, 1)
	assert.Equal(t, "KRW", totals[0].Currency)
	assert.True(t, totals[0].RealizedGain.Equal(decimal.NewFromInt(500)))
}

func TestWarmQuoteCacheCoversOpenPositionsOnly(t *testing.T) {
	repo := &fakeRepo{}
	usa := &fakeQuoteApi{quotes: map[string]model.Quote{"AAPL": {Price: decimal.NewFromInt(150)}}}
	kor := emptyApi()
	svc := newTestService(repo, usa, kor, emptyApi(), 1300)

	ctx := context.Background()
	_, err := svc.RecordTransaction(ctx, "2022-01-01", "USA", "b", "AAPL", "1", "100")
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, "2022-01-01", "KOR", "b", "005930", "1", "100")
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, "2022-02-01", "KOR", "s", "005930", "1", "150")
	require.NoError(t, err)

	// the KOR position is closed, so only AAPL should be refreshed; the
	// unknown-symbol error for KOR would otherwise surface here
	require.NoError(t, svc.WarmQuoteCache(ctx))
	assert.Equal(t, 1, usa.calls)
	assert.Equal(t, 0, kor.calls)
}

func TestHistoricalPricesUSAOnly(t *testing.T) {
	svc := newTestService(&fakeRepo{}, emptyApi(), emptyApi(), emptyApi(), 1300)
	ctx := context.Background()
	from, to := time.Now().AddDate(0, -1, 0), time.Now()

	_, err := svc.HistoricalPrices(ctx, "KOR", "005930", from, to)
	assert.ErrorIs(t, err, service.ErrUnsupportedMarket)

	candles, err := svc.HistoricalPrices(ctx, "USA", "AAPL", from, to)
	require.NoError(t, err)
	assert.NotEmpty(t, candles)
}

func TestExportReportWithoutStorage(t *testing.T) {
	svc := newTestService(&fakeRepo{}, emptyApi(), emptyApi(), emptyApi(), 1300)

	_, err := svc.ExportReport(context.Background(), valuation.DisplayNative, "", true)
	assert.ErrorIs(t, err, service.ErrCloudStorageOff)
}

func TestImportCSVTransactions(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	csvData := strings.Join([]string{
		"date,country,type,symbol,quantity,price",
		"2022-01-01,KOR,b,005930,10,100",
		"2022-02-01,KOR,s,005930,4,150",
	}, "\n")

	imported, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData), "transaction")
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Len(t, repo.txs, 2)
}

func TestImportCSVStopsAtFirstBadRow(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, emptyApi(), emptyApi(), emptyApi(), 1300)

	csvData := strings.Join([]string{
		"date,country,type,symbol,quantity,price",
		"2022-01-01,KOR,b,005930,10,100",
		"not-a-date,KOR,b,005930,10,100",
		"2022-03-01,KOR,b,005930,10,100",
	}, "\n")

	imported, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData), "transaction")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 1, imported)
	assert.Len(t, repo.txs, 1)
}

func TestImportCSVUnknownTarget(t *testing.T) {
	svc := newTestService(&fakeRepo{}, emptyApi(), emptyApi(), emptyApi(), 1300)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("a,b\n1,2"), "cash")
	assert.ErrorIs(t, err, service.ErrUnknownImportTarget)
}
