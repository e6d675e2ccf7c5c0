package valuation

import (
	"testing"
	"time"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// testTx builds a non-USA transaction: KRW totals equal native totals.
func testTx(t *testing.T, id int64, date, country, symbol string, tradeType model.TradeType, qty, price string) model.Transaction {
	t.Helper()
	q := decimal.RequireFromString(qty)
	p := decimal.RequireFromString(price)
	total := q.Mul(p)
	return model.Transaction{
		ID:                id,
		Date:              mustDate(t, date),
		Country:           country,
		Symbol:            symbol,
		Type:              tradeType,
		Quantity:          q,
		Price:             p,
		TotalPricePaid:    total,
		TotalPricePaidKRW: total,
	}
}

// usaTx converts the KRW total at an entry-time rate, like the recorder does.
func usaTx(t *testing.T, id int64, date, symbol string, tradeType model.TradeType, qty, price, entryFx string) model.Transaction {
	t.Helper()
	tx := testTx(t, id, date, model.CountryUSA, symbol, tradeType, qty, price)
	tx.TotalPricePaidKRW = tx.TotalPricePaid.Mul(decimal.RequireFromString(entryFx))
	return tx
}

func TestBuildLotsFIFOConsumesOldestFirst(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "1", "10"),
		testTx(t, 2, "2022-01-02", "KOR", "AAA", model.TradeBuy, "1", "20"),
		testTx(t, 3, "2022-01-03", "KOR", "AAA", model.TradeSell, "1", "30"),
	}

	lots, err := BuildLots(txs)
	require.NoError(t, err)

	// The 10-cost unit is gone; only the 20-cost unit remains.
	assert.True(t, lots.Quantity().Equal(decimal.NewFromInt(1)))
	assert.True(t, lots.AveragePricePaid().Equal(decimal.NewFromInt(20)),
		"got %s", lots.AveragePricePaid())
}

func TestBuildLotsFractionalSplit(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "CRYPTO", "BTC", model.TradeBuy, "0.5", "1000"),
		testTx(t, 2, "2022-01-02", "CRYPTO", "BTC", model.TradeBuy, "0.5", "2000"),
		testTx(t, 3, "2022-01-03", "CRYPTO", "BTC", model.TradeSell, "0.75", "3000"),
	}

	lots, err := BuildLots(txs)
	require.NoError(t, err)

	// First lot fully consumed, second lot half consumed: 0.25 left at
	// unit cost 2000.
	assert.True(t, lots.Quantity().Equal(decimal.RequireFromString("0.25")))
	assert.True(t, lots.Cost().Equal(decimal.NewFromInt(500)), "got %s", lots.Cost())
	assert.True(t, lots.AveragePricePaid().Equal(decimal.NewFromInt(2000)))
}

func TestBuildLotsEmptyAfterFullClose(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "10", "100"),
		testTx(t, 2, "2022-02-01", "KOR", "AAA", model.TradeSell, "10", "150"),
	}

	lots, err := BuildLots(txs)
	require.NoError(t, err)
	assert.True(t, lots.Quantity().IsZero())
	assert.True(t, lots.AveragePricePaid().IsZero())
}

func TestBuildLotsOversellFails(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "1", "100"),
		testTx(t, 2, "2022-01-02", "KOR", "AAA", model.TradeSell, "2", "150"),
	}

	_, err := BuildLots(txs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestBuildLotsDeterministicReplay(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "3", "10"),
		testTx(t, 2, "2022-01-05", "KOR", "AAA", model.TradeSell, "2", "12"),
		testTx(t, 3, "2022-01-07", "KOR", "AAA", model.TradeBuy, "4", "15"),
		testTx(t, 4, "2022-01-09", "KOR", "AAA", model.TradeSell, "1", "20"),
	}

	first, err := BuildLots(txs)
	require.NoError(t, err)
	second, err := BuildLots(txs)
	require.NoError(t, err)

	assert.True(t, first.AveragePricePaid().Equal(second.AveragePricePaid()))
	assert.True(t, first.Quantity().Equal(second.Quantity()))
	assert.True(t, first.Cost().Equal(second.Cost()))
}
