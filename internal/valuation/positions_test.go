package valuation

import (
	"testing"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateOpenPositionScenario(t *testing.T) {
	// Buy 10 @ 100, sell 4 @ 150: six units remain at their original cost.
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "10", "100"),
		testTx(t, 2, "2022-02-01", "KOR", "AAA", model.TradeSell, "4", "150"),
	}

	positions, err := Aggregate(txs)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.True(t, p.Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, p.AveragePricePaid().Equal(decimal.NewFromInt(100)))
	assert.True(t, p.InvestedAmount(DisplayKRW).Equal(decimal.NewFromInt(600)),
		"remaining-lot cost, got %s", p.InvestedAmount(DisplayKRW))

	open := Open(positions)
	require.Len(t, open, 1)
	assert.Empty(t, Closed(positions))
}

func TestAggregateClosedPositionScenario(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "10", "100"),
		testTx(t, 2, "2022-02-01", "KOR", "AAA", model.TradeSell, "10", "150"),
	}

	positions, err := Aggregate(txs)
	require.NoError(t, err)

	assert.Empty(t, Open(positions), "fully closed position must not appear in holdings")

	closed := Closed(positions)
	require.Len(t, closed, 1)
	assert.True(t, closed[0].SellValue.Sub(closed[0].BuyValue).Equal(decimal.NewFromInt(500)))
}

func TestAggregateSortsUnorderedInput(t *testing.T) {
	// The sell arrives first in the slice but dates after both buys;
	// FIFO must still consume the cheaper, older lot.
	txs := []model.Transaction{
		testTx(t, 3, "2022-01-03", "KOR", "AAA", model.TradeSell, "1", "50"),
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "1", "10"),
		testTx(t, 2, "2022-01-02", "KOR", "AAA", model.TradeBuy, "1", "20"),
	}

	positions, err := Aggregate(txs)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.True(t, positions[0].AveragePricePaid().Equal(decimal.NewFromInt(20)))
}

func TestAggregateNetNegativeFails(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "1", "100"),
		testTx(t, 2, "2022-01-02", "KOR", "AAA", model.TradeSell, "3", "100"),
	}

	_, err := Aggregate(txs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestAggregateSeparatesCountrySymbolPairs(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "1", "100"),
		usaTx(t, 2, "2022-01-01", "AAA", model.TradeBuy, "1", "100", "1300"),
	}

	positions, err := Aggregate(txs)
	require.NoError(t, err)
	assert.Len(t, positions, 2, "same symbol on two markets stays distinct")
}

func TestUSAPositionCarriesBothTotals(t *testing.T) {
	txs := []model.Transaction{
		usaTx(t, 1, "2022-01-01", "MSFT", model.TradeBuy, "2", "100", "1300"),
	}

	positions, err := Aggregate(txs)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.True(t, p.InvestedAmount(DisplayNative).Equal(decimal.NewFromInt(200)))
	assert.True(t, p.InvestedAmount(DisplayKRW).Equal(decimal.NewFromInt(260000)))
}

func TestCurrencyFor(t *testing.T) {
	tests := []struct {
		country string
		mode    DisplayMode
		want    string
	}{
		{model.CountryKorea, DisplayNative, model.CurrencyKRW},
		{model.CountryCrypto, DisplayKRW, model.CurrencyKRW},
		{model.CountryUSA, DisplayNative, model.CurrencyUSD},
		{model.CountryUSA, DisplayKRW, model.CurrencyKRW},
	}
	for _, tc := range tests {
		got, err := CurrencyFor(tc.country, tc.mode)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := CurrencyFor("MARS", DisplayKRW)
	assert.ErrorIs(t, err, ErrUnknownCountry)
}
