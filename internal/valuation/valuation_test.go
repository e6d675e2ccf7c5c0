package valuation

import (
	"testing"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteSnapshot(entries map[string]string) map[string]model.Quote {
	quotes := make(map[string]model.Quote, len(entries))
	for key, price := range entries {
		quotes[key] = model.Quote{Price: decimal.RequireFromString(price)}
	}
	return quotes
}

func TestCurrentPortfolioGainAndYield(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "10", "100"),
		testTx(t, 2, "2022-02-01", "KOR", "AAA", model.TradeSell, "4", "150"),
	}
	positions, err := Aggregate(txs)
	require.NoError(t, err)

	quotes := quoteSnapshot(map[string]string{"KOR:AAA": "120"})
	fx := decimal.NewFromInt(1300)

	rows, err := CurrentPortfolio(Open(positions), quotes, fx, DisplayKRW)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.True(t, row.CurrentValue.Equal(decimal.NewFromInt(720)), "6 x 120")
	assert.True(t, row.InvestedAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, row.TotalGain.Equal(decimal.NewFromInt(120)))
	assert.True(t, row.PctGain.Equal(decimal.NewFromInt(20)), "got %s", row.PctGain)
	assert.Equal(t, model.CurrencyKRW, row.Currency)
}

func TestCurrentPortfolioUSDRevaluedInKRWMode(t *testing.T) {
	txs := []model.Transaction{
		usaTx(t, 1, "2022-01-01", "MSFT", model.TradeBuy, "1", "90", "1250"),
	}
	positions, err := Aggregate(txs)
	require.NoError(t, err)

	quotes := quoteSnapshot(map[string]string{"USA:MSFT": "100"})
	fx := decimal.NewFromInt(1300)

	rows, err := CurrentPortfolio(Open(positions), quotes, fx, DisplayKRW)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Market value at the live rate, cost basis at the entry-time rate.
	assert.True(t, rows[0].CurrentValue.Equal(decimal.NewFromInt(130000)),
		"100 USD x 1300, got %s", rows[0].CurrentValue)
	assert.True(t, rows[0].InvestedAmount.Equal(decimal.NewFromInt(112500)), "90 USD x 1250")
	assert.Equal(t, model.CurrencyKRW, rows[0].Currency)
}

func TestCurrentPortfolioMissingQuoteAbortsWhole(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "1", "100"),
		testTx(t, 2, "2022-01-01", "KOR", "BBB", model.TradeBuy, "1", "100"),
	}
	positions, err := Aggregate(txs)
	require.NoError(t, err)

	quotes := quoteSnapshot(map[string]string{"KOR:AAA": "120"}) // BBB missing

	rows, err := CurrentPortfolio(Open(positions), quotes, decimal.NewFromInt(1300), DisplayKRW)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingQuote)
	assert.Nil(t, rows, "no partial table on error")
}

func TestPortfolioValueNormalizesUSD(t *testing.T) {
	rows := []model.PortfolioRow{
		{
			Symbol:         "MSFT",
			CurrentValue:   decimal.NewFromInt(100),
			InvestedAmount: decimal.NewFromInt(80),
			Currency:       model.CurrencyUSD,
		},
		{
			Symbol:         "AAA",
			CurrentValue:   decimal.NewFromInt(50000),
			InvestedAmount: decimal.NewFromInt(40000),
			Currency:       model.CurrencyKRW,
		},
	}

	value, err := PortfolioValue(rows, decimal.NewFromInt(1300))
	require.NoError(t, err)

	// USD 100 at rate 1300 is exactly 130000, no rounding before display.
	assert.True(t, value.CurrentValue.Equal(decimal.NewFromInt(180000)), "got %s", value.CurrentValue)
	assert.True(t, value.InvestedAmount.Equal(decimal.NewFromInt(144000)))
	assert.True(t, value.Gain.Equal(decimal.NewFromInt(36000)))
	assert.True(t, value.Yield.Equal(decimal.NewFromInt(25)))
}

func TestPortfolioValueEmpty(t *testing.T) {
	value, err := PortfolioValue(nil, decimal.NewFromInt(1300))
	require.NoError(t, err)
	assert.True(t, value.CurrentValue.IsZero())
	assert.True(t, value.Yield.IsZero())
}

func TestInvestmentByCountry(t *testing.T) {
	rows := []model.PortfolioRow{
		{Country: "KOR", Symbol: "AAA", InvestedAmount: decimal.NewFromInt(100), CurrentValue: decimal.NewFromInt(110), TotalGain: decimal.NewFromInt(10), Currency: "KRW"},
		{Country: "USA", Symbol: "MSFT", InvestedAmount: decimal.NewFromInt(80), CurrentValue: decimal.NewFromInt(100), TotalGain: decimal.NewFromInt(20), Currency: "USD"},
		{Country: "KOR", Symbol: "BBB", InvestedAmount: decimal.NewFromInt(200), CurrentValue: decimal.NewFromInt(190), TotalGain: decimal.NewFromInt(-10), Currency: "KRW"},
	}

	byCountry, err := InvestmentByCountry(rows, DisplayNative)
	require.NoError(t, err)
	require.Len(t, byCountry, 2)

	kor := byCountry[0]
	assert.Equal(t, "KOR", kor.Country)
	assert.True(t, kor.InvestedAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, kor.TotalGain.IsZero())
	assert.Equal(t, model.CurrencyKRW, kor.Currency)

	usa := byCountry[1]
	assert.Equal(t, "USA", usa.Country)
	assert.Equal(t, model.CurrencyUSD, usa.Currency)
}

func TestPortfolioWithCashAppendsPseudoRow(t *testing.T) {
	rows := []model.PortfolioRow{
		{Symbol: "MSFT", CurrentValue: decimal.NewFromInt(100), Currency: model.CurrencyUSD},
		{Symbol: "AAA", CurrentValue: decimal.NewFromInt(50000), Currency: model.CurrencyKRW},
	}

	components := PortfolioWithCash(rows, decimal.NewFromInt(7000), decimal.NewFromInt(1300))
	require.Len(t, components, 3)
	assert.True(t, components[0].Value.Equal(decimal.NewFromInt(130000)))
	assert.True(t, components[1].Value.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "CASH", components[2].Name)
	assert.True(t, components[2].Value.Equal(decimal.NewFromInt(7000)))
}

func TestTotalTradedAmount(t *testing.T) {
	txs := []model.Transaction{
		testTx(t, 1, "2022-01-01", "KOR", "AAA", model.TradeBuy, "10", "100"),
		testTx(t, 2, "2022-02-01", "KOR", "AAA", model.TradeSell, "4", "150"),
		usaTx(t, 3, "2022-03-01", "MSFT", model.TradeBuy, "1", "100", "1300"),
	}
	positions, err := Aggregate(txs)
	require.NoError(t, err)

	traded := TotalTradedAmount(positions, decimal.NewFromInt(1300), DisplayKRW)
	assert.True(t, traded.Buy.Equal(decimal.NewFromInt(131000)), "got %s", traded.Buy)
	assert.True(t, traded.Sell.Equal(decimal.NewFromInt(600)))
	assert.True(t, traded.Net.Equal(decimal.NewFromInt(-130400)))
}

func TestTotalCashKRW(t *testing.T) {
	balances := []model.CashBalance{
		{Currency: model.CurrencyKRW, Amount: decimal.NewFromInt(10000)},
		{Currency: model.CurrencyUSD, Amount: decimal.NewFromInt(10)},
	}
	total := TotalCashKRW(balances, decimal.NewFromInt(1300))
	assert.True(t, total.Equal(decimal.NewFromInt(23000)))
}
