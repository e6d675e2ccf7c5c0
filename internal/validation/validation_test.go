package validation

import (
	"testing"
	"time"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	d, fieldErr := Date("date", "2022-01-01")
	require.Nil(t, fieldErr)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), d)

	_, fieldErr = Date("date", "01/02/2022")
	require.NotNil(t, fieldErr)
	assert.Equal(t, "date", fieldErr.Field)
	assert.Equal(t, "01/02/2022", fieldErr.Value)
}

func TestCountry(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "usa", want: "USA"},
		{in: "KOR", want: "KOR"},
		{in: "crypto", want: "CRYPTO"},
		{in: "FRA", wantErr: true}, // well-formed but unsupported market
		{in: "u", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		got, fieldErr := Country("country", tc.in)
		if tc.wantErr {
			assert.NotNil(t, fieldErr, "input %q", tc.in)
			continue
		}
		require.Nil(t, fieldErr, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestTradeType(t *testing.T) {
	for in, want := range map[string]model.TradeType{
		"b":    model.TradeBuy,
		"buy":  model.TradeBuy,
		"s":    model.TradeSell,
		"SELL": model.TradeSell,
	} {
		got, fieldErr := TradeType("type", in)
		require.Nil(t, fieldErr, "input %q", in)
		assert.Equal(t, want, got)
	}

	_, fieldErr := TradeType("type", "hold")
	assert.NotNil(t, fieldErr)
}

func TestAmountRejectsZeroAndNegative(t *testing.T) {
	got, fieldErr := Amount("price", "123.45")
	require.Nil(t, fieldErr)
	assert.True(t, got.Equal(decimal.RequireFromString("123.45")))

	_, fieldErr = Amount("quantity", "0")
	require.NotNil(t, fieldErr)
	assert.Equal(t, "quantity", fieldErr.Field)

	_, fieldErr = Amount("price", "-3")
	assert.NotNil(t, fieldErr)

	_, fieldErr = Amount("price", "abc")
	assert.NotNil(t, fieldErr)
}

func TestParseTransactionCollectsAllErrors(t *testing.T) {
	_, res := ParseTransaction("not-a-date", "XX", "hold", "", "0", "-1")
	require.False(t, res.Ok())
	assert.Len(t, res.FieldErrors(), 6)
	assert.Error(t, res.Err())
}

func TestParseTransactionValid(t *testing.T) {
	tx, res := ParseTransaction("2022-01-01", "kor", "b", "aaa", "10", "100")
	require.True(t, res.Ok())
	require.NoError(t, res.Err())
	assert.Equal(t, "KOR", tx.Country)
	assert.Equal(t, "AAA", tx.Symbol)
	assert.Equal(t, model.TradeBuy, tx.Type)
	assert.True(t, tx.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, tx.Price.Equal(decimal.NewFromInt(100)))
}

func TestParseDividend(t *testing.T) {
	div, res := ParseDividend("2023-03-15", "msft", "12.5", "usd")
	require.True(t, res.Ok())
	assert.Equal(t, "MSFT", div.Symbol)
	assert.Equal(t, "USD", div.Currency)
	assert.True(t, div.Dividend.Equal(decimal.RequireFromString("12.5")))

	_, res = ParseDividend("2023-03-15", "msft", "12.5", "EUR")
	assert.False(t, res.Ok())
}
