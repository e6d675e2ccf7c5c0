package valuation

import (
	"fmt"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
)

// DividendsBySymbol sums dividend records per symbol. A symbol paying in
// more than one currency is inconsistent input: sums across currencies
// would be meaningless.
func DividendsBySymbol(records []model.DividendRecord) ([]model.SymbolDividend, error) {
	index := make(map[string]int)
	var dividends []model.SymbolDividend

	for _, rec := range records {
		i, ok := index[rec.Symbol]
		if !ok {
			i = len(dividends)
			index[rec.Symbol] = i
			dividends = append(dividends, model.SymbolDividend{
				Symbol:   rec.Symbol,
				Currency: rec.Currency,
			})
		}

		d := &dividends[i]
		if d.Currency != rec.Currency {
			return nil, fmt.Errorf("%w: %s paid dividends in both %s and %s",
				ErrInconsistent, rec.Symbol, d.Currency, rec.Currency)
		}
		d.Dividend = d.Dividend.Add(rec.Dividend)
	}

	return dividends, nil
}

// TotalDividendsKRW sums every dividend received, USD amounts revalued at
// the live rate.
func TotalDividendsKRW(records []model.DividendRecord, usdToKrw decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		amount := rec.Dividend
		if rec.Currency == model.CurrencyUSD {
			amount = amount.Mul(usdToKrw)
		}
		total = total.Add(amount)
	}
	return total
}
