package valuation

import (
	"sort"

	"github.com/dokyun-kim/gorich/internal/model"
)

// RealizedGains reports the profit locked in by fully-closed positions:
// sell total minus buy total in the selected display mode. It is a pure
// function of historical aggregates and never needs a quote.
func RealizedGains(closed []Position, mode DisplayMode) ([]model.RealizedGain, error) {
	gains := make([]model.RealizedGain, 0, len(closed))

	for _, p := range closed {
		currency, err := CurrencyFor(p.Country, mode)
		if err != nil {
			return nil, err
		}

		buy, sell := p.BuyValue, p.SellValue
		if mode == DisplayKRW {
			buy, sell = p.BuyValueKRW, p.SellValueKRW
		}

		gains = append(gains, model.RealizedGain{
			Country:      p.Country,
			Symbol:       p.Symbol,
			BuyValue:     buy,
			SellValue:    sell,
			RealizedGain: sell.Sub(buy),
			Currency:     currency,
		})
	}

	return gains, nil
}

// TotalRealizedGain rolls realized gains up into one figure per currency,
// sorted by currency code for stable output.
func TotalRealizedGain(gains []model.RealizedGain) []model.CurrencyGain {
	totals := make(map[string]model.CurrencyGain)
	for _, g := range gains {
		t := totals[g.Currency]
		t.Currency = g.Currency
		t.RealizedGain = t.RealizedGain.Add(g.RealizedGain)
		totals[g.Currency] = t
	}

	out := make([]model.CurrencyGain, 0, len(totals))
	for _, t := range totals {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}
