package valuation

import (
	"fmt"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// QuoteKey identifies a quote in the snapshot handed to CurrentPortfolio.
func QuoteKey(country, symbol string) string {
	return country + ":" + symbol
}

// CurrentPortfolio joins open positions with the quote snapshot and the
// cost basis into the current-portfolio table. usdToKrw is the live rate
// used to revalue USD market prices in KRW display mode; cost figures keep
// their transaction-time snapshot. The whole call fails on the first
// missing quote or inconsistent position, producing no partial table.
func CurrentPortfolio(open []Position, quotes map[string]model.Quote, usdToKrw decimal.Decimal, mode DisplayMode) ([]model.PortfolioRow, error) {
	rows := make([]model.PortfolioRow, 0, len(open))

	for _, p := range open {
		quote, ok := quotes[QuoteKey(p.Country, p.Symbol)]
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrMissingQuote, p.Country, p.Symbol)
		}

		currency, err := CurrencyFor(p.Country, mode)
		if err != nil {
			return nil, err
		}

		currentValue := p.Quantity.Mul(quote.Price)
		if mode == DisplayKRW && p.Country == model.CountryUSA {
			currentValue = currentValue.Mul(usdToKrw)
		}

		invested := p.InvestedAmount(mode)
		if invested.IsZero() {
			// A held position with nothing invested would divide by zero
			// further down; refuse rather than emit NaN-shaped output.
			return nil, fmt.Errorf("%w: %s/%s held with zero invested amount",
				ErrInconsistent, p.Country, p.Symbol)
		}

		totalGain := currentValue.Sub(invested)

		rows = append(rows, model.PortfolioRow{
			Country:          p.Country,
			Symbol:           p.Symbol,
			Quantity:         p.Quantity,
			DayChangePct:     quote.DayChangePct.Round(2),
			CurrentPrice:     quote.Price,
			AveragePricePaid: p.AveragePricePaid(),
			PctGain:          totalGain.Div(invested).Mul(oneHundred).Round(2),
			CurrentValue:     currentValue,
			InvestedAmount:   invested,
			TotalGain:        totalGain,
			Currency:         currency,
		})
	}

	return rows, nil
}

// PortfolioValue rolls the table up into a single KRW-normalized total.
// USD rows are revalued at the live rate; rows already in KRW pass through.
func PortfolioValue(rows []model.PortfolioRow, usdToKrw decimal.Decimal) (model.PortfolioValue, error) {
	value := model.PortfolioValue{
		CurrentValue:   decimal.Zero,
		InvestedAmount: decimal.Zero,
	}

	for _, row := range rows {
		currentValue := row.CurrentValue
		invested := row.InvestedAmount
		if row.Currency == model.CurrencyUSD {
			currentValue = currentValue.Mul(usdToKrw)
			invested = invested.Mul(usdToKrw)
		}
		value.CurrentValue = value.CurrentValue.Add(currentValue)
		value.InvestedAmount = value.InvestedAmount.Add(invested)
	}

	value.Gain = value.CurrentValue.Sub(value.InvestedAmount)

	if value.InvestedAmount.IsZero() {
		if !value.CurrentValue.IsZero() {
			return model.PortfolioValue{}, fmt.Errorf("%w: portfolio value without invested amount", ErrInconsistent)
		}
		value.Yield = decimal.Zero
		return value, nil
	}

	value.Yield = value.Gain.Div(value.InvestedAmount).Mul(oneHundred).Round(2)
	return value, nil
}

// InvestmentByCountry sums invested amount, current value and gain per
// country, each row re-tagged with its display currency.
func InvestmentByCountry(rows []model.PortfolioRow, mode DisplayMode) ([]model.CountryInvestment, error) {
	index := make(map[string]int)
	var byCountry []model.CountryInvestment

	for _, row := range rows {
		i, ok := index[row.Country]
		if !ok {
			currency, err := CurrencyFor(row.Country, mode)
			if err != nil {
				return nil, err
			}
			i = len(byCountry)
			index[row.Country] = i
			byCountry = append(byCountry, model.CountryInvestment{
				Country:  row.Country,
				Currency: currency,
			})
		}
		c := &byCountry[i]
		c.InvestedAmount = c.InvestedAmount.Add(row.InvestedAmount)
		c.CurrentValue = c.CurrentValue.Add(row.CurrentValue)
		c.TotalGain = c.TotalGain.Add(row.TotalGain)
	}

	return byCountry, nil
}

// PortfolioWithCash is the asset-components view: every position's current
// value normalized to KRW, plus one trailing CASH pseudo-row.
func PortfolioWithCash(rows []model.PortfolioRow, totalCash, usdToKrw decimal.Decimal) []model.AssetComponent {
	components := make([]model.AssetComponent, 0, len(rows)+1)

	for _, row := range rows {
		value := row.CurrentValue
		if row.Currency == model.CurrencyUSD {
			value = value.Mul(usdToKrw)
		}
		components = append(components, model.AssetComponent{Name: row.Symbol, Value: value})
	}

	return append(components, model.AssetComponent{Name: "CASH", Value: totalCash})
}

// TotalTradedAmount sums all buys and sells across the whole history in
// KRW. DisplayKRW uses the transaction-time snapshots; DisplayNative
// revalues USA totals at the live rate, matching the source's two modes.
func TotalTradedAmount(positions []Position, usdToKrw decimal.Decimal, mode DisplayMode) model.TradedAmount {
	traded := model.TradedAmount{Buy: decimal.Zero, Sell: decimal.Zero}

	for _, p := range positions {
		buy, sell := p.BuyValueKRW, p.SellValueKRW
		if mode == DisplayNative && p.Country == model.CountryUSA {
			buy = p.BuyValue.Mul(usdToKrw)
			sell = p.SellValue.Mul(usdToKrw)
		}
		traded.Buy = traded.Buy.Add(buy)
		traded.Sell = traded.Sell.Add(sell)
	}

	traded.Net = traded.Sell.Sub(traded.Buy)
	return traded
}

// TotalCashKRW sums the per-currency cash balances into one KRW figure.
func TotalCashKRW(balances []model.CashBalance, usdToKrw decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		amount := b.Amount
		if b.Currency == model.CurrencyUSD {
			amount = amount.Mul(usdToKrw)
		}
		total = total.Add(amount)
	}
	return total
}
