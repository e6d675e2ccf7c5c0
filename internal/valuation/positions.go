package valuation

import (
	"fmt"
	"sort"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
)

// DisplayMode selects the currency every figure is reported in. It is an
// explicit parameter of each call, never engine state.
type DisplayMode int

const (
	// DisplayNative reports each position in its instrument's currency.
	DisplayNative DisplayMode = iota
	// DisplayKRW reports everything in KRW, using the transaction-time FX
	// snapshot for cost figures and the live rate for market values.
	DisplayKRW
)

// Position is the derived net holding in one (country, symbol) pair.
type Position struct {
	Country      string
	Symbol       string
	Quantity     decimal.Decimal
	BuyQty       decimal.Decimal
	SellQty      decimal.Decimal
	BuyValue     decimal.Decimal
	SellValue    decimal.Decimal
	BuyValueKRW  decimal.Decimal
	SellValueKRW decimal.Decimal
	Lots         Lots
}

// CurrencyFor maps a market to its native currency. DisplayKRW forces USA
// to KRW; KOR and CRYPTO trade in KRW either way.
func CurrencyFor(country string, mode DisplayMode) (string, error) {
	switch country {
	case model.CountryKorea, model.CountryCrypto:
		return model.CurrencyKRW, nil
	case model.CountryUSA:
		if mode == DisplayKRW {
			return model.CurrencyKRW, nil
		}
		return model.CurrencyUSD, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCountry, country)
}

// InvestedAmount is the cost of the remaining FIFO lots in the selected
// display currency.
func (p Position) InvestedAmount(mode DisplayMode) decimal.Decimal {
	if mode == DisplayKRW {
		return p.Lots.CostKRW()
	}
	return p.Lots.Cost()
}

func (p Position) AveragePricePaid() decimal.Decimal {
	return p.Lots.AveragePricePaid()
}

// Aggregate nets the full ledger into per-(country, symbol) positions.
// Input order does not matter: transactions are sorted by date (then by
// insertion id) before the FIFO replay, so the result is deterministic for
// a fixed history. A net-negative holding aborts with ErrInconsistent.
func Aggregate(txs []model.Transaction) ([]Position, error) {
	sorted := make([]model.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	type key struct{ country, symbol string }
	index := make(map[key]int)
	var positions []Position
	grouped := make(map[key][]model.Transaction)

	for _, tx := range sorted {
		k := key{tx.Country, tx.Symbol}
		i, ok := index[k]
		if !ok {
			i = len(positions)
			index[k] = i
			positions = append(positions, Position{Country: tx.Country, Symbol: tx.Symbol})
		}
		grouped[k] = append(grouped[k], tx)

		p := &positions[i]
		switch tx.Type {
		case model.TradeBuy:
			p.BuyQty = p.BuyQty.Add(tx.Quantity)
			p.BuyValue = p.BuyValue.Add(tx.TotalPricePaid)
			p.BuyValueKRW = p.BuyValueKRW.Add(tx.TotalPricePaidKRW)
		case model.TradeSell:
			p.SellQty = p.SellQty.Add(tx.Quantity)
			p.SellValue = p.SellValue.Add(tx.TotalPricePaid)
			p.SellValueKRW = p.SellValueKRW.Add(tx.TotalPricePaidKRW)
		default:
			return nil, fmt.Errorf("%w: unknown trade type %q for %s", ErrInconsistent, tx.Type, tx.Symbol)
		}
	}

	for i := range positions {
		p := &positions[i]
		p.Quantity = p.BuyQty.Sub(p.SellQty)
		if p.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: %s/%s sold %s more than bought",
				ErrInconsistent, p.Country, p.Symbol, p.SellQty.Sub(p.BuyQty))
		}

		lots, err := BuildLots(grouped[key{p.Country, p.Symbol}])
		if err != nil {
			return nil, err
		}
		p.Lots = lots
	}

	return positions, nil
}

// Open returns the currently-owned view: positions with quantity held > 0.
func Open(positions []Position) []Position {
	var open []Position
	for _, p := range positions {
		if p.Quantity.IsPositive() {
			open = append(open, p)
		}
	}
	return open
}

// Closed returns the fully-realized view: history exists but nothing is
// held. A symbol that was closed and later reopened shows up as open only.
func Closed(positions []Position) []Position {
	var closed []Position
	for _, p := range positions {
		if p.Quantity.IsZero() {
			closed = append(closed, p)
		}
	}
	return closed
}
