// Package valuation is the portfolio valuation engine: pure, deterministic
// functions from a transaction ledger snapshot (plus quotes and an FX rate
// supplied by the caller) to positions, cost basis, gains and rollups.
// Nothing in this package talks to the network or the database.
package valuation

import (
	"fmt"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
)

// Lot is one remaining slice of a purchase. Cost is the lot's total cost in
// the instrument's native currency; CostKRW carries the KRW total converted
// at the time the purchase was recorded.
type Lot struct {
	Quantity decimal.Decimal
	Cost     decimal.Decimal
	CostKRW  decimal.Decimal
}

// Lots is a FIFO queue of purchase lots, oldest first.
type Lots []Lot

// BuildLots replays the ordered transaction history of one symbol. A buy
// appends a lot; a sell consumes from the front, splitting the front lot
// proportionally when only part of it is sold, so fractional quantities
// (crypto, partial shares) work the same as whole units.
func BuildLots(txs []model.Transaction) (Lots, error) {
	var lots Lots

	for _, tx := range txs {
		switch tx.Type {
		case model.TradeBuy:
			lots = append(lots, Lot{
				Quantity: tx.Quantity,
				Cost:     tx.TotalPricePaid,
				CostKRW:  tx.TotalPricePaidKRW,
			})
		case model.TradeSell:
			remaining, err := lots.consume(tx.Quantity)
			if err != nil {
				return nil, fmt.Errorf("%w: sell of %s %s on %s exceeds held quantity",
					ErrInconsistent, tx.Quantity, tx.Symbol, tx.Date.Format("2006-01-02"))
			}
			lots = remaining
		default:
			return nil, fmt.Errorf("%w: unknown trade type %q", ErrInconsistent, tx.Type)
		}
	}

	return lots, nil
}

// consume removes quantity from the front of the queue, oldest cost first.
func (l Lots) consume(quantity decimal.Decimal) (Lots, error) {
	lots := l

	for quantity.IsPositive() {
		if len(lots) == 0 {
			return nil, ErrInconsistent
		}

		front := lots[0]
		if front.Quantity.GreaterThan(quantity) {
			soldCost := front.Cost.Mul(quantity).Div(front.Quantity)
			soldCostKRW := front.CostKRW.Mul(quantity).Div(front.Quantity)
			rest := Lot{
				Quantity: front.Quantity.Sub(quantity),
				Cost:     front.Cost.Sub(soldCost),
				CostKRW:  front.CostKRW.Sub(soldCostKRW),
			}
			return append(Lots{rest}, lots[1:]...), nil
		}

		quantity = quantity.Sub(front.Quantity)
		lots = lots[1:]
	}

	return lots, nil
}

func (l Lots) Quantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l {
		total = total.Add(lot.Quantity)
	}
	return total
}

func (l Lots) Cost() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l {
		total = total.Add(lot.Cost)
	}
	return total
}

func (l Lots) CostKRW() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l {
		total = total.Add(lot.CostKRW)
	}
	return total
}

// AveragePricePaid is the average native-currency cost of what remains in
// position, zero when nothing remains.
func (l Lots) AveragePricePaid() decimal.Decimal {
	qty := l.Quantity()
	if qty.IsZero() {
		return decimal.Zero
	}
	return l.Cost().Div(qty)
}
