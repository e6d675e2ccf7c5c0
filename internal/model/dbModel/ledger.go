package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID                int64           `db:"id"`
	Date              time.Time       `db:"date"`
	Country           string          `db:"country"`
	Symbol            string          `db:"symbol"`
	Type              string          `db:"type"`
	Quantity          decimal.Decimal `db:"quantity"`
	Price             decimal.Decimal `db:"price"`
	TotalPricePaid    decimal.Decimal `db:"total_price_paid"`
	TotalPricePaidKRW decimal.Decimal `db:"total_price_paid_in_krw"`
}

type Dividend struct {
	ID       int64           `db:"id"`
	Date     time.Time       `db:"date"`
	Symbol   string          `db:"symbol"`
	Dividend decimal.Decimal `db:"dividend"`
	Currency string          `db:"currency"`
}

type Cash struct {
	ID       int64           `db:"id"`
	Amount   decimal.Decimal `db:"amount"`
	Currency string          `db:"currency"`
}

type AssetSnapshot struct {
	ID     int64           `db:"id"`
	Date   time.Time       `db:"date"`
	Amount decimal.Decimal `db:"amount"`
}
