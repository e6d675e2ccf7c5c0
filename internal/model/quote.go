package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a live price snapshot for one instrument in its native currency.
type Quote struct {
	Price        decimal.Decimal `json:"price"`
	DayChange    decimal.Decimal `json:"dayChange"`
	DayChangePct decimal.Decimal `json:"dayChangePct"`
}

// Candle is one bar of a historical price series.
type Candle struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}
