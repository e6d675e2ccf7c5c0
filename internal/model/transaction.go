package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// Markets a transaction can belong to. The country code decides both the
// quote source and the native currency of the instrument.
const (
	CountryKorea  = "KOR"
	CountryUSA    = "USA"
	CountryCrypto = "CRYPTO"
)

const (
	CurrencyKRW = "KRW"
	CurrencyUSD = "USD"
)

// Transaction is one immutable row of the trade ledger. TotalPricePaid and
// TotalPricePaidKRW are derived once at insert time; the KRW total carries
// the FX rate snapshot of that moment and is never re-derived.
type Transaction struct {
	ID                int64
	Date              time.Time
	Country           string
	Symbol            string
	Type              TradeType
	Quantity          decimal.Decimal
	Price             decimal.Decimal
	TotalPricePaid    decimal.Decimal
	TotalPricePaidKRW decimal.Decimal
}

type DividendRecord struct {
	ID       int64
	Date     time.Time
	Symbol   string
	Dividend decimal.Decimal
	Currency string
}

type CashBalance struct {
	Currency string
	Amount   decimal.Decimal
}

type AssetSnapshot struct {
	Date   time.Time
	Amount decimal.Decimal
}
