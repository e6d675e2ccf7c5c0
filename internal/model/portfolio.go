package model

import "github.com/shopspring/decimal"

// PortfolioRow is one open position joined with its live quote, cost basis
// and gain figures, expressed in the row's Currency.
type PortfolioRow struct {
	Country          string
	Symbol           string
	Quantity         decimal.Decimal
	DayChangePct     decimal.Decimal
	CurrentPrice     decimal.Decimal
	AveragePricePaid decimal.Decimal
	PctGain          decimal.Decimal
	CurrentValue     decimal.Decimal
	InvestedAmount   decimal.Decimal
	TotalGain        decimal.Decimal
	Currency         string
}

// PortfolioValue is the portfolio-level rollup with every position
// normalized to KRW.
type PortfolioValue struct {
	CurrentValue   decimal.Decimal
	InvestedAmount decimal.Decimal
	Gain           decimal.Decimal
	Yield          decimal.Decimal
}

type CountryInvestment struct {
	Country        string
	InvestedAmount decimal.Decimal
	CurrentValue   decimal.Decimal
	TotalGain      decimal.Decimal
	Currency       string
}

// AssetComponent is one slice of the portfolio-plus-cash view. The cash
// balance appears as a single trailing CASH pseudo-row.
type AssetComponent struct {
	Name  string
	Value decimal.Decimal
}

type RealizedGain struct {
	Country      string
	Symbol       string
	BuyValue     decimal.Decimal
	SellValue    decimal.Decimal
	RealizedGain decimal.Decimal
	Currency     string
}

type CurrencyGain struct {
	Currency     string
	RealizedGain decimal.Decimal
}

type TradedAmount struct {
	Buy  decimal.Decimal
	Sell decimal.Decimal
	Net  decimal.Decimal
}

type SymbolDividend struct {
	Symbol   string
	Dividend decimal.Decimal
	Currency string
}

// PortfolioReport is the full valuation output consumed by the CLI summary
// and the xlsx report.
type PortfolioReport struct {
	Rows         []PortfolioRow
	Value        PortfolioValue
	ByCountry    []CountryInvestment
	Components   []AssetComponent
	TotalCash    decimal.Decimal
	CurrentAsset decimal.Decimal
	Transactions []Transaction
}
