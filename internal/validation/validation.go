// Package validation checks raw ledger input before anything reaches the
// database. Each field has its own validator; ParseTransaction and
// ParseDividend run them as a pipeline and collect every failure instead
// of stopping at the first one.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var countryCodeRe = regexp.MustCompile(`^[A-Z]{3,6}$`)

// FieldError describes one rejected input field, with enough context for
// user display.
type FieldError struct {
	Field    string
	Value    string
	Expected string
	Example  string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("invalid input %q: %q must be %s, e.g. %s", e.Value, e.Field, e.Expected, e.Example)
}

// Result collects the field errors of one record.
type Result struct {
	fieldErrors []FieldError
}

func (r *Result) Add(e *FieldError) {
	if e != nil {
		r.fieldErrors = append(r.fieldErrors, *e)
	}
}

func (r *Result) Ok() bool {
	return len(r.fieldErrors) == 0
}

func (r *Result) FieldErrors() []FieldError {
	return r.fieldErrors
}

// Err joins all collected field errors into a single error, nil when valid.
func (r *Result) Err() error {
	if r.Ok() {
		return nil
	}
	errs := make([]error, 0, len(r.fieldErrors))
	for _, fe := range r.fieldErrors {
		errs = append(errs, fe)
	}
	return errors.Join(errs...)
}

func Date(field, value string) (time.Time, *FieldError) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &FieldError{
			Field:    field,
			Value:    value,
			Expected: "a calendar date in YYYY-MM-DD",
			Example:  "2022-02-12",
		}
	}
	return d, nil
}

func Country(field, value string) (string, *FieldError) {
	country := strings.ToUpper(strings.TrimSpace(value))
	switch country {
	case model.CountryKorea, model.CountryUSA, model.CountryCrypto:
		return country, nil
	}
	if !countryCodeRe.MatchString(country) {
		return "", &FieldError{
			Field:    field,
			Value:    value,
			Expected: "an alpha-3 market code (ISO 3166) or CRYPTO",
			Example:  "USA, KOR, CRYPTO",
		}
	}
	return "", &FieldError{
		Field:    field,
		Value:    value,
		Expected: "one of the supported markets KOR, USA, CRYPTO",
		Example:  "KOR",
	}
}

func TradeType(field, value string) (model.TradeType, *FieldError) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "b", "buy":
		return model.TradeBuy, nil
	case "s", "sell":
		return model.TradeSell, nil
	}
	return "", &FieldError{
		Field:    field,
		Value:    value,
		Expected: "'b' for buy or 's' for sell",
		Example:  "b",
	}
}

// Amount parses a strictly positive decimal. Zero and negative magnitudes
// are rejected here, before the record can reach the ledger.
func Amount(field, value string) (decimal.Decimal, *FieldError) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, &FieldError{
			Field:    field,
			Value:    value,
			Expected: "a real number",
			Example:  "1, 123.45",
		}
	}
	if !d.IsPositive() {
		return decimal.Zero, &FieldError{
			Field:    field,
			Value:    value,
			Expected: "a number greater than zero",
			Example:  "0.5",
		}
	}
	return d, nil
}

// NonNegativeAmount parses a decimal that may be zero. Cash balances can
// legitimately be set to zero; ledger magnitudes go through Amount instead.
func NonNegativeAmount(field, value string) (decimal.Decimal, *FieldError) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, &FieldError{
			Field:    field,
			Value:    value,
			Expected: "a real number",
			Example:  "1, 123.45",
		}
	}
	if d.IsNegative() {
		return decimal.Zero, &FieldError{
			Field:    field,
			Value:    value,
			Expected: "a number of at least zero",
			Example:  "0",
		}
	}
	return d, nil
}

func Currency(field, value string) (string, *FieldError) {
	currency := strings.ToUpper(strings.TrimSpace(value))
	switch currency {
	case model.CurrencyKRW, model.CurrencyUSD:
		return currency, nil
	}
	return "", &FieldError{
		Field:    field,
		Value:    value,
		Expected: "either KRW or USD",
		Example:  "USD",
	}
}

func Symbol(field, value string) (string, *FieldError) {
	symbol := strings.ToUpper(strings.TrimSpace(value))
	if symbol == "" {
		return "", &FieldError{
			Field:    field,
			Value:    value,
			Expected: "a non-empty instrument symbol",
			Example:  "AAPL",
		}
	}
	return symbol, nil
}

// ParseTransaction validates the six raw transaction fields and builds a
// model.Transaction without its derived totals. The Result carries every
// rejected field.
func ParseTransaction(date, country, tradeType, symbol, quantity, price string) (model.Transaction, *Result) {
	res := &Result{}

	d, fieldErr := Date("date", date)
	res.Add(fieldErr)

	c, fieldErr := Country("country", country)
	res.Add(fieldErr)

	t, fieldErr := TradeType("type", tradeType)
	res.Add(fieldErr)

	s, fieldErr := Symbol("symbol", symbol)
	res.Add(fieldErr)

	q, fieldErr := Amount("quantity", quantity)
	res.Add(fieldErr)

	p, fieldErr := Amount("price", price)
	res.Add(fieldErr)

	if !res.Ok() {
		return model.Transaction{}, res
	}

	return model.Transaction{
		Date:     d,
		Country:  c,
		Symbol:   s,
		Type:     t,
		Quantity: q,
		Price:    p,
	}, res
}

func ParseDividend(date, symbol, amount, currency string) (model.DividendRecord, *Result) {
	res := &Result{}

	d, fieldErr := Date("date", date)
	res.Add(fieldErr)

	s, fieldErr := Symbol("symbol", symbol)
	res.Add(fieldErr)

	a, fieldErr := Amount("dividend", amount)
	res.Add(fieldErr)

	c, fieldErr := Currency("currency", currency)
	res.Add(fieldErr)

	if !res.Ok() {
		return model.DividendRecord{}, res
	}

	return model.DividendRecord{
		Date:     d,
		Symbol:   s,
		Dividend: a,
		Currency: c,
	}, res
}
