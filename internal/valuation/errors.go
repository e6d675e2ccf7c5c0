package valuation

import "errors"

var (
	// ErrInconsistent marks position math that reached an undefined state,
	// e.g. selling more than was ever bought. The whole valuation call
	// aborts instead of producing misleading tables.
	ErrInconsistent = errors.New("inconsistent position state")

	// ErrMissingQuote means an open position had no quote in the snapshot
	// passed to the valuation.
	ErrMissingQuote = errors.New("missing quote for position")

	// ErrUnknownCountry means a country code has no currency mapping.
	ErrUnknownCountry = errors.New("unknown country code")
)
