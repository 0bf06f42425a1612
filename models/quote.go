package models

import "strconv"

// PriceQuote is an immutable destination/price pair returned by the catalog.
type PriceQuote struct {
	Destination string  `json:"destination"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// Display renders the quote the way it is shown to the user, e.g. "$799".
func (q PriceQuote) Display() string {
	amount := strconv.FormatFloat(q.Amount, 'f', -1, 64)
	if q.Currency == "USD" {
		return "$" + amount
	}
	return amount + " " + q.Currency
}
