// pkg/valueobjects/fee.go
package valueobjects

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/austcse/carnival-backend/errors"
	"github.com/shopspring/decimal"
)

// Currency represents a valid ISO 4217 currency code
type Currency string

const (
	BDT Currency = "BDT"
	USD Currency = "USD"
)

var validCurrencies = map[Currency]bool{
	BDT: true,
	USD: true,
}

// FeeKind classifies a registration fee.
type FeeKind string

const (
	FeeFree   FeeKind = "free"
	FeeTBA    FeeKind = "tba"
	FeeAmount FeeKind = "amount"
)

// Fee is the normalized form of a free-form registration fee such as
// "Free", "TBA", "500", "BDT 500" or "500 Tk".
type Fee struct {
	kind     FeeKind
	amount   decimal.Decimal
	currency Currency
}

// amountPattern captures an optional currency prefix/suffix around a number.
var amountPattern = regexp.MustCompile(`(?i)^(bdt|tk\.?|৳|usd|\$)?\s*([0-9]+(?:\.[0-9]{1,2})?)\s*(bdt|tk\.?|taka|৳|usd)?$`)

// NewFee creates an amount fee with validation
func NewFee(amount decimal.Decimal, currency Currency) (*Fee, error) {
	if !validCurrencies[currency] {
		return nil, errors.ValidationFailed(
			"invalid currency",
			fmt.Sprintf("currency %s is not supported", currency),
		)
	}

	if amount.LessThan(decimal.Zero) {
		return nil, errors.ValidationFailed(
			"invalid amount",
			"amount cannot be negative",
		)
	}

	if amount.Exponent() < -2 {
		return nil, errors.ValidationFailed(
			"invalid amount",
			"amount cannot have more than 2 decimal places",
		)
	}

	if amount.IsZero() {
		return &Fee{kind: FeeFree, amount: decimal.Zero, currency: currency}, nil
	}

	return &Fee{kind: FeeAmount, amount: amount, currency: currency}, nil
}

// ParseFee normalizes a fee string from the segment catalog. Empty input and
// "TBA" both mean the fee has not been announced yet.
func ParseFee(raw string) (*Fee, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "free":
		return &Fee{kind: FeeFree, amount: decimal.Zero, currency: BDT}, nil
	case "", "tba", "tbd":
		return &Fee{kind: FeeTBA, currency: BDT}, nil
	}

	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, errors.ValidationFailed(
			"invalid fee format",
			fmt.Sprintf("cannot parse fee %q", raw),
		)
	}

	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return nil, errors.ValidationFailed("invalid fee format", err.Error())
	}

	currency := BDT
	for _, marker := range []string{m[1], m[3]} {
		switch strings.ToLower(marker) {
		case "usd", "$":
			currency = USD
		}
	}

	return NewFee(amount, currency)
}

// Kind returns the fee classification
func (f Fee) Kind() FeeKind {
	return f.kind
}

// Amount returns the decimal amount; zero for free and TBA fees.
func (f Fee) Amount() decimal.Decimal {
	return f.amount
}

// Currency returns the currency code
func (f Fee) Currency() Currency {
	return f.currency
}

// IsFree reports whether participation costs nothing.
func (f Fee) IsFree() bool {
	return f.kind == FeeFree
}

// IsAnnounced reports whether the fee is known.
func (f Fee) IsAnnounced() bool {
	return f.kind != FeeTBA
}

// Equals checks if two fees are equal
func (f Fee) Equals(other Fee) bool {
	return f.kind == other.kind && f.currency == other.currency && f.amount.Equal(other.amount)
}

// String returns the display form used by the website.
func (f Fee) String() string {
	switch f.kind {
	case FeeFree:
		return "Free"
	case FeeTBA:
		return "TBA"
	default:
		return fmt.Sprintf("%s %s", f.amount.StringFixed(2), f.currency)
	}
}

type feeJSON struct {
	Kind     FeeKind  `json:"kind"`
	Amount   *string  `json:"amount,omitempty"`
	Currency Currency `json:"currency,omitempty"`
	Display  string   `json:"display"`
}

// MarshalJSON renders the fee for API clients.
func (f Fee) MarshalJSON() ([]byte, error) {
	out := feeJSON{Kind: f.kind, Display: f.String()}
	if f.kind == FeeAmount {
		amount := f.amount.StringFixed(2)
		out.Amount = &amount
		out.Currency = f.currency
	}
	return json.Marshal(out)
}
