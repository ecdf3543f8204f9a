package valueobject

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code
type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// DefaultCurrency is used when no currency is given
const DefaultCurrency = INR

var symbols = map[Currency]string{
	INR: "₹",
	USD: "$",
	EUR: "€",
}

// Money pairs a decimal amount with its currency. It is immutable and
// carries the display formatting used in rendered documents.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money in the given currency, falling back to
// DefaultCurrency when the code is empty.
func New(amount decimal.Decimal, currency Currency) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}
}

// Rupees creates a Money in INR
func Rupees(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: INR}
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency { return m.currency }

func (m Money) IsZero() bool { return m.amount.IsZero() }

// Add returns the sum. Both values must share a currency; mismatches
// indicate a programming error and keep the receiver's currency.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

// String returns the plain form, e.g. "16350.00 INR"
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

// Display returns the symbol-prefixed, digit-grouped form used on
// printed documents, e.g. "₹2,80,000.00". INR uses the Indian
// lakh/crore grouping; other currencies group by thousands.
func (m Money) Display() string {
	fixed := m.amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if m.currency == INR {
		intPart = groupIndian(intPart)
	} else {
		intPart = groupThousands(intPart)
	}

	symbol, ok := symbols[m.currency]
	if !ok {
		symbol = string(m.currency) + " "
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	b.WriteString(intPart)
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// groupIndian inserts separators per the Indian numbering system:
// the last three digits form one group, the rest pair off.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	groups := []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",")
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return strings.Join(groups, ",")
}

// MarshalJSON emits both the raw amount and the display form so
// renderers do not reimplement the grouping rules.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
		Display  string   `json:"display"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
		Display:  m.Display(),
	})
}
