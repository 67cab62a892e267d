package kernel

import (
	"errors"
	"fmt"

	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when a Money is built without a currency code.
const DefaultCurrency = "BRL"

var (
	ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoney or MoneyFromString")
	ErrCurrencyMismatch      = errors.New("currency mismatch")
)

// Money is a non-negative decimal amount tagged with a currency code.
type Money struct {
	amount        decimal.Decimal
	currency      string
	isConstructed bool
}

// NewMoney validates amount >= 0. An empty currency falls back to DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), "0", "unbounded")
	}
	if len(currency) > 8 {
		return Money{}, errs.NewValueIsInvalidError("currency")
	}
	return Money{amount: amount, currency: currency, isConstructed: true}, nil
}

func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d, currency)
}

func MustNewMoney(amount decimal.Decimal, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// Add returns m + other. Operands must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return Money{}, err
	}
	if m.currency != other.currency {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency))
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Mul scales the amount by a non-negative factor, keeping the currency.
func (m Money) Mul(factor decimal.Decimal) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// IsEqual compares amount numerically, so 100 and 100.00 are equal.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.String() + " " + m.currency
}

func (m Money) Validate() error {
	if !m.isConstructed {
		return ErrMoneyIsNotConstructed
	}
	return nil
}
