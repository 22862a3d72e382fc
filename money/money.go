package money

import "errors"

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidAmount    = errors.New("amount cannot be negative")
)

// Money is an integer amount of minor units (paise). Arithmetic never
// touches floating point so repeated percentage math stays exact.
type Money struct {
	Paise    int64  `gorm:"not null;default:0" json:"paise"`
	Currency string `gorm:"size:3;not null;default:'INR'" json:"currency"`
}

func New(paise int64, currency string) Money {
	return Money{Paise: paise, Currency: currency}
}

// INR is a shorthand constructor for the platform's default currency.
func INR(paise int64) Money {
	return Money{Paise: paise, Currency: "INR"}
}

func Zero(currency string) Money {
	return Money{Paise: 0, Currency: currency}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Paise: m.Paise + other.Paise, Currency: m.Currency}, nil
}

// Sub fails with ErrInvalidAmount when the result would be negative;
// refunds and debits model negative movement explicitly, not here.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	result := m.Paise - other.Paise
	if result < 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Paise: result, Currency: m.Currency}, nil
}

// MulRate multiplies by num/den rounding half up to the nearest paisa.
// Round half up (not banker's rounding) keeps results reproducible.
func (m Money) MulRate(num, den int64) Money {
	if den == 0 {
		return Money{Paise: 0, Currency: m.Currency}
	}
	product := m.Paise * num
	quotient := product / den
	remainder := product % den
	if remainder*2 >= den {
		quotient++
	}
	return Money{Paise: quotient, Currency: m.Currency}
}

// MulPercent applies a percentage expressed in basis points (2000 = 20%).
func (m Money) MulPercent(basisPoints int64) Money {
	return m.MulRate(basisPoints, 10000)
}

func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, ErrCurrencyMismatch
	}
	switch {
	case m.Paise < other.Paise:
		return -1, nil
	case m.Paise > other.Paise:
		return 1, nil
	}
	return 0, nil
}

func (m Money) IsNegative() bool {
	return m.Paise < 0
}

func (m Money) IsZero() bool {
	return m.Paise == 0
}
