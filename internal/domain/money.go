package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal money value. Upstream sends totals either as numbers
// or as locale-formatted strings ("1,200.00"); decoding normalizes both and
// treats anything unparsable as zero rather than failing the whole payload.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{d}
}

func AmountFromInt(v int64) Amount {
	return Amount{decimal.NewFromInt(v)}
}

// ParseAmount strips grouping separators, currency symbols and other
// non-numeric characters before parsing.
func ParseAmount(s string) Amount {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return Amount{decimal.Zero}
	}
	return Amount{d}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = ParseAmount(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		*a = Amount{decimal.Zero}
		return nil
	}
	*a = Amount{d}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{a.Decimal.Sub(b.Decimal)}
}

func (a Amount) MulInt(n int) Amount {
	return Amount{a.Decimal.Mul(decimal.NewFromInt(int64(n)))}
}
