package money

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// Wei is an 18-decimal fixed-point amount of the native asset, stored in
// Postgres as NUMERIC(78,0). The zero value is usable and equals 0 wei.
type Wei struct {
	i big.Int
}

var weiPerEth = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// WeiPerEth returns 10^18 as a fresh big.Int.
func WeiPerEth() *big.Int {
	return new(big.Int).Set(weiPerEth)
}

func NewWei(i *big.Int) Wei {
	var w Wei
	if i != nil {
		w.i.Set(i)
	}
	return w
}

func NewWeiFromString(s string) (Wei, error) {
	var w Wei
	if _, ok := w.i.SetString(s, 10); !ok {
		return Wei{}, fmt.Errorf("invalid wei amount: %q", s)
	}
	return w, nil
}

// BigInt returns a copy; mutating it does not affect the Wei value.
func (w Wei) BigInt() *big.Int {
	return new(big.Int).Set(&w.i)
}

func (w Wei) String() string {
	return w.i.String()
}

func (w Wei) Sign() int {
	return w.i.Sign()
}

func (w Wei) Cmp(other Wei) int {
	return w.i.Cmp(&other.i)
}

func (w Wei) Add(other Wei) Wei {
	var out Wei
	out.i.Add(&w.i, &other.i)
	return out
}

func (w Wei) Sub(other Wei) Wei {
	var out Wei
	out.i.Sub(&w.i, &other.i)
	return out
}

func (w Wei) IsZero() bool {
	return w.i.Sign() == 0
}

// Scan implements sql.Scanner.
func (w *Wei) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		w.i.SetInt64(0)
		return nil
	case int64:
		w.i.SetInt64(v)
		return nil
	case []byte:
		return w.setString(string(v))
	case string:
		return w.setString(v)
	default:
		return fmt.Errorf("cannot scan %T into Wei", src)
	}
}

// Value implements driver.Valuer; the decimal string maps to NUMERIC.
func (w Wei) Value() (driver.Value, error) {
	return w.i.String(), nil
}

func (w *Wei) setString(s string) error {
	if _, ok := w.i.SetString(s, 10); !ok {
		return fmt.Errorf("invalid numeric value for Wei: %q", s)
	}
	return nil
}

// MarshalJSON renders the amount as a decimal string; wei does not fit in
// float64 and JSON numbers would lose precision.
func (w Wei) MarshalJSON() ([]byte, error) {
	return []byte(`"` + w.i.String() + `"`), nil
}

func (w *Wei) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return w.setString(s)
}
