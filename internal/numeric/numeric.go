// Package numeric stores exact decimal amounts as a (numerator, denominator)
// pair of 64-bit integers, the way the book's SQL columns hold them.
package numeric

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxNumber bounds both halves of the pair; magnitudes must stay strictly below it.
const MaxNumber = math.MaxInt64

// significantDigits is the precision used when a fraction has no finite
// decimal expansion.
const significantDigits = 28

// maxDigits is the number of decimal digits in MaxNumber.
const maxDigits = 19

var (
	// ErrTypeMismatch is returned when a value of an unsupported type is set,
	// floating-point numbers included.
	ErrTypeMismatch = errors.New("unsupported decimal input")
	// ErrOutOfRange is returned when the numerator or denominator does not fit.
	ErrOutOfRange = errors.New("amount cannot be represented")
	// ErrSyntax is returned for strings that are not decimal numbers.
	ErrSyntax = errors.New("invalid decimal string")
)

var maxNumber = big.NewInt(MaxNumber)

// Pair is a raw numerator/denominator input.
type Pair struct {
	Num   int64
	Denom int64
}

// Numeric is a decimal value backed by two nullable integer fields.
// Basis, when non-zero, pins the denominator (100 stores everything in hundredths).
type Numeric struct {
	Num   sql.NullInt64
	Denom sql.NullInt64
	Basis int64
}

// WithBasis returns an unset Numeric whose denominator is always basis.
func WithBasis(basis int64) Numeric {
	return Numeric{Basis: basis}
}

// Must builds a Numeric from v and panics if v cannot be stored.
// Intended for literals in tests and seed data.
func Must(v any) Numeric {
	var n Numeric
	if err := n.Set(v); err != nil {
		panic(err)
	}
	return n
}

// Set stores v. Accepted inputs are Pair, decimal.Decimal, *decimal.Decimal,
// integers, *big.Int and numeric strings; nil clears the value. On error the
// stored pair is left unchanged.
func (n *Numeric) Set(v any) error {
	if isNil(v) {
		n.Num = sql.NullInt64{}
		n.Denom = sql.NullInt64{}
		return nil
	}

	d, err := toDecimal(v)
	if err != nil {
		return err
	}

	num, denom, err := encode(d, n.Basis)
	if err != nil {
		return err
	}

	n.Num = sql.NullInt64{Int64: num, Valid: true}
	n.Denom = sql.NullInt64{Int64: denom, Valid: true}
	return nil
}

// IsSet reports whether a value is stored.
func (n Numeric) IsSet() bool {
	return n.Num.Valid
}

// Value returns num/denom. The boolean is false when no value is stored or
// the stored denominator is zero.
func (n Numeric) Value() (decimal.Decimal, bool) {
	r, ok := n.Rat()
	if !ok {
		return decimal.Zero, false
	}
	return ratToDecimal(r), true
}

// Decimal returns the stored value, or zero when unset.
func (n Numeric) Decimal() decimal.Decimal {
	d, _ := n.Value()
	return d
}

// Rat returns the stored value as an exact rational.
func (n Numeric) Rat() (*big.Rat, bool) {
	if !n.Num.Valid || !n.Denom.Valid || n.Denom.Int64 == 0 {
		return nil, false
	}
	return big.NewRat(n.Num.Int64, n.Denom.Int64), true
}

func (n Numeric) String() string {
	d, ok := n.Value()
	if !ok {
		return "<unset>"
	}
	return d.String()
}

// QueryExpr renders the pair as a SQL ratio for filtering and sorting.
// The CAST goes through a floating-point REAL, so results are approximate;
// use Value for anything that must be exact.
func QueryExpr(numCol, denomCol string) string {
	return fmt.Sprintf("(CAST(%s AS REAL) / %s)", numCol, denomCol)
}

func isNil(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *decimal.Decimal:
		return x == nil
	case *big.Int:
		return x == nil
	}
	return false
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case Pair:
		if x.Denom == 0 {
			return decimal.Zero, fmt.Errorf("%w: zero denominator in %d/%d", ErrOutOfRange, x.Num, x.Denom)
		}
		return ratToDecimal(big.NewRat(x.Num, x.Denom)), nil
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		return *x, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int8:
		return decimal.NewFromInt(int64(x)), nil
	case int16:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return fromUint(uint64(x)), nil
	case uint16:
		return fromUint(uint64(x)), nil
	case uint32:
		return fromUint(uint64(x)), nil
	case uint64:
		return fromUint(x), nil
	case *big.Int:
		return decimal.NewFromBigInt(x, 0), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrSyntax, x)
		}
		return d, nil
	case float32, float64:
		return decimal.Zero, fmt.Errorf("%w: received a floating-point number %v where a decimal is expected, use a decimal.Decimal, string or integer instead", ErrTypeMismatch, x)
	default:
		return decimal.Zero, fmt.Errorf("%w: received an unknown type %T where a decimal is expected, use a decimal.Decimal, string or integer instead", ErrTypeMismatch, v)
	}
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

// encode computes the stored pair for d. Exponents are checked against
// maxDigits before anything is scaled, so a value like 1e-5000000 is
// rejected without expanding it.
func encode(d decimal.Decimal, basis int64) (int64, int64, error) {
	if basis != 0 {
		return encodeWithBasis(d, basis)
	}

	coef, exp := d.Coefficient(), int64(d.Exponent())
	if exp < 0 {
		if -exp >= maxDigits || !fits(coef) {
			return 0, 0, outOfRange(d)
		}
		denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(-exp), nil)
		return coef.Int64(), denom.Int64(), nil
	}

	if coef.Sign() == 0 {
		return 0, 1, nil
	}
	if int64(numDigits(coef))+exp > maxDigits {
		return 0, 0, outOfRange(d)
	}
	num := new(big.Int).Mul(coef, new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil))
	if !fits(num) {
		return 0, 0, outOfRange(d)
	}
	return num.Int64(), 1, nil
}

// encodeWithBasis scales d to basis and rounds half away from zero.
func encodeWithBasis(d decimal.Decimal, basis int64) (int64, int64, error) {
	if !fits(big.NewInt(basis)) {
		return 0, 0, outOfRange(d)
	}

	scaled := d.Mul(decimal.NewFromInt(basis))
	coef, exp := scaled.Coefficient(), int64(scaled.Exponent())
	if coef.Sign() == 0 {
		return 0, basis, nil
	}
	// |scaled| < 10^(digits+exp)
	magnitude := int64(numDigits(coef)) + exp
	switch {
	case magnitude < 0:
		return 0, basis, nil
	case magnitude > maxDigits:
		return 0, 0, outOfRange(d)
	}

	num := scaled.Round(0).BigInt()
	if !fits(num) {
		return 0, 0, outOfRange(d)
	}
	return num.Int64(), basis, nil
}

// fits reports whether |x| < MaxNumber.
func fits(x *big.Int) bool {
	return new(big.Int).Abs(x).Cmp(maxNumber) < 0
}

func numDigits(x *big.Int) int {
	if x.Sign() == 0 {
		return 1
	}
	return len(new(big.Int).Abs(x).String())
}

// outOfRange keeps the message short for extreme exponents.
func outOfRange(d decimal.Decimal) error {
	amount := d.String()
	if exp := d.Exponent(); exp > maxDigits || exp < -maxDigits {
		amount = fmt.Sprintf("%se%d", d.Coefficient(), exp)
	}
	return fmt.Errorf("%w: the amount %s is either too large or has too many decimals", ErrOutOfRange, amount)
}

// ratToDecimal converts r exactly when its decimal expansion terminates and
// rounds to significantDigits otherwise.
func ratToDecimal(r *big.Rat) decimal.Decimal {
	num, den := r.Num(), r.Denom()

	twos, fives, rest := 0, 0, new(big.Int).Set(den)
	two, five, mod := big.NewInt(2), big.NewInt(5), new(big.Int)
	for mod.Mod(rest, two).Sign() == 0 {
		rest.Quo(rest, two)
		twos++
	}
	for mod.Mod(rest, five).Sign() == 0 {
		rest.Quo(rest, five)
		fives++
	}

	if rest.Cmp(big.NewInt(1)) == 0 {
		k := max(twos, fives)
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
		coef := new(big.Int).Mul(num, scale)
		coef.Quo(coef, den)
		return decimal.NewFromBigInt(coef, -int32(k))
	}

	places := int32(significantDigits)
	absNum := new(big.Int).Abs(num)
	if whole := new(big.Int).Quo(absNum, den); whole.Sign() != 0 {
		places -= int32(len(whole.String()))
	} else {
		// count leading zeros after the decimal point
		scaled := new(big.Int).Set(absNum)
		ten := big.NewInt(10)
		for scaled.Mul(scaled, ten).Cmp(den) < 0 {
			places++
		}
	}
	return decimal.NewFromBigInt(num, 0).DivRound(decimal.NewFromBigInt(den, 0), places)
}
