package numeric

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRoundTrip(t *testing.T) {
	tests := []struct {
		input     string
		wantNum   int64
		wantDenom int64
	}{
		{"0", 0, 1},
		{"1", 1, 1},
		{"1.50", 150, 100},
		{"-12.345", -12345, 1000},
		{"0.000001", 1, 1000000},
		{"1500", 1500, 1},
		{"1.5e3", 1500, 1},
		{"123456789.123456789", 123456789123456789, 1000000000},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.input)

		var n Numeric
		require.NoError(t, n.Set(d), "Set(%s)", tt.input)
		assert.Equal(t, tt.wantNum, n.Num.Int64, "numerator of %s", tt.input)
		assert.Equal(t, tt.wantDenom, n.Denom.Int64, "denominator of %s", tt.input)

		got, ok := n.Value()
		require.True(t, ok)
		assert.True(t, got.Equal(d), "round trip of %s gave %s", tt.input, got)
	}
}

func TestSetAcceptedTypes(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint8", uint8(3), "3"},
		{"uint64", uint64(10), "10"},
		{"string", " 3.14 ", "3.14"},
		{"decimal", decimal.RequireFromString("2.5"), "2.5"},
		{"decimal pointer", ptr(decimal.RequireFromString("0.01")), "0.01"},
		{"big int", big.NewInt(99), "99"},
		{"pair", Pair{Num: 150, Denom: 100}, "1.5"},
		{"whole pair", Pair{Num: 200, Denom: 100}, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Numeric
			require.NoError(t, n.Set(tt.input))
			got, ok := n.Value()
			require.True(t, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestSetRejectsFloats(t *testing.T) {
	for _, f := range []any{0.0, 1.5, float32(2), math.MaxFloat64, -1e-300} {
		n := Must("1.23")
		err := n.Set(f)
		require.ErrorIs(t, err, ErrTypeMismatch, "input %v", f)
		assert.Contains(t, err.Error(), "floating-point")
		assert.Equal(t, int64(123), n.Num.Int64, "failed set must not change the value")
	}
}

func TestSetRejectsUnknownType(t *testing.T) {
	var n Numeric
	err := n.Set([]int{1})
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "[]int")
	assert.False(t, n.IsSet())
}

func TestSetRejectsBadString(t *testing.T) {
	var n Numeric
	err := n.Set("twelve")
	require.ErrorIs(t, err, ErrSyntax)
	assert.False(t, n.IsSet())
}

func TestSetNilClears(t *testing.T) {
	n := Must(5)
	require.True(t, n.IsSet())

	require.NoError(t, n.Set(nil))
	assert.False(t, n.IsSet())
	assert.False(t, n.Denom.Valid)

	_, ok := n.Value()
	assert.False(t, ok)
	assert.Equal(t, "<unset>", n.String())
	assert.True(t, n.Decimal().IsZero())
}

func TestSetBounds(t *testing.T) {
	var n Numeric
	require.NoError(t, n.Set(int64(MaxNumber-1)))
	assert.Equal(t, int64(MaxNumber-1), n.Num.Int64)

	require.NoError(t, n.Set(-int64(MaxNumber-1)))

	assert.ErrorIs(t, n.Set(int64(MaxNumber)), ErrOutOfRange)
	assert.ErrorIs(t, n.Set(-int64(MaxNumber)), ErrOutOfRange)
	assert.ErrorIs(t, n.Set("1e30"), ErrOutOfRange)

	// 18 decimals fit, 19 need a denominator of 10^19
	require.NoError(t, n.Set("0.000000000000000001"))
	assert.ErrorIs(t, n.Set("0.0000000000000000001"), ErrOutOfRange)
}

func TestSetExtremeExponentFailsFast(t *testing.T) {
	for _, input := range []string{"1e-5000000", "1e5000000", "-7E+900000000"} {
		t.Run(input, func(t *testing.T) {
			var n Numeric
			start := time.Now()
			err := n.Set(input)
			elapsed := time.Since(start)

			require.ErrorIs(t, err, ErrOutOfRange)
			assert.Less(t, elapsed, 100*time.Millisecond)
			assert.Less(t, len(err.Error()), 200)
			assert.False(t, n.IsSet())
		})
	}
}

func TestSetTinyValueWithBasisRoundsToZero(t *testing.T) {
	n := WithBasis(100)
	start := time.Now()
	require.NoError(t, n.Set("1e-5000000"))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, int64(0), n.Num.Int64)
	assert.Equal(t, int64(100), n.Denom.Int64)

	require.NoError(t, n.Set("0.004"))
	assert.Equal(t, int64(0), n.Num.Int64)
	require.NoError(t, n.Set("0.005"))
	assert.Equal(t, int64(1), n.Num.Int64)

	assert.ErrorIs(t, n.Set("1e5000000"), ErrOutOfRange)
}

func TestSetBasisBounds(t *testing.T) {
	n := WithBasis(MaxNumber - 1)
	require.NoError(t, n.Set(0))
	assert.Equal(t, int64(MaxNumber-1), n.Denom.Int64)

	n = WithBasis(MaxNumber)
	assert.ErrorIs(t, n.Set(0), ErrOutOfRange)
}

func TestBasisOverridesDenominator(t *testing.T) {
	n := WithBasis(100)

	require.NoError(t, n.Set("12.3"))
	assert.Equal(t, int64(1230), n.Num.Int64)
	assert.Equal(t, int64(100), n.Denom.Int64)

	require.NoError(t, n.Set(7))
	assert.Equal(t, int64(700), n.Num.Int64)

	// rounds half away from zero
	require.NoError(t, n.Set("1.235"))
	assert.Equal(t, int64(124), n.Num.Int64)
	require.NoError(t, n.Set("-1.235"))
	assert.Equal(t, int64(-124), n.Num.Int64)
}

func TestPairWithoutTerminatingExpansion(t *testing.T) {
	var n Numeric
	assert.ErrorIs(t, n.Set(Pair{Num: 1, Denom: 3}), ErrOutOfRange)

	n = WithBasis(100)
	require.NoError(t, n.Set(Pair{Num: 1, Denom: 3}))
	assert.Equal(t, int64(33), n.Num.Int64)
	assert.Equal(t, int64(100), n.Denom.Int64)
}

func TestPairZeroDenominator(t *testing.T) {
	var n Numeric
	assert.ErrorIs(t, n.Set(Pair{Num: 1, Denom: 0}), ErrOutOfRange)
}

func TestValueNonDecimalDenominator(t *testing.T) {
	n := WithBasis(3)
	require.NoError(t, n.Set(1))
	assert.Equal(t, int64(3), n.Num.Int64)

	got, ok := n.Value()
	require.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(1)))

	n.Num.Int64 = 1
	r, ok := n.Rat()
	require.True(t, ok)
	assert.Equal(t, "1/3", r.String())

	got, _ = n.Value()
	assert.Equal(t, "0.3333333333333333333333333333", got.String())
}

func TestQueryExpr(t *testing.T) {
	assert.Equal(t, "(CAST(value_num AS REAL) / value_denom)", QueryExpr("value_num", "value_denom"))
}

func ptr[T any](v T) *T { return &v }
