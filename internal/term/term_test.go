package term

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(d, n int) *Term { return Repdigit(d, n) }

func TestRepdigit(t *testing.T) {
	for d := 1; d <= 9; d++ {
		for n := 1; n <= 12; n++ {
			x := Repdigit(d, n)
			want, _ := new(big.Int).SetString(strings.Repeat(string(rune('0'+d)), n), 10)
			assert.Equal(t, n, x.Cost(), "digit %d x %d", d, n)
			assert.Zero(t, want.Cmp(x.Value()), "digit %d x %d", d, n)
			assert.Equal(t, KindLiteral, x.Kind())
		}
	}
	assert.Equal(t, "777", Repdigit(7, 3).Text())
	assert.Panics(t, func() { Repdigit(3, 0) })
	assert.Panics(t, func() { Repdigit(10, 1) })
}

func TestBinary(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		l, r *Term
		want int64
		text string
	}{
		{"add", OpAdd, lit(3, 1), lit(3, 1), 6, "(3+3)"},
		{"sub", OpSub, lit(3, 1), lit(3, 2), -30, "(3-33)"},
		{"mul", OpMul, lit(7, 2), lit(7, 1), 539, "(77*7)"},
		{"div", OpDiv, lit(9, 2), lit(9, 1), 11, "(99/9)"},
		{"pow", OpPow, lit(2, 1), lit(2, 2), 4194304, "(2^22)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, ok := Binary(tt.op, tt.l, tt.r)
			require.True(t, ok)
			assert.Equal(t, tt.want, x.Value().Int64())
			assert.Equal(t, tt.l.Cost()+tt.r.Cost(), x.Cost())
			assert.Equal(t, tt.text, x.Text())
			assert.Same(t, tt.l, x.Left())
			assert.Same(t, tt.r, x.Right())
		})
	}
}

func TestBinaryRejectsInexactDivision(t *testing.T) {
	_, ok := Binary(OpDiv, lit(7, 1), lit(7, 2))
	assert.False(t, ok)

	zero, ok := Binary(OpSub, lit(5, 1), lit(5, 1))
	require.True(t, ok)
	_, ok = Binary(OpDiv, lit(5, 1), zero)
	assert.False(t, ok, "division by zero")

	q, ok := Binary(OpDiv, zero, lit(5, 1))
	require.True(t, ok)
	assert.Zero(t, q.Value().Sign())
}

func TestDivisionIsExact(t *testing.T) {
	l := lit(8, 3)
	for n := 1; n <= 3; n++ {
		r := lit(8, n)
		x, ok := Binary(OpDiv, l, r)
		if !ok {
			continue
		}
		back := new(big.Int).Mul(r.Value(), x.Value())
		assert.Zero(t, back.Cmp(l.Value()))
	}
}

func TestPowCap(t *testing.T) {
	nine := lit(9, 1)
	x, ok := Binary(OpPow, lit(9, 2), nine)
	require.True(t, ok)
	assert.Equal(t, "913517247483640899", x.Value().String())

	// 99^99 has 198 digits.
	_, ok = Binary(OpPow, lit(9, 2), lit(9, 2))
	assert.False(t, ok)

	// 10^99 has exactly 100 digits, 10^100 has 101.
	assert.True(t, PowFits(big.NewInt(10), big.NewInt(99)))
	assert.False(t, PowFits(big.NewInt(10), big.NewInt(100)))

	huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(400), nil)
	assert.False(t, PowFits(huge, big.NewInt(2)), "base beyond float64 range")
	assert.False(t, PowFits(big.NewInt(2), huge), "exponent beyond int64")
	assert.True(t, PowFits(big.NewInt(1), huge))
	assert.False(t, PowFits(big.NewInt(2), big.NewInt(-1)))
}

func TestFactorial(t *testing.T) {
	x, ok := Factorial(lit(5, 1))
	require.True(t, ok)
	assert.Equal(t, int64(120), x.Value().Int64())
	assert.Equal(t, 1, x.Cost())
	assert.Equal(t, "5!", x.Text())
	assert.Equal(t, KindUnary, x.Kind())

	y, ok := Factorial(x)
	assert.False(t, ok, "120 exceeds MaxFactorial")
	assert.Nil(t, y)

	z, ok := Factorial(lit(3, 1))
	require.True(t, ok)
	zz, ok := Factorial(z)
	require.True(t, ok)
	assert.Equal(t, "(3!)!", zz.Text())
	assert.Equal(t, int64(720), zz.Value().Int64())

	_, ok = Factorial(lit(2, 1))
	assert.False(t, ok)
	_, ok = Factorial(lit(1, 1))
	assert.False(t, ok)
}

func TestFactorialIndex(t *testing.T) {
	assert.Equal(t, 69, MaxFactorial)

	f := new(big.Int).MulRange(1, 69)
	n, ok := InverseFactorial(f)
	require.True(t, ok)
	assert.Equal(t, 69, n)

	n, ok = InverseFactorial(big.NewInt(720))
	require.True(t, ok)
	assert.Equal(t, 6, n)

	_, ok = InverseFactorial(big.NewInt(2))
	assert.False(t, ok)
	_, ok = InverseFactorial(big.NewInt(721))
	assert.False(t, ok)
	_, ok = InverseFactorial(new(big.Int).MulRange(1, 70))
	assert.False(t, ok)
}

func TestLess(t *testing.T) {
	a, _ := Binary(OpAdd, lit(3, 1), lit(3, 1))
	b, _ := Binary(OpMul, lit(3, 1), lit(3, 1))
	c := lit(3, 3)

	assert.True(t, Less(b, a), "same cost and length, lexicographic")
	assert.False(t, Less(a, b))
	assert.True(t, Less(a, c), "cheaper first")
	assert.False(t, Less(a, a))

	f, _ := Factorial(lit(3, 1))
	assert.True(t, Less(f, a))
}
