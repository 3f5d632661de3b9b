package search

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"digits/internal/term"
)

func find(t *testing.T, target int64, digit int, ext bool) *Result {
	t.Helper()
	res, err := FindShortest(context.Background(), big.NewInt(target), digit, Options{Extended: ext, Workers: 4})
	require.NoError(t, err)
	require.NotNil(t, res.Term)
	assert.Equal(t, target, res.Term.Value().Int64(), res.Term.Text())
	assert.Equal(t, res.Term.Cost(), res.Cost)
	return res
}

func TestFindShortestSumOfTwo(t *testing.T) {
	res := find(t, 6, 3, false)
	assert.Equal(t, 2, res.Cost)
	assert.Equal(t, "(3+3)", res.Term.Text())
	assert.True(t, res.Optimal)
}

func TestFindShortestRepunits(t *testing.T) {
	res := find(t, 100, 1, false)
	assert.Equal(t, 5, res.Cost)
	assert.Equal(t, "(111-11)", res.Term.Text())
	assert.LessOrEqual(t, res.Budget, res.Cost-2)
}

func TestFindShortestZeroTerminatesImmediately(t *testing.T) {
	for d := 1; d <= 9; d++ {
		res := find(t, 0, d, false)
		assert.Equal(t, 2, res.Cost)
		assert.Equal(t, 0, res.Budget)
		assert.Len(t, res.Levels, 1)
		assert.Equal(t, term.Repdigit(d, 1).Text(), res.Term.Left().Text())
	}
}

func TestFindShortestLiteral(t *testing.T) {
	res := find(t, 4444, 4, false)
	assert.Equal(t, "4444", res.Term.Text())
	assert.Equal(t, 4, res.Cost)
}

func TestFindShortestExtendedNeverWorse(t *testing.T) {
	cases := []struct {
		target int64
		digit  int
	}{
		{3, 9},
		{6, 3},
		{24, 4},
		{7, 2},
		{1000, 5},
	}
	for _, c := range cases {
		plain := find(t, c.target, c.digit, false)
		ext := find(t, c.target, c.digit, true)
		assert.LessOrEqual(t, ext.Cost, plain.Cost, "target %d digit %d: %s vs %s",
			c.target, c.digit, ext.Term, plain.Term)
	}
}

func TestFindShortestExtendedFactorial(t *testing.T) {
	res := find(t, 24, 4, true)
	assert.Equal(t, "4!", res.Term.Text())
	assert.Equal(t, 1, res.Cost)

	res = find(t, 720, 3, true)
	assert.Equal(t, "(3!)!", res.Term.Text())
}

func TestFindShortestRoundTrip(t *testing.T) {
	b := build(t, 2, 4, Options{Workers: 2})
	for _, x := range b.Level(4).Terms()[:8] {
		res, err := FindShortest(context.Background(), x.Value(), 2, Options{Workers: 2})
		require.NoError(t, err)
		assert.LessOrEqual(t, res.Cost, x.Cost(), x.Text())
		assert.Zero(t, res.Term.Value().Cmp(x.Value()))
	}
}

func TestFindShortestBudgetExhausted(t *testing.T) {
	_, err := FindShortest(context.Background(), big.NewInt(1000003), 7, Options{MaxBudget: 1})
	assert.ErrorIs(t, err, ErrBudgetExhausted)
}

func TestFindShortestNotProvenAtCeiling(t *testing.T) {
	// 100 needs five ones; with the ceiling at 2 the bound is never reached.
	res, err := FindShortest(context.Background(), big.NewInt(100), 1, Options{MaxBudget: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Cost)
	assert.False(t, res.Optimal)
	assert.Equal(t, 2, res.Budget)
}

func TestFindShortestInvalidDigit(t *testing.T) {
	_, err := FindShortest(context.Background(), big.NewInt(10), 0, Options{})
	assert.ErrorIs(t, err, ErrInvalidDigit)
}

func TestFindShortestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindShortest(ctx, big.NewInt(10), 3, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindShortestLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := FindShortest(context.Background(), big.NewInt(6), 3, Options{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("generated level").Len())
	assert.Equal(t, 1, logs.FilterMessage("found candidate, looking if shorter is possible").Len())
	finished := logs.FilterMessage("search finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, "(3+3)", finished[0].ContextMap()["term"])
	assert.Equal(t, zap.DebugLevel, finished[0].Level)
}

func TestFindShortestQuietAtInfo(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	_, err := FindShortest(context.Background(), big.NewInt(1999), 7, Options{Logger: zap.New(core)})
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestFindBoth(t *testing.T) {
	plain, ext, err := FindBoth(context.Background(), big.NewInt(6), 3, Options{Workers: 2})
	require.NoError(t, err)
	require.NoError(t, plain.Err)
	require.NoError(t, ext.Err)
	assert.False(t, plain.Result.Extended)
	assert.True(t, ext.Result.Extended)
	assert.Equal(t, 2, plain.Result.Cost)
	assert.Equal(t, 1, ext.Result.Cost)
	assert.Equal(t, "3!", ext.Result.Term.Text())

	_, _, err = FindBoth(context.Background(), big.NewInt(6), 10, Options{})
	assert.ErrorIs(t, err, ErrInvalidDigit)
}

func TestFindBothKeepsResultWhenOtherModeExhausted(t *testing.T) {
	// 4194304 = 2^22 needs three twos with powers; plain needs far more.
	plain, ext, err := FindBoth(context.Background(), big.NewInt(4194304), 2, Options{Workers: 2, MaxBudget: 3})
	require.NoError(t, err)

	assert.ErrorIs(t, plain.Err, ErrBudgetExhausted)
	assert.Nil(t, plain.Result)

	require.NoError(t, ext.Err)
	require.NotNil(t, ext.Result)
	assert.Equal(t, "(2^22)", ext.Result.Term.Text())
	assert.Equal(t, 3, ext.Result.Cost)
	assert.True(t, ext.Result.Optimal)
}

func TestFindBothBothExhausted(t *testing.T) {
	plain, ext, err := FindBoth(context.Background(), big.NewInt(1000003), 7, Options{MaxBudget: 1})
	assert.ErrorIs(t, err, ErrBudgetExhausted)
	assert.ErrorIs(t, plain.Err, ErrBudgetExhausted)
	assert.ErrorIs(t, ext.Err, ErrBudgetExhausted)
}

func TestFindBothCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := FindBoth(ctx, big.NewInt(10), 3, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
