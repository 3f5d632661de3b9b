// Package search finds the cheapest expression for a target integer that
// uses only one repeated digit.
//
// The search is an iterative deepening over the digit budget k. For each k
// the Builder enumerates every value reachable with exactly k digits and
// merges it into an aggregated table; Scan then looks for the target as a
// recorded value or as one operator applied to two recorded values. Once a
// candidate of cost c is known, a cheaper term would have to be a split whose
// halves are both built by budget c-2, so the loop stops after that budget.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"digits/internal/term"
)

// DefaultMaxBudget bounds the digit budget when Options.MaxBudget is unset.
const DefaultMaxBudget = 16

var (
	// ErrInvalidDigit is returned for digits outside 1..9.
	ErrInvalidDigit = errors.New("digit must be between 1 and 9")
	// ErrBudgetExhausted is returned when no representation is found within
	// the maximum budget.
	ErrBudgetExhausted = errors.New("no representation found within budget limit")
)

// Options configures a search.
type Options struct {
	// Extended also allows factorial and exponentiation.
	Extended bool
	// Workers shards level generation; values < 1 mean runtime.NumCPU().
	Workers int
	// MaxBudget is the largest digit budget that will be generated.
	MaxBudget int
	Logger    *zap.Logger
}

// Result is the outcome of one search.
type Result struct {
	Target   *big.Int
	Digit    int
	Extended bool

	Term *term.Term
	Cost int

	// Budget is the last digit budget generated.
	Budget int
	// Optimal is false when MaxBudget stopped the search before the
	// termination bound proved Term cheapest.
	Optimal bool
	Levels  []LevelStats
	Elapsed time.Duration
}

// FindShortest returns the cheapest term equal to target built from digit.
func FindShortest(ctx context.Context, target *big.Int, digit int, opts Options) (*Result, error) {
	b, err := NewBuilder(digit, opts)
	if err != nil {
		return nil, err
	}
	maxBudget := opts.MaxBudget
	if maxBudget <= 0 {
		maxBudget = DefaultMaxBudget
	}
	logger := b.logger

	start := time.Now()
	res := &Result{
		Target:   new(big.Int).Set(target),
		Digit:    digit,
		Extended: opts.Extended,
	}

	var best *term.Term
	bound := math.MaxInt
	k := 0
	for ; k <= bound-2; k++ {
		if k > maxBudget {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := b.Generate(ctx, k)
		if err != nil {
			return nil, err
		}
		res.Levels = append(res.Levels, st)
		res.Budget = k

		x := Scan(target, b.Aggregated(), opts.Extended)
		if x != nil && (best == nil || term.Less(x, best)) {
			best = x
			bound = x.Cost()
			logger.Debug("found candidate, looking if shorter is possible",
				zap.String("term", x.Text()),
				zap.Int("cost", x.Cost()),
				zap.Int("budget", k))
		}
	}

	res.Elapsed = time.Since(start)
	if best == nil {
		return nil, fmt.Errorf("%w: target %s, digit %d, max budget %d",
			ErrBudgetExhausted, target, digit, maxBudget)
	}
	res.Term = best
	res.Cost = best.Cost()
	res.Optimal = k > bound-2
	logger.Debug("search finished",
		zap.String("target", target.String()),
		zap.Int("digit", digit),
		zap.Bool("extended", opts.Extended),
		zap.String("term", best.Text()),
		zap.Int("cost", res.Cost),
		zap.Int("budget", res.Budget),
		zap.Bool("optimal", res.Optimal),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// Outcome is the result or the error of one mode of FindBoth.
type Outcome struct {
	Result *Result
	Err    error
}

// FindBoth runs the plain and the extended search concurrently. Each run
// owns its own tables and a failure of one run does not stop the other. The
// returned error is non-nil only when ctx is done or both runs failed.
func FindBoth(ctx context.Context, target *big.Int, digit int, opts Options) (plain, extended Outcome, err error) {
	var g errgroup.Group
	g.Go(func() error {
		o := opts
		o.Extended = false
		plain.Result, plain.Err = FindShortest(ctx, target, digit, o)
		return nil
	})
	g.Go(func() error {
		o := opts
		o.Extended = true
		extended.Result, extended.Err = FindShortest(ctx, target, digit, o)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return plain, extended, err
	}
	if plain.Err != nil && extended.Err != nil {
		if errors.Is(plain.Err, ErrInvalidDigit) {
			return plain, extended, plain.Err
		}
		return plain, extended, errors.Join(plain.Err, extended.Err)
	}
	return plain, extended, nil
}
