package search

import (
	"context"
	"fmt"
	"math/big"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"digits/internal/table"
	"digits/internal/term"
)

var bigTwo = big.NewInt(2)

// Builder grows the level tables and the aggregated table for one digit.
// Budgets must be generated in order starting at 0.
type Builder struct {
	digit    int
	extended bool
	workers  int
	logger   *zap.Logger

	levels map[int]*table.Table
	agg    *table.Table
	next   int
}

// NewBuilder returns a Builder for digit, which must be in 1..9.
func NewBuilder(digit int, opts Options) (*Builder, error) {
	if digit < 1 || digit > 9 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDigit, digit)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		digit:    digit,
		extended: opts.Extended,
		workers:  workers,
		logger:   logger,
		levels:   make(map[int]*table.Table),
		agg:      table.New(),
	}, nil
}

// Level returns the table of terms using exactly k digits.
func (b *Builder) Level(k int) *table.Table { return b.level(k) }

// Aggregated returns the best known term per value over all built budgets.
func (b *Builder) Aggregated() *table.Table { return b.agg }

// Next is the budget the next call to Generate must build.
func (b *Builder) Next() int { return b.next }

func (b *Builder) level(k int) *table.Table {
	t, ok := b.levels[k]
	if !ok {
		t = table.New()
		b.levels[k] = t
	}
	return t
}

// Generate builds every value reachable with exactly k digits from the
// already complete levels below k, merges the level into the aggregated
// table and seeds level k+1 with the k+1 digit literal.
func (b *Builder) Generate(ctx context.Context, k int) (LevelStats, error) {
	if k != b.next {
		return LevelStats{}, fmt.Errorf("generate budget %d: next budget is %d", k, b.next)
	}
	start := time.Now()

	cur := b.level(k)
	if k >= 1 {
		b.add(term.Repdigit(b.digit, k), cur)
	}
	if err := b.combine(ctx, k, cur); err != nil {
		return LevelStats{}, fmt.Errorf("generate budget %d: %w", k, err)
	}
	b.agg.Merge(cur)

	// The scanner at budget k relies on the k+1 literal being present.
	lit := term.Repdigit(b.digit, k+1)
	b.add(lit, b.level(k+1))
	b.add(lit, b.agg)
	b.next = k + 1

	st := LevelStats{
		Budget:         k,
		LevelSize:      cur.Len(),
		AggregatedSize: b.agg.Len(),
		Duration:       time.Since(start),
	}
	b.logger.Debug("generated level",
		zap.Int("digit", b.digit),
		zap.Bool("extended", b.extended),
		zap.Int("budget", k),
		zap.Int("level_size", st.LevelSize),
		zap.Int("aggregated_size", st.AggregatedSize),
		zap.Duration("duration", st.Duration))
	return st, nil
}

// add inserts x and, in extended mode, its factorial chain.
func (b *Builder) add(x *term.Term, tbl *table.Table) {
	if b.extended {
		if f, ok := term.Factorial(x); ok {
			b.add(f, tbl)
		}
	}
	tbl.Insert(x)
}

type shard struct {
	lhs, rhs []*term.Term
	from, to int
	same     bool
}

// combine fans the operand pairs of every split k = a + (k-a) out to the
// workers. Each shard fills a private table; the shards are merged into cur
// afterwards, which gives the same result regardless of scheduling.
func (b *Builder) combine(ctx context.Context, k int, cur *table.Table) error {
	var shards []shard
	for a := 1; a <= k/2; a++ {
		lhs := b.level(a).Terms()
		rhs := lhs
		if a != k-a {
			rhs = b.level(k - a).Terms()
		}
		if len(lhs) == 0 || len(rhs) == 0 {
			continue
		}
		step := len(lhs) / (b.workers * 4)
		if step < 1 {
			step = 1
		}
		for from := 0; from < len(lhs); from += step {
			to := min(from+step, len(lhs))
			shards = append(shards, shard{lhs: lhs, rhs: rhs, from: from, to: to, same: a == k-a})
		}
	}
	if len(shards) == 0 {
		return nil
	}

	results := make([]*table.Table, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, s := range shards {
		i, s := i, s
		g.Go(func() error {
			out := table.New()
			for li := s.from; li < s.to; li++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				x := s.lhs[li]
				ri := 0
				if s.same {
					ri = li
				}
				for ; ri < len(s.rhs); ri++ {
					b.combinePair(x, s.rhs[ri], out)
				}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, r := range results {
		cur.Merge(r)
	}
	return nil
}

func (b *Builder) combinePair(x, y *term.Term, out *table.Table) {
	if x.Value().Cmp(y.Value()) < 0 {
		x, y = y, x
	}
	b.try(term.OpAdd, x, y, out)
	b.try(term.OpSub, x, y, out)
	b.try(term.OpSub, y, x, out)
	b.try(term.OpMul, x, y, out)
	b.try(term.OpDiv, x, y, out)
	b.try(term.OpDiv, y, x, out)
	if b.extended && y.Value().Cmp(bigTwo) >= 0 {
		b.try(term.OpPow, x, y, out)
		b.try(term.OpPow, y, x, out)
	}
}

func (b *Builder) try(op term.Op, l, r *term.Term, out *table.Table) {
	if t, ok := term.Binary(op, l, r); ok {
		b.add(t, out)
	}
}
