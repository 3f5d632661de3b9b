package search

import (
	"math/big"

	"digits/internal/table"
	"digits/internal/term"
)

// Scan returns the cheapest term equal to target that is either recorded in
// agg or combines two recorded terms with one operator. Every recorded value
// j is tried as one operand; the other operand is looked up by inverting the
// operator. In extended mode powers (root and logarithm tests) and a final
// factorial are tried as well. Scan returns nil when nothing matches.
func Scan(target *big.Int, agg *table.Table, extended bool) *term.Term {
	var best *term.Term
	consider := func(x *term.Term, ok bool) {
		if ok && (best == nil || term.Less(x, best)) {
			best = x
		}
	}

	if x, ok := agg.Get(target); ok {
		consider(x, true)
	}

	useExt := extended && target.Cmp(bigOne) > 0
	agg.Range(func(j *term.Term) bool {
		jv := j.Value()

		if x, ok := agg.Get(new(big.Int).Sub(target, jv)); ok {
			consider(term.Binary(term.OpAdd, j, x))
		}
		if x, ok := agg.Get(new(big.Int).Add(target, jv)); ok {
			consider(term.Binary(term.OpSub, x, j))
		}
		if x, ok := agg.Get(new(big.Int).Sub(jv, target)); ok {
			consider(term.Binary(term.OpSub, j, x))
		}

		if jv.Sign() != 0 {
			if x, ok := agg.Get(new(big.Int).Mul(target, jv)); ok {
				consider(term.Binary(term.OpDiv, x, j))
			}
			if q, ok := term.ExactQuo(jv, target); ok {
				if x, ok := agg.Get(q); ok {
					consider(term.Binary(term.OpDiv, j, x))
				}
			}
			if q, ok := term.ExactQuo(target, jv); ok {
				if x, ok := agg.Get(q); ok {
					consider(term.Binary(term.OpMul, x, j))
				}
			}
		}

		if useExt && jv.Cmp(bigOne) > 0 {
			if r, ok := exactRoot(target, jv); ok {
				if x, ok := agg.Get(r); ok {
					consider(term.Binary(term.OpPow, x, j))
				}
			}
			if e, ok := exactLog(target, jv); ok {
				if x, ok := agg.Get(e); ok {
					consider(term.Binary(term.OpPow, j, x))
				}
			}
		}
		return true
	})

	if extended {
		if n, ok := term.InverseFactorial(target); ok {
			if x, ok := agg.Get(big.NewInt(int64(n))); ok {
				consider(term.Factorial(x))
			}
		}
	}
	return best
}

var bigOne = big.NewInt(1)

// exactRoot returns r > 1 with r^k == n, for n > 1 and k > 1.
func exactRoot(n, k *big.Int) (*big.Int, bool) {
	bits := n.BitLen()
	if !k.IsInt64() || k.Int64() >= int64(bits) {
		// r >= 2 would need r^k >= 2^k > n.
		return nil, false
	}
	r := iroot(n, k.Int64())
	if r.Cmp(bigOne) <= 0 {
		return nil, false
	}
	if new(big.Int).Exp(r, k, nil).Cmp(n) != 0 {
		return nil, false
	}
	return r, true
}

// iroot returns floor(n^(1/k)) for n >= 1, k >= 1 by bisection.
func iroot(n *big.Int, k int64) *big.Int {
	e := big.NewInt(k)
	lo := big.NewInt(1)
	hi := new(big.Int).Lsh(bigOne, uint(int64(n.BitLen())/k+1))
	mid := new(big.Int)
	p := new(big.Int)
	for lo.Cmp(hi) < 0 {
		mid.Add(lo, hi)
		mid.Add(mid, bigOne)
		mid.Rsh(mid, 1)
		if p.Exp(mid, e, nil).Cmp(n) <= 0 {
			lo.Set(mid)
		} else {
			hi.Sub(mid, bigOne)
		}
	}
	return lo
}

// exactLog returns e >= 1 with base^e == n, for n > 1 and base > 1.
func exactLog(n, base *big.Int) (*big.Int, bool) {
	p := new(big.Int).Set(base)
	e := int64(1)
	for p.Cmp(n) < 0 {
		p.Mul(p, base)
		e++
	}
	if p.Cmp(n) != 0 {
		return nil, false
	}
	return big.NewInt(e), true
}
