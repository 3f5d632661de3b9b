package term

import "math/big"

// MaxDigits caps the decimal length of powers and factorials.
const MaxDigits = 100

// MaxFactorial is the largest n whose factorial has at most MaxDigits digits.
var MaxFactorial int

// factorials maps the decimal form of n! back to n for 1 <= n <= MaxFactorial.
var factorials = map[string]int{}

func init() {
	f := big.NewInt(1)
	for n := int64(1); ; n++ {
		f.Mul(f, big.NewInt(n))
		s := f.String()
		if len(s) > MaxDigits {
			break
		}
		MaxFactorial = int(n)
		if _, ok := factorials[s]; !ok {
			factorials[s] = int(n)
		}
	}
}

// InverseFactorial returns n when v == n! for some 3 <= n <= MaxFactorial.
func InverseFactorial(v *big.Int) (int, bool) {
	if v.Sign() <= 0 {
		return 0, false
	}
	n, ok := factorials[v.String()]
	if !ok || n < 3 {
		return 0, false
	}
	return n, true
}
