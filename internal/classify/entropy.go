package classify

import (
	"math"

	"github.com/secretgate/secretgate/internal/types"
)

// checkEntropyPlaceholder is the lowest-priority rule: weak structural hints
// that a value is a placeholder rather than a real credential. It is only
// consulted when nothing stronger fired.
func checkEntropyPlaceholder(match string) candidate {
	if len(match) < 8 {
		return candidate{types.CategoryUnknown, 0, nil}
	}

	if hasAscendingRun(match, 4) {
		return candidate{types.CategoryTest, 0.3, []string{"entropy:sequential"}}
	}
	if len(match) > 10 && distinctChars(match) <= 3 {
		return candidate{types.CategoryTest, 0.4, []string{"entropy:repeated_chars"}}
	}
	if shannonEntropy(match) < 2.0 {
		return candidate{types.CategoryTest, 0.3, []string{"entropy:low"}}
	}

	return candidate{types.CategoryUnknown, 0, nil}
}

// hasAscendingRun reports whether the string contains n consecutive
// single-step character increments (abcde, 12345).
func hasAscendingRun(s string, n int) bool {
	run := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i+1] == s[i]+1 {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// shannonEntropy is the per-character entropy of s in bits.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := map[byte]int{}
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	n := float64(len(s))
	e := 0.0
	for _, c := range counts {
		p := float64(c) / n
		e -= p * math.Log2(p)
	}
	return e
}
