// Package classify turns a finding plus its validation results into a
// category with a confidence and an ordered list of rule tags.
//
// Four rules run in fixed priority order. Evidence-based rules (offline
// expiry, validator signals) outrank syntactic heuristics (test markers,
// entropy): a confirmed-live credential sitting under tests/ is still an
// actual leak.
package classify

import (
	"strings"

	"github.com/secretgate/secretgate/internal/types"
)

// shortCircuit is the confidence above which a rule decides immediately.
const shortCircuit = 0.8

type candidate struct {
	category   types.Category
	confidence float64
	reasons    []string
}

// Classify applies the rule chain. A rule with confidence > 0.8 wins
// outright; otherwise the highest-confidence candidate wins, with ties kept
// by the earliest-checked rule. When nothing fires the finding is unknown at
// 0.1.
func Classify(f types.Finding, results []types.ValidationResult) types.Classification {
	var all []string
	var candidates []candidate

	rules := []func() candidate{
		func() candidate { return checkOfflineExpiry(f.Match, f.Rule) },
		func() candidate { return checkValidatorSignals(results) },
		func() candidate { return checkTestMarkers(f.Match, f.Path) },
		func() candidate { return checkEntropyPlaceholder(f.Match) },
	}
	for _, rule := range rules {
		c := rule()
		all = append(all, c.reasons...)
		if c.confidence > shortCircuit {
			return types.Classification{Category: c.category, Confidence: c.confidence, Reasons: c.reasons}
		}
		if c.confidence > 0 {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.confidence > best.confidence {
				best = c
			}
		}
		return types.Classification{Category: best.category, Confidence: best.confidence, Reasons: best.reasons}
	}

	if len(all) == 0 {
		all = []string{"no_classification_rules_matched"}
	}
	return types.Classification{Category: types.CategoryUnknown, Confidence: 0.1, Reasons: all}
}

// expiryWords flag a validator result as describing a dead credential.
var expiryWords = []string{"expired", "invalid", "revoked"}

// checkValidatorSignals inspects validation results, preferring the first
// decisive state. Indeterminate results (including network-skipped slots)
// contribute nothing.
func checkValidatorSignals(results []types.ValidationResult) candidate {
	for _, r := range results {
		combined := strings.ToLower(r.Evidence + " " + r.Reason)
		switch r.State {
		case types.StateValid:
			for _, w := range expiryWords {
				if strings.Contains(combined, w) {
					return candidate{types.CategoryExpired, 0.9, []string{"validator:" + r.ValidatorName + ":expired"}}
				}
			}
			return candidate{types.CategoryActual, 0.9, []string{"validator:" + r.ValidatorName + ":confirmed"}}
		case types.StateInvalid:
			if strings.Contains(combined, "expired") || strings.Contains(combined, "expiry") {
				return candidate{types.CategoryExpired, 0.85, []string{"validator:" + r.ValidatorName + ":expired"}}
			}
		}
	}
	return candidate{types.CategoryUnknown, 0, nil}
}
