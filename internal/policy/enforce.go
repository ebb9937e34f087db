package policy

import (
	"fmt"
	"time"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/secretgate/secretgate/internal/types"
)

// ViolationType enumerates the ways a gate can fail.
type ViolationType string

const (
	ViolationBudgetExceeded    ViolationType = "budget_exceeded"
	ViolationRiskScoreTooHigh  ViolationType = "risk_score_too_high"
	ViolationNetworkDisabled   ViolationType = "network_disabled"
	ViolationRateLimitExceeded ViolationType = "rate_limit_exceeded"
)

// Violation is one reason the gate failed.
type Violation struct {
	Type      ViolationType  `json:"type"`
	Message   string         `json:"message"`
	Severity  types.Severity `json:"severity"`
	FindingID string         `json:"finding_id,omitempty"`
	Path      string         `json:"path,omitempty"`
}

// AppliedWaiver pairs a suppressed finding with the waiver that covered it.
type AppliedWaiver struct {
	Finding string `json:"finding"`
	Waiver  Waiver `json:"waiver"`
}

// Summary counts what the gate saw and did.
type Summary struct {
	TotalFindings    int `json:"total_findings"`
	FilteredFindings int `json:"filtered_findings"`
	Violations       int `json:"violations"`
	WaiversApplied   int `json:"waivers_applied"`
}

// Result is the gate decision. Passed is true iff there are no violations;
// the consuming CLI maps passed=false to a non-zero exit.
type Result struct {
	Passed         bool            `json:"passed"`
	Violations     []Violation     `json:"violations"`
	WaiversApplied []AppliedWaiver `json:"waivers_applied"`
	Summary        Summary         `json:"summary"`
}

// timeNow is a test hook.
var timeNow = time.Now

// Active reports whether the waiver suppresses the given finding right now:
// exact rule match, glob path match, expiry strictly in the future.
func (w Waiver) Active(rule, path string, now time.Time) bool {
	if w.Rule != rule {
		return false
	}
	ok, err := doublestar.Match(w.Path, path)
	if err != nil || !ok {
		return false
	}
	exp, err := parseExpiry(w.Expiry)
	if err != nil {
		return false
	}
	return now.Before(exp)
}

// Enforce evaluates budgets and waivers against enriched findings.
func Enforce(cfg Config, findings []types.EnrichedFinding) Result {
	now := timeNow()
	var violations []Violation
	var applied []AppliedWaiver

	// Any active waiver suppresses; no priority among multiple matches.
	var kept []types.EnrichedFinding
	for _, f := range findings {
		waived := false
		for _, w := range cfg.Waivers {
			if w.Active(f.Rule, f.Path, now) {
				applied = append(applied, AppliedWaiver{Finding: f.Rule + ":" + f.Path, Waiver: w})
				waived = true
				break
			}
		}
		if !waived {
			kept = append(kept, f)
		}
	}

	violations = append(violations, checkBudgets(cfg.Budgets, kept)...)
	violations = append(violations, checkRiskScores(cfg.Budgets, kept)...)

	return Result{
		Passed:         len(violations) == 0,
		Violations:     violations,
		WaiversApplied: applied,
		Summary: Summary{
			TotalFindings:    len(findings),
			FilteredFindings: len(kept),
			Violations:       len(violations),
			WaiversApplied:   len(applied),
		},
	}
}

func checkBudgets(b Budgets, findings []types.EnrichedFinding) []Violation {
	var out []Violation

	if b.NewFindings != nil && len(findings) > *b.NewFindings {
		out = append(out, Violation{
			Type:     ViolationBudgetExceeded,
			Message:  fmt.Sprintf("found %d findings, budget allows at most %d", len(findings), *b.NewFindings),
			Severity: types.SevHigh,
		})
	}

	counts := map[types.Category]int{}
	for _, f := range findings {
		counts[f.Category]++
	}
	categoryBudgets := []struct {
		name     string
		category types.Category
		limit    *int
	}{
		{"new_actual_findings", types.CategoryActual, b.NewActualFindings},
		{"new_expired_findings", types.CategoryExpired, b.NewExpiredFindings},
		{"new_test_findings", types.CategoryTest, b.NewTestFindings},
		{"new_unknown_findings", types.CategoryUnknown, b.NewUnknownFindings},
	}
	for _, cb := range categoryBudgets {
		if cb.limit == nil {
			continue // unset budget is unconstrained
		}
		if n := counts[cb.category]; n > *cb.limit {
			out = append(out, Violation{
				Type:     ViolationBudgetExceeded,
				Message:  fmt.Sprintf("found %d %s findings, %s allows at most %d", n, cb.category, cb.name, *cb.limit),
				Severity: types.SevHigh,
			})
		}
	}
	return out
}

// checkRiskScores flags each finding over the ceiling individually, not as
// an aggregate.
func checkRiskScores(b Budgets, findings []types.EnrichedFinding) []Violation {
	if b.MaxRiskScore == nil {
		return nil
	}
	var out []Violation
	for _, f := range findings {
		if f.RiskScore > *b.MaxRiskScore {
			out = append(out, Violation{
				Type:      ViolationRiskScoreTooHigh,
				Message:   fmt.Sprintf("finding has risk score %d, exceeds limit %d", f.RiskScore, *b.MaxRiskScore),
				Severity:  types.SevHigh,
				FindingID: f.Rule,
				Path:      f.Path,
			})
		}
	}
	return out
}
