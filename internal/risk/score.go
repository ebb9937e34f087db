// Package risk computes a deterministic 0-100 score for a finding from a
// base table and five independent multiplicative modifiers. Every modifier is
// derived from the original inputs, never from an intermediate score, so the
// factors can be reported individually and multiplied in any order.
package risk

import (
	"math"
	"strings"

	"github.com/secretgate/secretgate/internal/types"
)

// defaultBaseScore applies when the rule has no entry in the base table.
const defaultBaseScore = 50

// baseScores maps detector rule IDs to base risk.
var baseScores = map[string]int{
	"github_pat":    70,
	"aws_keypair":   80,
	"slack_webhook": 40,
	"private_key":   90,
	"api_key":       60,
	"password":      50,
	"database_url":  75,
	"jwt_token":     65,
}

// pathKeyword pairs a path substring with its risk multiplier. Ordered:
// the first match wins.
type pathKeyword struct {
	keyword    string
	multiplier float64
}

var pathKeywords = []pathKeyword{
	// Production-ish paths raise risk.
	{"production", 1.2},
	{"prod", 1.2},
	{"deploy", 1.2},
	{"release", 1.2},
	{"config", 1.1},
	{"env", 1.1},
	{".env", 1.2},
	// Test-ish paths lower it.
	{"tests", 0.7},
	{"test", 0.7},
	{"spec", 0.7},
	{"mock", 0.6},
	{"fixture", 0.6},
	{"example", 0.5},
	{"sample", 0.5},
	{"demo", 0.5},
	{"readme", 0.3},
	{"docs", 0.3},
	{"doc", 0.3},
}

// Score computes the clamped, rounded risk score for a finding.
func Score(f types.Finding, category types.Category, results []types.ValidationResult, repo types.RepoContext) int {
	score := float64(BaseScore(f.Rule))
	score *= validationModifier(results)
	score *= pathModifier(f.Path)
	score *= exposureModifier(repo)
	score *= historyModifier(f.HistoryAgeDays)
	score *= categoryModifier(category)
	return clamp(score)
}

// Level buckets a score.
func Level(score int) types.RiskLevel {
	switch {
	case score >= 80:
		return types.RiskCritical
	case score >= 60:
		return types.RiskHigh
	case score >= 40:
		return types.RiskMedium
	case score >= 20:
		return types.RiskLow
	default:
		return types.RiskInfo
	}
}

// Summary breaks the score down into its contributing factors.
type Summary struct {
	Score              int             `json:"score"`
	Level              types.RiskLevel `json:"level"`
	BaseScore          int             `json:"base_score"`
	ValidationModifier float64         `json:"validation_modifier"`
	PathModifier       float64         `json:"path_modifier"`
	ExposureModifier   float64         `json:"exposure_modifier"`
	HistoryModifier    float64         `json:"history_modifier"`
	CategoryModifier   float64         `json:"category_modifier"`
}

// Summarize returns the score plus every factor that produced it.
func Summarize(f types.Finding, category types.Category, results []types.ValidationResult, repo types.RepoContext) Summary {
	score := Score(f, category, results, repo)
	return Summary{
		Score:              score,
		Level:              Level(score),
		BaseScore:          BaseScore(f.Rule),
		ValidationModifier: validationModifier(results),
		PathModifier:       pathModifier(f.Path),
		ExposureModifier:   exposureModifier(repo),
		HistoryModifier:    historyModifier(f.HistoryAgeDays),
		CategoryModifier:   categoryModifier(category),
	}
}

// BaseScore looks up the base risk for a rule ID.
func BaseScore(rule string) int {
	if s, ok := baseScores[rule]; ok {
		return s
	}
	return defaultBaseScore
}

func validationModifier(results []types.ValidationResult) float64 {
	if len(results) == 0 {
		return 1.0
	}
	hasValid, hasInvalid := false, false
	for _, r := range results {
		switch r.State {
		case types.StateValid:
			hasValid = true
		case types.StateInvalid:
			hasInvalid = true
		}
	}
	switch {
	case hasValid:
		return 1.3
	case hasInvalid:
		return 0.4
	default:
		return 0.9 // results exist but all indeterminate
	}
}

func pathModifier(path string) float64 {
	if path == "" {
		return 1.0
	}
	lower := strings.ToLower(path)
	for _, pk := range pathKeywords {
		if strings.Contains(lower, pk.keyword) {
			return pk.multiplier
		}
	}
	return 1.0
}

func exposureModifier(repo types.RepoContext) float64 {
	switch {
	case repo.IsPublic:
		return 1.2
	case repo.HasExternalContributors:
		return 1.1
	default:
		return 1.0
	}
}

func historyModifier(ageDays int) float64 {
	switch {
	case ageDays > 365:
		return 1.2
	case ageDays > 90:
		return 1.1
	default:
		return 1.0
	}
}

func categoryModifier(category types.Category) float64 {
	switch category {
	case types.CategoryActual:
		return 1.3
	case types.CategoryExpired:
		return 0.3
	case types.CategoryTest:
		return 0.2
	default:
		return 1.0
	}
}

func clamp(score float64) int {
	n := int(math.Round(score))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
