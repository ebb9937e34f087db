package risk

import (
	"testing"

	"github.com/secretgate/secretgate/internal/types"
)

func TestBaseScore(t *testing.T) {
	if got := BaseScore("github_pat"); got != 70 {
		t.Fatalf("github_pat base = %d", got)
	}
	if got := BaseScore("never_heard_of_it"); got != 50 {
		t.Fatalf("unknown rule base = %d, want default 50", got)
	}
}

func TestValidationModifier(t *testing.T) {
	f := types.Finding{Rule: "github_pat", Path: "src/utils.py"}
	base := Score(f, types.CategoryUnknown, nil, types.RepoContext{})

	valid := []types.ValidationResult{{State: types.StateValid}}
	invalid := []types.ValidationResult{{State: types.StateInvalid}}
	indet := []types.ValidationResult{{State: types.StateIndeterminate}}
	mixed := []types.ValidationResult{{State: types.StateInvalid}, {State: types.StateValid}}

	if got := Score(f, types.CategoryUnknown, valid, types.RepoContext{}); got <= base {
		t.Fatalf("valid result should raise score: %d <= %d", got, base)
	}
	if got := Score(f, types.CategoryUnknown, invalid, types.RepoContext{}); got >= base {
		t.Fatalf("invalid result should lower score: %d >= %d", got, base)
	}
	if got := Score(f, types.CategoryUnknown, indet, types.RepoContext{}); got >= base {
		t.Fatalf("indeterminate results should slightly lower score: %d >= %d", got, base)
	}
	// valid wins over invalid when both are present
	if got := Score(f, types.CategoryUnknown, mixed, types.RepoContext{}); got <= base {
		t.Fatalf("mixed valid+invalid should behave as valid: %d <= %d", got, base)
	}
}

func TestPathModifierOrdering(t *testing.T) {
	f := func(p string) int {
		return Score(types.Finding{Rule: "github_pat", Path: p}, types.CategoryUnknown, nil, types.RepoContext{})
	}
	prod := f("production/config.py")
	normal := f("src/utils.py")
	test := f("tests/test_auth.py")
	if !(prod > normal && normal > test) {
		t.Fatalf("expected prod > normal > test, got %d %d %d", prod, normal, test)
	}
	// "production" is the first keyword hit even though "config" also appears.
	if prod != 84 { // 70 * 1.2
		t.Fatalf("production path score = %d, want 84", prod)
	}
}

func TestExposureAndHistoryModifiers(t *testing.T) {
	f := types.Finding{Rule: "github_pat", Path: "src/utils.py"}
	base := Score(f, types.CategoryUnknown, nil, types.RepoContext{})

	if got := Score(f, types.CategoryUnknown, nil, types.RepoContext{IsPublic: true}); got <= base {
		t.Fatalf("public repo should raise score")
	}
	if got := Score(f, types.CategoryUnknown, nil, types.RepoContext{HasExternalContributors: true}); got <= base {
		t.Fatalf("external contributors should raise score")
	}

	old := f
	old.HistoryAgeDays = 400
	if got := Score(old, types.CategoryUnknown, nil, types.RepoContext{}); got <= base {
		t.Fatalf("year-old finding should score higher")
	}
	mid := f
	mid.HistoryAgeDays = 120
	if got := Score(mid, types.CategoryUnknown, nil, types.RepoContext{}); got <= base {
		t.Fatalf("quarter-old finding should score higher")
	}
}

func TestCategoryModifier(t *testing.T) {
	f := types.Finding{Rule: "github_pat", Path: "src/utils.py"}
	actual := Score(f, types.CategoryActual, nil, types.RepoContext{})
	unknown := Score(f, types.CategoryUnknown, nil, types.RepoContext{})
	expired := Score(f, types.CategoryExpired, nil, types.RepoContext{})
	test := Score(f, types.CategoryTest, nil, types.RepoContext{})
	if !(actual > unknown && unknown > expired && expired > test) {
		t.Fatalf("category ordering broken: %d %d %d %d", actual, unknown, expired, test)
	}
}

func TestScoreBounds(t *testing.T) {
	// Stack every positive modifier on the highest base.
	high := Score(
		types.Finding{Rule: "private_key", Path: "production/deploy.key", HistoryAgeDays: 1000},
		types.CategoryActual,
		[]types.ValidationResult{{State: types.StateValid}},
		types.RepoContext{IsPublic: true},
	)
	if high != 100 {
		t.Fatalf("maximal score should clamp at 100, got %d", high)
	}
	// Stack every negative modifier on a low base.
	low := Score(
		types.Finding{Rule: "slack_webhook", Path: "docs/readme.md"},
		types.CategoryTest,
		[]types.ValidationResult{{State: types.StateInvalid}},
		types.RepoContext{},
	)
	if low < 0 || low > 100 {
		t.Fatalf("score out of bounds: %d", low)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		score int
		level types.RiskLevel
	}{
		{90, types.RiskCritical}, {80, types.RiskCritical},
		{70, types.RiskHigh}, {60, types.RiskHigh},
		{50, types.RiskMedium}, {40, types.RiskMedium},
		{30, types.RiskLow}, {20, types.RiskLow},
		{10, types.RiskInfo}, {0, types.RiskInfo},
	}
	for _, tt := range tests {
		if got := Level(tt.score); got != tt.level {
			t.Fatalf("Level(%d) = %s, want %s", tt.score, got, tt.level)
		}
	}
}

func TestSummarizeFactors(t *testing.T) {
	s := Summarize(
		types.Finding{Rule: "github_pat", Path: "production/config.py"},
		types.CategoryUnknown, nil, types.RepoContext{},
	)
	if s.BaseScore != 70 || s.PathModifier != 1.2 || s.CategoryModifier != 1.0 {
		t.Fatalf("unexpected factors: %+v", s)
	}
	if s.Score != 84 || s.Level != types.RiskCritical {
		t.Fatalf("unexpected score/level: %+v", s)
	}
}
