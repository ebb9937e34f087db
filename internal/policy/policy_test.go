package policy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/secretgate/secretgate/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "policy.yml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func intPtr(n int) *int { return &n }

func TestLoadValid(t *testing.T) {
	p := writePolicy(t, `
version: 1
validators:
  allow_network: false
  global_qps: 4.0
budgets:
  new_findings: 0
  max_risk_score: 40
waivers:
  - rule: github_pat
    path: "legacy/**"
    expiry: "2030-01-01"
    reason: migration in progress
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.False(t, cfg.Validators.AllowNetwork)
	assert.Equal(t, 4.0, cfg.Validators.GlobalQPS)
	require.NotNil(t, cfg.Budgets.NewFindings)
	assert.Equal(t, 0, *cfg.Budgets.NewFindings)
	require.Len(t, cfg.Waivers, 1)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		section string
	}{
		{"missing version", "validators: {}\nbudgets: {}\n", "version"},
		{"missing validators", "version: 1\nbudgets: {}\n", "validators"},
		{"missing budgets", "version: 1\nvalidators: {}\n", "budgets"},
		{"wrong version", "version: 2\nvalidators: {}\nbudgets: {}\n", "version"},
		{"bad yaml", "version: [unclosed\n", "yaml"},
		{
			"waiver missing reason",
			"version: 1\nvalidators: {}\nbudgets: {}\nwaivers:\n  - rule: r\n    path: p\n    expiry: \"2030-01-01\"\n",
			"waivers[0]",
		},
		{
			"waiver bad expiry",
			"version: 1\nvalidators: {}\nbudgets: {}\nwaivers:\n  - rule: r\n    path: p\n    expiry: someday\n    reason: why\n",
			"waivers[0]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writePolicy(t, tt.content)
			_, err := Load(p)
			require.Error(t, err)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.section, ce.Section)
			// The operator-facing message names the absolute path.
			assert.True(t, filepath.IsAbs(ce.Path))
			assert.Contains(t, err.Error(), ce.Path)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "file", ce.Section)
}

func TestWaiverActive(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	w := Waiver{Rule: "github_pat", Path: "legacy/**", Expiry: "2026-12-31", Reason: "r"}

	assert.True(t, w.Active("github_pat", "legacy/app/config.py", now))
	assert.False(t, w.Active("aws_keypair", "legacy/app/config.py", now), "rule must match exactly")
	assert.False(t, w.Active("github_pat", "src/config.py", now), "path must glob-match")

	past := Waiver{Rule: "github_pat", Path: "legacy/**", Expiry: "2026-01-01", Reason: "r"}
	assert.False(t, past.Active("github_pat", "legacy/app/config.py", now), "past expiry never suppresses")

	boundary := Waiver{Rule: "github_pat", Path: "legacy/**", Expiry: "2026-06-01", Reason: "r"}
	assert.False(t, boundary.Active("github_pat", "legacy/app/config.py", now), "expiry must be strictly future")
}

func TestEnforceBudgets(t *testing.T) {
	finding := types.EnrichedFinding{
		Finding:  types.Finding{Rule: "github_pat", Path: "src/config.py"},
		Category: types.CategoryUnknown,
	}

	strict := Config{Version: 1, Budgets: Budgets{NewFindings: intPtr(0)}}
	res := Enforce(strict, []types.EnrichedFinding{finding})
	assert.False(t, res.Passed)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, ViolationBudgetExceeded, res.Violations[0].Type)

	loose := Config{Version: 1, Budgets: Budgets{NewFindings: intPtr(5)}}
	res = Enforce(loose, []types.EnrichedFinding{finding})
	assert.True(t, res.Passed)
	assert.Empty(t, res.Violations)
}

func TestEnforceCategoryBudgets(t *testing.T) {
	actual := types.EnrichedFinding{
		Finding:  types.Finding{Rule: "github_pat", Path: "a.py"},
		Category: types.CategoryActual,
	}
	test := types.EnrichedFinding{
		Finding:  types.Finding{Rule: "github_pat", Path: "tests/b.py"},
		Category: types.CategoryTest,
	}

	cfg := Config{Version: 1, Budgets: Budgets{
		NewActualFindings: intPtr(0),
		NewTestFindings:   intPtr(5),
	}}
	res := Enforce(cfg, []types.EnrichedFinding{actual, test})
	assert.False(t, res.Passed)
	require.Len(t, res.Violations, 1)
	assert.Contains(t, res.Violations[0].Message, "actual")

	// Unset budgets are unconstrained: expired findings don't trip anything.
	expired := types.EnrichedFinding{
		Finding:  types.Finding{Rule: "jwt_token", Path: "c.py"},
		Category: types.CategoryExpired,
	}
	res = Enforce(Config{Version: 1}, []types.EnrichedFinding{expired, expired, expired})
	assert.True(t, res.Passed)
}

func TestEnforceRiskCeiling(t *testing.T) {
	hot := types.EnrichedFinding{
		Finding:   types.Finding{Rule: "github_pat", Path: "production/config.py"},
		Category:  types.CategoryUnknown,
		RiskScore: 84,
	}
	cold := types.EnrichedFinding{
		Finding:   types.Finding{Rule: "slack_webhook", Path: "src/hooks.py"},
		Category:  types.CategoryUnknown,
		RiskScore: 30,
	}
	cfg := Config{Version: 1, Budgets: Budgets{MaxRiskScore: intPtr(40)}}
	res := Enforce(cfg, []types.EnrichedFinding{hot, cold})
	assert.False(t, res.Passed)
	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, ViolationRiskScoreTooHigh, v.Type)
	assert.Equal(t, "github_pat", v.FindingID)
	assert.Equal(t, "production/config.py", v.Path)
}

func TestEnforceWaivers(t *testing.T) {
	finding := types.EnrichedFinding{
		Finding:  types.Finding{Rule: "github_pat", Path: "legacy/config.py"},
		Category: types.CategoryActual,
	}
	cfg := Config{
		Version: 1,
		Budgets: Budgets{NewFindings: intPtr(0)},
		Waivers: []Waiver{
			{Rule: "github_pat", Path: "legacy/**", Expiry: "2099-01-01", Reason: "tracked"},
		},
	}
	res := Enforce(cfg, []types.EnrichedFinding{finding})
	assert.True(t, res.Passed)
	require.Len(t, res.WaiversApplied, 1)
	assert.Equal(t, "github_pat:legacy/config.py", res.WaiversApplied[0].Finding)
	assert.Equal(t, 1, res.Summary.TotalFindings)
	assert.Equal(t, 0, res.Summary.FilteredFindings)

	// Expired waiver never suppresses.
	cfg.Waivers[0].Expiry = "2020-01-01"
	res = Enforce(cfg, []types.EnrichedFinding{finding})
	assert.False(t, res.Passed)
	assert.Empty(t, res.WaiversApplied)
}

func TestDefaultPolicy(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1, cfg.Version)
	assert.False(t, cfg.Validators.AllowNetwork)
	require.NotNil(t, cfg.Budgets.NewFindings)
	assert.Equal(t, 0, *cfg.Budgets.NewFindings)
	require.NotNil(t, cfg.Budgets.MaxRiskScore)
	assert.Equal(t, 40, *cfg.Budgets.MaxRiskScore)
}
