package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/secretgate/secretgate/internal/policy"
	"github.com/secretgate/secretgate/internal/types"
)

func sampleFindings() []types.EnrichedFinding {
	return []types.EnrichedFinding{
		{
			Finding:     types.Finding{Path: "production/config.py", Rule: "github_pat", Line: 12, Match: "ghp_ab****wxyz"},
			Category:    types.CategoryActual,
			RiskScore:   84,
			RiskLevel:   types.RiskCritical,
			Validated:   types.ValidatedSummary{State: types.StateValid},
			Fingerprint: "00000000deadbeef",
		},
		{
			Finding:   types.Finding{Path: "tests/fixtures.py", Rule: "api_key", Line: 3, Match: "****"},
			Category:  types.CategoryTest,
			RiskScore: 5,
			RiskLevel: types.RiskInfo,
			Validated: types.ValidatedSummary{State: types.StateIndeterminate},
		},
	}
}

func TestPrintGateReportPassed(t *testing.T) {
	var buf bytes.Buffer
	res := policy.Result{Passed: true, Summary: policy.Summary{TotalFindings: 2, FilteredFindings: 2}}

	PrintGateReport(&buf, sampleFindings(), res, PrintOptions{NoColor: true, Width: 120})

	out := buf.String()
	if !strings.Contains(out, "✅ All policy checks passed.") {
		t.Fatalf("missing pass banner:\n%s", out)
	}
	if !strings.Contains(out, "github_pat") || !strings.Contains(out, "production/config.py:12") {
		t.Fatalf("findings table missing rule or location:\n%s", out)
	}
	if !strings.Contains(out, "Total findings: 2") {
		t.Fatalf("missing summary block:\n%s", out)
	}
}

func TestPrintGateReportViolations(t *testing.T) {
	var buf bytes.Buffer
	res := policy.Result{
		Passed: false,
		Violations: []policy.Violation{
			{
				Type:      policy.ViolationRiskScoreTooHigh,
				Message:   "finding has risk score 84, exceeds limit 40",
				Severity:  types.SevHigh,
				FindingID: "github_pat",
				Path:      "production/config.py",
			},
		},
		Summary: policy.Summary{TotalFindings: 2, FilteredFindings: 2, Violations: 1},
	}

	PrintGateReport(&buf, sampleFindings(), res, PrintOptions{NoColor: true, Width: 120})

	out := buf.String()
	if !strings.Contains(out, "❌ Policy violations found:") {
		t.Fatalf("missing fail banner:\n%s", out)
	}
	if !strings.Contains(out, "risk_score_too_high: finding has risk score 84") {
		t.Fatalf("missing violation line:\n%s", out)
	}
	if !strings.Contains(out, "File: production/config.py") || !strings.Contains(out, "Rule: github_pat") {
		t.Fatalf("missing violation detail lines:\n%s", out)
	}
	if !strings.Contains(out, "Violations: 1") {
		t.Fatalf("missing summary count:\n%s", out)
	}
}

func TestPrintGateReportWaivers(t *testing.T) {
	var buf bytes.Buffer
	res := policy.Result{
		Passed: true,
		WaiversApplied: []policy.AppliedWaiver{
			{Finding: "legacy/app.py:api_key", Waiver: policy.Waiver{Rule: "api_key", Path: "legacy/**", Reason: "migration in progress"}},
		},
		Summary: policy.Summary{TotalFindings: 1, WaiversApplied: 1},
	}

	PrintGateReport(&buf, nil, res, PrintOptions{NoColor: true, Width: 120})

	out := buf.String()
	if !strings.Contains(out, "waived legacy/app.py:api_key (migration in progress)") {
		t.Fatalf("missing waiver line:\n%s", out)
	}
}

func TestWriteSARIF(t *testing.T) {
	var buf bytes.Buffer
	findings := sampleFindings()
	findings = append(findings, types.EnrichedFinding{
		Finding:   types.Finding{Path: "a.py", Rule: "github_pat", Line: 0, Match: "****"},
		RiskLevel: types.RiskMedium,
	})

	if err := WriteSARIF(&buf, findings); err != nil {
		t.Fatalf("WriteSARIF: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["version"] != "2.1.0" {
		t.Fatalf("version = %v", doc["version"])
	}

	out := buf.String()
	// github_pat appears twice as a result but only once as a rule.
	if strings.Count(out, `"id": "github_pat"`) != 1 {
		t.Fatalf("rule not deduplicated:\n%s", out)
	}
	if !strings.Contains(out, `"level": "error"`) || !strings.Contains(out, `"level": "note"`) {
		t.Fatalf("risk levels not mapped:\n%s", out)
	}
	// Line zero is clamped for SARIF.
	if !strings.Contains(out, `"startLine": 1`) {
		t.Fatalf("zero line not clamped:\n%s", out)
	}
}
