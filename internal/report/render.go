// Package report renders the gate outcome for humans. Machine consumers
// use the JSON envelope in pkg/core instead.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/secretgate/secretgate/internal/policy"
	"github.com/secretgate/secretgate/internal/types"
	"golang.org/x/term"
)

var (
	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	riskStyles = map[types.RiskLevel]lipgloss.Style{
		types.RiskCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		types.RiskHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		types.RiskMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		types.RiskLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		types.RiskInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

type PrintOptions struct {
	NoColor bool
	// Width overrides terminal detection. Zero means auto.
	Width int
}

func (o PrintOptions) width() int {
	if o.Width > 0 {
		return o.Width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

func (o PrintOptions) style(s lipgloss.Style, text string) string {
	if o.NoColor {
		return text
	}
	return s.Render(text)
}

// PrintGateReport writes the findings table, the violation list, and the
// summary block. Findings arrive already redacted; nothing here touches raw
// secret material.
func PrintGateReport(w io.Writer, findings []types.EnrichedFinding, res policy.Result, opts PrintOptions) {
	if len(findings) > 0 {
		printFindingsTable(w, findings, opts)
		fmt.Fprintln(w)
	}
	printViolations(w, res, opts)
}

func printFindingsTable(w io.Writer, findings []types.EnrichedFinding, opts PrintOptions) {
	sorted := make([]types.EnrichedFinding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RiskScore != sorted[j].RiskScore {
			return sorted[i].RiskScore > sorted[j].RiskScore
		}
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Line < sorted[j].Line
	})

	tbl := tablewriter.NewWriter(w)
	tbl.Header("RISK", "CATEGORY", "RULE", "LOCATION", "VALIDATED", "MATCH")
	for _, f := range sorted {
		risk := strconv.Itoa(f.RiskScore) + " " + string(f.RiskLevel)
		if !opts.NoColor {
			if st, ok := riskStyles[f.RiskLevel]; ok {
				risk = st.Render(risk)
			}
		}
		loc := truncate(f.Path, opts.width()/3) + ":" + strconv.Itoa(f.Line)
		tbl.Append([]string{
			risk,
			string(f.Category),
			f.Rule,
			loc,
			string(f.Validated.State),
			f.Match,
		})
	}
	_ = tbl.Render()
}

func printViolations(w io.Writer, res policy.Result, opts PrintOptions) {
	if res.Passed {
		fmt.Fprintln(w, opts.style(passStyle, "✅ All policy checks passed."))
		printSummary(w, res, opts)
		return
	}

	fmt.Fprintln(w, opts.style(failStyle, "❌ Policy violations found:"))
	fmt.Fprintln(w)
	for _, v := range res.Violations {
		icon := "🟡"
		if v.Severity == types.SevHigh {
			icon = "🔴"
		}
		fmt.Fprintf(w, "%s %s: %s\n", icon, v.Type, v.Message)
		if v.Path != "" {
			fmt.Fprintf(w, "   File: %s\n", v.Path)
		}
		if v.FindingID != "" {
			fmt.Fprintf(w, "   Rule: %s\n", v.FindingID)
		}
		fmt.Fprintln(w)
	}
	printSummary(w, res, opts)
}

func printSummary(w io.Writer, res policy.Result, opts PrintOptions) {
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Total findings: %d\n", res.Summary.TotalFindings)
	fmt.Fprintf(w, "  After waivers: %d\n", res.Summary.FilteredFindings)
	fmt.Fprintf(w, "  Violations: %d\n", res.Summary.Violations)
	fmt.Fprintf(w, "  Waivers applied: %d\n", res.Summary.WaiversApplied)
	for _, aw := range res.WaiversApplied {
		fmt.Fprintln(w, opts.style(dimStyle, fmt.Sprintf("  waived %s (%s)", aw.Finding, aw.Waiver.Reason)))
	}
}

func truncate(s string, max int) string {
	if max < 12 {
		max = 12
	}
	if len(s) <= max {
		return s
	}
	return "…" + s[len(s)-max+1:]
}
