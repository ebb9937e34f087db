// Package core provides a small, stable facade over secretgate's internal
// pipeline for external integrations. It deliberately re-exports a narrow
// API surface so third-party tools can depend on a stable import path
// without reaching into internal packages.
//
// Example:
//
//	findings, _ := core.UnmarshalFindings(os.Stdin)
//	cfg, _ := core.LoadPolicy(".secretgate.yml")
//	enriched, res, err := core.Gate(ctx, findings, cfg, core.Options{})
//	if err != nil { /* handle */ }
//	_ = core.MarshalGateOutput(os.Stdout, core.GateOutput{Findings: enriched, Policy: res})
package core
