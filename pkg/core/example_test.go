package core_test

import (
	"context"
	"fmt"
	"os"

	"github.com/secretgate/secretgate/pkg/core"
)

// ExampleGate demonstrates gating detector findings against a policy.
func ExampleGate() {
	// 1. Findings normally come from a detector's JSON output.
	findings := []core.Finding{
		{Path: "src/app.py", Rule: "api_key", Line: 3, Match: "sk_live_abcdefgh12345678"},
	}

	// 2. Load a policy, or start from the strict default.
	cfg := core.DefaultPolicy()

	// 3. Enrich and enforce in one call. Network validation stays off
	// unless explicitly enabled.
	enriched, res, err := core.Gate(context.Background(), findings, cfg, core.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gate failed: %v\n", err)
		return
	}

	fmt.Printf("findings: %d, passed: %v\n", len(enriched), res.Passed)
	// Output: findings: 1, passed: false
}
