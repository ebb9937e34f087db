package core

import (
	"context"

	"github.com/secretgate/secretgate/internal/pipeline"
	"github.com/secretgate/secretgate/internal/policy"
	"github.com/secretgate/secretgate/internal/types"
	"github.com/secretgate/secretgate/internal/validate"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Finding = types.Finding
type EnrichedFinding = types.EnrichedFinding
type RepoContext = types.RepoContext
type PolicyConfig = policy.Config
type PolicyResult = policy.Result

// Options controls one gate run.
type Options struct {
	AllowNetwork bool
	GlobalQPS    float64
	Repo         RepoContext
}

// Enrich runs detector findings through validation, classification, and
// risk scoring using the built-in validators. Output findings are redacted.
func Enrich(ctx context.Context, findings []Finding, opts Options) ([]EnrichedFinding, error) {
	reg, err := validate.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	e := pipeline.New(reg, pipeline.Options{
		AllowNetwork: opts.AllowNetwork,
		GlobalQPS:    opts.GlobalQPS,
		Repo:         opts.Repo,
	})
	return e.Enrich(ctx, findings), nil
}

// Enforce applies a policy to enriched findings and returns the gate
// decision.
func Enforce(cfg PolicyConfig, findings []EnrichedFinding) PolicyResult {
	return policy.Enforce(cfg, findings)
}

// LoadPolicy reads and validates a policy file.
func LoadPolicy(path string) (PolicyConfig, error) {
	return policy.Load(path)
}

// DefaultPolicy returns the strict starter policy.
func DefaultPolicy() PolicyConfig {
	return policy.Default()
}

// Gate is the one-call entrypoint for other programs: enrich, then enforce.
func Gate(ctx context.Context, findings []Finding, cfg PolicyConfig, opts Options) ([]EnrichedFinding, PolicyResult, error) {
	enriched, err := Enrich(ctx, findings, opts)
	if err != nil {
		return nil, PolicyResult{}, err
	}
	return enriched, Enforce(cfg, enriched), nil
}
