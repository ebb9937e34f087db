// Package pipeline ties the enrichment stages together: each detector
// finding is validated, classified, risk-scored, and redacted in a single
// pass. The only state shared across findings is the validator rate
// limiting inside the Runner.
package pipeline

import (
	"context"
	"fmt"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/secretgate/secretgate/internal/classify"
	"github.com/secretgate/secretgate/internal/redaction"
	"github.com/secretgate/secretgate/internal/risk"
	"github.com/secretgate/secretgate/internal/types"
	"github.com/secretgate/secretgate/internal/validate"
)

// Options configures an Enricher.
type Options struct {
	AllowNetwork bool
	GlobalQPS    float64
	Repo         types.RepoContext
}

// Enricher runs the full post-detection pipeline over findings. Construct
// one per gate invocation; the validator runner it holds keeps token
// buckets warm across findings.
type Enricher struct {
	runner *validate.Runner
	repo   types.RepoContext
}

func New(reg *validate.Registry, opts Options) *Enricher {
	return &Enricher{
		runner: validate.NewRunner(reg, validate.Options{
			AllowNetwork: opts.AllowNetwork,
			GlobalQPS:    opts.GlobalQPS,
		}),
		repo: opts.Repo,
	}
}

// Enrich processes findings in order and returns one enriched finding per
// input. Secrets are redacted on the way out; callers never see a raw match
// or raw evidence.
func (e *Enricher) Enrich(ctx context.Context, findings []types.Finding) []types.EnrichedFinding {
	out := make([]types.EnrichedFinding, 0, len(findings))
	for _, f := range findings {
		out = append(out, e.enrichOne(ctx, f))
	}
	return out
}

func (e *Enricher) enrichOne(ctx context.Context, f types.Finding) types.EnrichedFinding {
	results := e.runner.Run(ctx, f)
	cls := classifySafe(f, results)

	ef := types.EnrichedFinding{
		Finding:     f,
		Fingerprint: Fingerprint(f),
		Category:    cls.Category,
		Confidence:  cls.Confidence,
		Reasons:     cls.Reasons,
		RiskScore:   risk.Score(f, cls.Category, results, e.repo),
		Validated:   summarize(results),
		Validations: results,
	}
	ef.RiskLevel = risk.Level(ef.RiskScore)
	return redaction.Finding(ef)
}

// classifySafe downgrades a classifier failure to an explicit unknown
// instead of letting one finding take down the whole gate.
func classifySafe(f types.Finding, results []types.ValidationResult) (cls types.Classification) {
	defer func() {
		if r := recover(); r != nil {
			cls = types.Classification{
				Category:   types.CategoryUnknown,
				Confidence: 0.1,
				Reasons:    []string{fmt.Sprintf("classification_error:%v", r)},
			}
		}
	}()
	return classify.Classify(f, results)
}

// summarize collapses per-validator results into the single outcome shown
// on the finding: valid wins over invalid, invalid over indeterminate, with
// the evidence of the earliest result at the winning state.
func summarize(results []types.ValidationResult) types.ValidatedSummary {
	best := types.ValidatedSummary{State: types.StateIndeterminate}
	if len(results) == 0 {
		return best
	}
	rank := func(s types.ValidationState) int {
		switch s {
		case types.StateValid:
			return 2
		case types.StateInvalid:
			return 1
		default:
			return 0
		}
	}
	picked := false
	for _, r := range results {
		if !picked || rank(r.State) > rank(best.State) {
			best = types.ValidatedSummary{State: r.State, Evidence: r.Evidence}
			picked = true
		}
	}
	return best
}

// Fingerprint returns a stable hex identifier for a finding, derived from
// its location and raw match. The raw value only ever feeds the hash; the
// fingerprint itself is safe to log.
func Fingerprint(f types.Finding) string {
	h := xxhash.New()
	h.WriteString(f.Path)
	h.Write([]byte{0})
	h.WriteString(f.Rule)
	h.Write([]byte{0})
	h.WriteString(strconv.Itoa(f.Line))
	h.Write([]byte{0})
	h.WriteString(f.Match)
	return hexHash(h.Sum64())
}

func hexHash(sum uint64) string {
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
