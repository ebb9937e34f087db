package redaction

import (
	"regexp"

	"github.com/secretgate/secretgate/internal/types"
)

// reSecretShaped matches tokens that look like credentials: 16+ chars drawn
// from the usual base64/base62/url-safe alphabets. The masked form produced
// by Secret contains a literal "****" and no longer matches, which makes
// Evidence idempotent.
var reSecretShaped = regexp.MustCompile(`\b[A-Za-z0-9+/_-]{16,}\b`)

// Secret masks a secret value. Values of 10 characters or fewer are fully
// masked; longer values keep the first 6 and last 4 characters.
func Secret(s string) string {
	if len(s) <= 10 {
		return "****"
	}
	return s[:6] + "****" + s[len(s)-4:]
}

// Evidence masks every secret-shaped token in free-form text, leaving the
// surrounding prose untouched.
func Evidence(text string) string {
	return reSecretShaped.ReplaceAllStringFunc(text, Secret)
}

// Result returns a copy of r with its evidence masked.
func Result(r types.ValidationResult) types.ValidationResult {
	if r.Evidence != "" {
		r.Evidence = Evidence(r.Evidence)
	}
	return r
}

// Finding returns a copy of f safe to persist or print: the match is masked
// and any attached validation evidence is scrubbed.
func Finding(f types.EnrichedFinding) types.EnrichedFinding {
	f.Match = Secret(f.Match)
	if f.Validated.Evidence != "" {
		f.Validated.Evidence = Evidence(f.Validated.Evidence)
	}
	if len(f.Validations) > 0 {
		vs := make([]types.ValidationResult, len(f.Validations))
		for i, r := range f.Validations {
			vs[i] = Result(r)
		}
		f.Validations = vs
	}
	return f
}

// Findings masks a whole batch.
func Findings(fs []types.EnrichedFinding) []types.EnrichedFinding {
	out := make([]types.EnrichedFinding, len(fs))
	for i, f := range fs {
		out[i] = Finding(f)
	}
	return out
}
