package validate

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/secretgate/secretgate/internal/redaction"
	"github.com/secretgate/secretgate/internal/types"
)

var reGCPSAEmail = regexp.MustCompile(`^[^@]+@[^@]+\.iam\.gserviceaccount\.com$`)

// GCPServiceAccountValidator checks GCP service account key JSON. It verifies
// the document shape and the service account email; minting an access token
// from the embedded private key would need a full OAuth2 JWT-bearer exchange,
// so shape-valid keys resolve indeterminate with that limitation stated.
type GCPServiceAccountValidator struct{}

func NewGCPServiceAccountValidator() *GCPServiceAccountValidator {
	return &GCPServiceAccountValidator{}
}

func (g *GCPServiceAccountValidator) Name() string          { return "gcp_sa_key_live" }
func (g *GCPServiceAccountValidator) RateLimitQPS() float64 { return 0.5 }
func (g *GCPServiceAccountValidator) RequiresNetwork() bool { return true }

func (g *GCPServiceAccountValidator) Validate(_ context.Context, f types.Finding) types.ValidationResult {
	raw := f.Match
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "expected a JSON service account key document",
			ValidatorName: g.Name(),
		}
	}

	var key map[string]any
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "service account key is not valid JSON",
			ValidatorName: g.Name(),
		}
	}

	var missing []string
	for _, field := range []string{"type", "project_id", "private_key_id", "private_key", "client_email"} {
		if _, ok := key[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "missing required fields: " + strings.Join(missing, ", "),
			ValidatorName: g.Name(),
		}
	}
	if t, _ := key["type"].(string); t != "service_account" {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "key type is not service_account",
			ValidatorName: g.Name(),
		}
	}
	email, _ := key["client_email"].(string)
	if !reGCPSAEmail.MatchString(email) {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "service account email has an invalid format",
			ValidatorName: g.Name(),
		}
	}

	return types.ValidationResult{
		State:         types.StateIndeterminate,
		Evidence:      "service account key shape valid for " + redaction.Secret(email),
		Reason:        "shape checks passed; live verification requires an OAuth2 JWT-bearer exchange",
		ValidatorName: g.Name(),
	}
}
