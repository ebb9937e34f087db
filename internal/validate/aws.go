package validate

import (
	"context"

	"github.com/secretgate/secretgate/internal/types"
)

// AWSAccessKeyValidator checks AWS access key IDs. Full STS verification
// needs the paired secret key for SigV4 signing, which a lone key ID finding
// never carries, so a well-formed ID resolves indeterminate with the
// limitation spelled out rather than invalid by default.
type AWSAccessKeyValidator struct{}

func NewAWSAccessKeyValidator() *AWSAccessKeyValidator { return &AWSAccessKeyValidator{} }

func (a *AWSAccessKeyValidator) Name() string          { return "aws_access_key_live" }
func (a *AWSAccessKeyValidator) RateLimitQPS() float64 { return 0.5 }
func (a *AWSAccessKeyValidator) RequiresNetwork() bool { return true }

func (a *AWSAccessKeyValidator) Validate(_ context.Context, f types.Finding) types.ValidationResult {
	keyID := f.Match
	if !LooksLikeAWSAccessKeyID(keyID) {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "not a valid AWS access key ID shape",
			ValidatorName: a.Name(),
		}
	}
	return types.ValidationResult{
		State:         types.StateIndeterminate,
		Evidence:      "well-formed access key ID ending ****" + keyID[len(keyID)-4:],
		Reason:        "key ID shape is valid; STS verification requires the paired secret key",
		ValidatorName: a.Name(),
	}
}
