package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/secretgate/secretgate/internal/redaction"
	"github.com/secretgate/secretgate/internal/types"
)

var reSlackWebhook = regexp.MustCompile(`^https://hooks\.slack\.com/services/([A-Z0-9]{9})/([A-Z0-9]{9})/([A-Za-z0-9]{24})$`)

var (
	reSlackTeamID    = regexp.MustCompile(`^T[A-Z0-9]{8}$`)
	reSlackChannelID = regexp.MustCompile(`^[BC][A-Z0-9]{8}$`)
)

// SlackWebhookValidator checks Slack webhook URL structure without network
// access: overall URL shape plus team-id, channel/bot-id, and token component
// formats. It runs unconditionally since it never leaves the process.
type SlackWebhookValidator struct{}

func NewSlackWebhookValidator() *SlackWebhookValidator { return &SlackWebhookValidator{} }

func (s *SlackWebhookValidator) Name() string          { return "slack_webhook_format" }
func (s *SlackWebhookValidator) RateLimitQPS() float64 { return 10.0 }
func (s *SlackWebhookValidator) RequiresNetwork() bool { return false }

func (s *SlackWebhookValidator) Validate(_ context.Context, f types.Finding) types.ValidationResult {
	m := reSlackWebhook.FindStringSubmatch(f.Match)
	if m == nil {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "does not match Slack webhook URL pattern",
			ValidatorName: s.Name(),
		}
	}
	teamID, channelID, token := m[1], m[2], m[3]
	var issues []string
	if !reSlackTeamID.MatchString(teamID) {
		issues = append(issues, "bad team id")
	}
	if !reSlackChannelID.MatchString(channelID) {
		issues = append(issues, "bad channel id")
	}
	if len(token) != 24 {
		issues = append(issues, fmt.Sprintf("bad token length %d", len(token)))
	}
	if len(issues) > 0 {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "component validation failed: " + strings.Join(issues, "; "),
			ValidatorName: s.Name(),
		}
	}
	return types.ValidationResult{
		State:         types.StateValid,
		Evidence:      "valid Slack webhook format: " + redaction.Secret(f.Match),
		Reason:        "matches Slack webhook URL pattern and component shapes",
		ValidatorName: s.Name(),
	}
}
