package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/secretgate/secretgate/internal/types"
)

const githubUserAPI = "https://api.github.com/user"

// GitHubPATValidator verifies a GitHub personal access token against the
// GitHub user API. Network-gated: the runner never invokes it unless the
// policy allows network access.
type GitHubPATValidator struct {
	client *http.Client
	apiURL string
}

func NewGitHubPATValidator() *GitHubPATValidator {
	return &GitHubPATValidator{
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: githubUserAPI,
	}
}

func (g *GitHubPATValidator) Name() string          { return "github_pat_live" }
func (g *GitHubPATValidator) RateLimitQPS() float64 { return 1.0 }
func (g *GitHubPATValidator) RequiresNetwork() bool { return true }

func (g *GitHubPATValidator) Validate(ctx context.Context, f types.Finding) types.ValidationResult {
	token := f.Match
	if !LooksLikeGitHubToken(token) {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "not a recognized GitHub token shape",
			ValidatorName: g.Name(),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL, nil)
	if err != nil {
		return types.ValidationResult{
			State:         types.StateIndeterminate,
			Reason:        "request build error: " + err.Error(),
			ValidatorName: g.Name(),
		}
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("User-Agent", "secretgate-validator/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		// Timeouts and transport failures are the designed indeterminate
		// path, never fatal.
		return types.ValidationResult{
			State:         types.StateIndeterminate,
			Reason:        "network error: " + err.Error(),
			ValidatorName: g.Name(),
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body struct {
			Login string `json:"login"`
		}
		login := "unknown"
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Login != "" {
			login = body.Login
		}
		return types.ValidationResult{
			State:         types.StateValid,
			Evidence:      "token authenticated as GitHub user " + login,
			Reason:        "accepted by GitHub user API",
			ValidatorName: g.Name(),
		}
	case resp.StatusCode == http.StatusUnauthorized:
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "rejected by GitHub API (401 unauthorized)",
			ValidatorName: g.Name(),
		}
	default:
		return types.ValidationResult{
			State:         types.StateIndeterminate,
			Reason:        fmt.Sprintf("GitHub API returned status %d", resp.StatusCode),
			ValidatorName: g.Name(),
		}
	}
}
