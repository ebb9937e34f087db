package validate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/secretgate/secretgate/internal/redaction"
	"github.com/secretgate/secretgate/internal/types"
)

var azureStorageDomains = []string{
	".blob.core.windows.net",
	".queue.core.windows.net",
	".table.core.windows.net",
	".file.core.windows.net",
}

// AzureSASValidator probes an Azure SAS URL with a HEAD request. A 2xx means
// the signed URL still grants access; 403 with a past `se` expiry means the
// grant has lapsed.
type AzureSASValidator struct {
	client *http.Client
}

func NewAzureSASValidator() *AzureSASValidator {
	return &AzureSASValidator{client: &http.Client{Timeout: 10 * time.Second}}
}

func (a *AzureSASValidator) Name() string          { return "azure_sas_live" }
func (a *AzureSASValidator) RateLimitQPS() float64 { return 1.0 }
func (a *AzureSASValidator) RequiresNetwork() bool { return true }

func (a *AzureSASValidator) Validate(ctx context.Context, f types.Finding) types.ValidationResult {
	sasURL := f.Match
	u, ok := a.parseSAS(sasURL)
	if !ok {
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "not a well-formed Azure SAS URL (needs https, storage host, sig and se)",
			ValidatorName: a.Name(),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return types.ValidationResult{
			State:         types.StateIndeterminate,
			Reason:        "request build error: " + err.Error(),
			ValidatorName: a.Name(),
		}
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return types.ValidationResult{
			State:         types.StateIndeterminate,
			Reason:        "network error: " + err.Error(),
			ValidatorName: a.Name(),
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return types.ValidationResult{
			State:         types.StateValid,
			Evidence:      "SAS URL grants access: " + redaction.Secret(sasURL),
			Reason:        "HEAD probe succeeded",
			ValidatorName: a.Name(),
		}
	case resp.StatusCode == http.StatusForbidden:
		if se := u.Query().Get("se"); se != "" {
			if exp, err := time.Parse(time.RFC3339, se); err == nil && exp.Before(time.Now()) {
				return types.ValidationResult{
					State:         types.StateInvalid,
					Reason:        "SAS token expired (se in the past) and probe returned 403",
					ValidatorName: a.Name(),
				}
			}
		}
		return types.ValidationResult{
			State:         types.StateInvalid,
			Reason:        "HEAD probe rejected with 403 (signature invalid or revoked)",
			ValidatorName: a.Name(),
		}
	default:
		return types.ValidationResult{
			State:         types.StateIndeterminate,
			Reason:        fmt.Sprintf("HEAD probe returned status %d", resp.StatusCode),
			ValidatorName: a.Name(),
		}
	}
}

func (a *AzureSASValidator) parseSAS(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return nil, false
	}
	hostOK := false
	for _, d := range azureStorageDomains {
		if strings.HasSuffix(u.Host, d) {
			hostOK = true
			break
		}
	}
	if !hostOK {
		return nil, false
	}
	q := u.Query()
	if q.Get("sig") == "" || q.Get("se") == "" {
		return nil, false
	}
	return u, true
}
