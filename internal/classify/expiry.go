package classify

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/secretgate/secretgate/internal/types"
)

// timeNow is a test hook.
var timeNow = time.Now

// checkOfflineExpiry decodes self-describing expiry fields without touching
// the network: the JWT exp claim and the Azure SAS se query parameter. A past
// expiry classifies expired at 0.95. A future expiry only records a reason
// and falls through, since a fresh token can still be a fixture.
func checkOfflineExpiry(match, rule string) candidate {
	var reasons []string
	ruleLower := strings.ToLower(rule)

	if strings.Contains(ruleLower, "jwt") || looksLikeJWT(match) {
		if exp, ok := jwtExpiry(match); ok {
			if exp.Before(timeNow()) {
				return candidate{types.CategoryExpired, 0.95, append(reasons, "offline:jwt_expired")}
			}
			reasons = append(reasons, "offline:jwt_valid_future_exp")
		}
	}

	if strings.Contains(ruleLower, "azure") || strings.Contains(ruleLower, "sas") || strings.Contains(match, "se=") {
		if exp, ok := sasExpiry(match); ok {
			if exp.Before(timeNow()) {
				return candidate{types.CategoryExpired, 0.95, append(reasons, "offline:azure_sas_expired")}
			}
			reasons = append(reasons, "offline:azure_sas_valid_future_exp")
		}
	}

	return candidate{types.CategoryUnknown, 0, reasons}
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// jwtExpiry pulls the exp claim out of the second dot-segment.
func jwtExpiry(token string) (time.Time, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	var claims struct {
		Exp *int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == nil {
		return time.Time{}, false
	}
	return time.Unix(*claims.Exp, 0).UTC(), true
}

// decodeSegment accepts both base64url (the JWT encoding) and standard
// base64, padded or not.
func decodeSegment(seg string) ([]byte, error) {
	trimmed := strings.TrimRight(seg, "=")
	if b, err := base64.RawURLEncoding.DecodeString(trimmed); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(trimmed)
}

// sasExpiry pulls the signed-expiry (se) parameter out of an Azure SAS URL
// or bare query string.
func sasExpiry(raw string) (time.Time, bool) {
	var query string
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		query = u.RawQuery
	} else if i := strings.Index(raw, "se="); i >= 0 {
		query = raw[i:]
	} else {
		return time.Time{}, false
	}
	vals, err := url.ParseQuery(query)
	if err != nil {
		return time.Time{}, false
	}
	se := vals.Get("se")
	if se == "" {
		return time.Time{}, false
	}
	exp, err := time.Parse(time.RFC3339, se)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}
