package validate

import (
	"encoding/base64"
	"strings"
)

const base62 = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// LengthBetween returns true if len(s) is within [min,max].
func LengthBetween(s string, min, max int) bool {
	n := len(s)
	return n >= min && n <= max
}

// IsAlphabet returns true if all characters in s are in the allowed set.
func IsAlphabet(s, allowed string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(allowed, rune(s[i])) {
			return false
		}
	}
	return true
}

// IsBase64URLNoPad reports whether s is valid base64url without padding,
// the encoding used for JWT segments.
func IsBase64URLNoPad(s string) bool {
	if s == "" {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil
}

// LooksLikeGitHubToken accepts the modern prefixed GitHub token shapes:
// gh[pousr]_ + 36 base62 chars, or the long-form github_pat_ tokens.
func LooksLikeGitHubToken(s string) bool {
	if strings.HasPrefix(s, "github_pat_") {
		return LengthBetween(s, len("github_pat_")+22, 255) &&
			IsAlphabet(s[len("github_pat_"):], base62+"_")
	}
	for _, p := range []string{"ghp_", "gho_", "ghu_", "ghs_", "ghr_"} {
		if strings.HasPrefix(s, p) {
			return len(s) == len(p)+36 && IsAlphabet(s[len(p):], base62)
		}
	}
	return false
}

// LooksLikeAWSAccessKeyID accepts AKIA/ASIA + 16 uppercase alphanumerics.
func LooksLikeAWSAccessKeyID(s string) bool {
	if !(strings.HasPrefix(s, "AKIA") || strings.HasPrefix(s, "ASIA")) {
		return false
	}
	if len(s) != 20 {
		return false
	}
	const upperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	return IsAlphabet(s[4:], upperAlnum)
}
