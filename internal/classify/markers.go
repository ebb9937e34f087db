package classify

import (
	"path"
	"regexp"
	"strings"

	"github.com/secretgate/secretgate/internal/types"
)

// Directory-style markers checked against the lowercased path.
var testPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)tests?(/|$)`),
	regexp.MustCompile(`(^|/)fixtures?(/|$)`),
	regexp.MustCompile(`(^|/)examples?(/|$)`),
	regexp.MustCompile(`(^|/)samples?(/|$)`),
	regexp.MustCompile(`(^|/)mocks?(/|$)`),
	regexp.MustCompile(`(^|/)demos?(/|$)`),
	regexp.MustCompile(`(^|/)spec(/|$)`),
	regexp.MustCompile(`(^|/)__tests__(/|$)`),
	regexp.MustCompile(`(^|/)test_[^/]+$`),
	regexp.MustCompile(`[^/]_test\.[^/.]+$`),
}

var testFilenameMarkers = []string{"test", "sample", "example", "dummy", "fixture", "mock", "demo"}

// Explicit marker tokens inside the matched value itself.
var valueMarkers = []string{"TEST", "EXAMPLE", "DUMMY", "SAMPLE", "MOCK", "FAKE", "PLACEHOLDER", "XXX"}

var reAllZeros = regexp.MustCompile(`^0+$`)

// isRepeatedDigit reports a whole-value run of at least six identical digits.
func isRepeatedDigit(s string) bool {
	if len(s) < 6 || s[0] < '0' || s[0] > '9' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkTestMarkers looks for test/fixture signals in the path (0.9), the
// filename (0.85), and the matched value itself (0.7). Case-insensitive.
func checkTestMarkers(match, findingPath string) candidate {
	pathLower := strings.ToLower(findingPath)
	for _, re := range testPathPatterns {
		if re.MatchString(pathLower) {
			return candidate{types.CategoryTest, 0.9, []string{"path:" + re.String()}}
		}
	}

	filename := strings.ToLower(path.Base(pathLower))
	if findingPath != "" {
		for _, m := range testFilenameMarkers {
			if strings.Contains(filename, m) {
				return candidate{types.CategoryTest, 0.85, []string{"filename:" + m}}
			}
		}
	}

	matchUpper := strings.ToUpper(match)
	for _, m := range valueMarkers {
		if strings.Contains(matchUpper, m) {
			return candidate{types.CategoryTest, 0.7, []string{"marker:" + m}}
		}
	}

	// Degenerate placeholders: all zeros, one repeated character, or a
	// whole-value run of the same digit.
	if len(match) >= 10 {
		switch {
		case reAllZeros.MatchString(match):
			return candidate{types.CategoryTest, 0.7, []string{"marker:all_zeros"}}
		case distinctChars(matchUpper) == 1:
			return candidate{types.CategoryTest, 0.7, []string{"marker:repeated_char"}}
		case isRepeatedDigit(match):
			return candidate{types.CategoryTest, 0.7, []string{"marker:repeated_digit"}}
		}
	}

	// Obvious fill patterns dominating a short value.
	if len(match) <= 16 {
		for _, p := range []string{"000000", "123456", "ABCDEF"} {
			if strings.Contains(matchUpper, p) && len(p) >= len(match)*6/10 {
				return candidate{types.CategoryTest, 0.7, []string{"marker:" + p}}
			}
		}
	}

	return candidate{types.CategoryUnknown, 0, nil}
}

func distinctChars(s string) int {
	seen := map[rune]bool{}
	for _, r := range s {
		seen[r] = true
	}
	return len(seen)
}
