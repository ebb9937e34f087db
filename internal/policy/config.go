// Package policy loads the gate policy file and enforces budgets and waivers
// against enriched findings.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigError describes a malformed or missing policy file. The message
// names the absolute path and the failing section; it is the only error this
// pipeline surfaces to its caller.
type ConfigError struct {
	Path    string
	Section string
	Msg     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("policy config %s: section %q: %s", e.Path, e.Section, e.Msg)
}

// ValidatorsConfig is the validators section of the policy file.
type ValidatorsConfig struct {
	AllowNetwork bool    `yaml:"allow_network"`
	GlobalQPS    float64 `yaml:"global_qps"`
}

// Budgets holds the budget ceilings. A nil budget is unconstrained.
type Budgets struct {
	NewFindings        *int `yaml:"new_findings"`
	NewActualFindings  *int `yaml:"new_actual_findings"`
	NewExpiredFindings *int `yaml:"new_expired_findings"`
	NewTestFindings    *int `yaml:"new_test_findings"`
	NewUnknownFindings *int `yaml:"new_unknown_findings"`
	MaxRiskScore       *int `yaml:"max_risk_score"`
}

// Waiver is a time-boxed, rule+path-scoped exemption from budgets.
type Waiver struct {
	Rule   string `yaml:"rule"`
	Path   string `yaml:"path"`
	Expiry string `yaml:"expiry"`
	Reason string `yaml:"reason"`
}

// Config is the on-disk policy shape, version 1.
type Config struct {
	Version    int              `yaml:"version"`
	Validators ValidatorsConfig `yaml:"validators"`
	Budgets    Budgets          `yaml:"budgets"`
	Waivers    []Waiver         `yaml:"waivers"`
}

// Default returns the starter policy: network off, conservative rate limit,
// zero tolerance for new findings, risk ceiling 40.
func Default() Config {
	zero, maxRisk := 0, 40
	return Config{
		Version:    1,
		Validators: ValidatorsConfig{AllowNetwork: false, GlobalQPS: 2.0},
		Budgets:    Budgets{NewFindings: &zero, MaxRiskScore: &maxRisk},
	}
}

// Load reads and validates a policy file. All failures come back as
// *ConfigError carrying the absolute path and the offending section.
func Load(path string) (Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	var cfg Config
	b, err := os.ReadFile(abs)
	if err != nil {
		return cfg, &ConfigError{Path: abs, Section: "file", Msg: err.Error()}
	}

	// Decode loosely first to distinguish "section missing" from zero values.
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return cfg, &ConfigError{Path: abs, Section: "yaml", Msg: err.Error()}
	}
	for _, section := range []string{"version", "validators", "budgets"} {
		if _, ok := raw[section]; !ok {
			return cfg, &ConfigError{Path: abs, Section: section, Msg: "required section missing"}
		}
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, &ConfigError{Path: abs, Section: "yaml", Msg: err.Error()}
	}
	if cfg.Version != 1 {
		return cfg, &ConfigError{Path: abs, Section: "version", Msg: fmt.Sprintf("must be 1, got %d", cfg.Version)}
	}
	if cfg.Validators.GlobalQPS < 0 {
		return cfg, &ConfigError{Path: abs, Section: "validators", Msg: "global_qps must not be negative"}
	}
	if cfg.Validators.GlobalQPS == 0 {
		cfg.Validators.GlobalQPS = 2.0
	}
	for i, w := range cfg.Waivers {
		if err := validateWaiver(w); err != nil {
			return cfg, &ConfigError{Path: abs, Section: fmt.Sprintf("waivers[%d]", i), Msg: err.Error()}
		}
	}
	return cfg, nil
}

func validateWaiver(w Waiver) error {
	if w.Rule == "" {
		return fmt.Errorf("missing required field: rule")
	}
	if w.Path == "" {
		return fmt.Errorf("missing required field: path")
	}
	if w.Expiry == "" {
		return fmt.Errorf("missing required field: expiry")
	}
	if w.Reason == "" {
		return fmt.Errorf("missing required field: reason")
	}
	if _, err := parseExpiry(w.Expiry); err != nil {
		return fmt.Errorf("invalid expiry date %q: %v", w.Expiry, err)
	}
	return nil
}

// parseExpiry accepts RFC 3339 timestamps and bare ISO dates.
func parseExpiry(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
