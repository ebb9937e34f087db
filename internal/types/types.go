package types

// Severity is a coarse-grained severity assigned by the upstream detector.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// Finding is a single candidate secret produced by an external detector.
// It is immutable once created; pipeline stages enrich copies, never the
// original.
type Finding struct {
	Path     string            `json:"path"`
	Rule     string            `json:"rule"`
	Line     int               `json:"line"`
	Match    string            `json:"match"`
	Severity Severity          `json:"severity"`
	Meta     map[string]string `json:"meta,omitempty"`

	// HistoryAgeDays is how long the file has carried this value per git
	// history. Zero when unknown.
	HistoryAgeDays int `json:"history_age_days,omitempty"`
}

// ValidationState is the outcome of one validator against one finding.
type ValidationState string

const (
	StateValid         ValidationState = "valid"
	StateInvalid       ValidationState = "invalid"
	StateIndeterminate ValidationState = "indeterminate"
)

// ValidationResult records what a single validator concluded. Evidence is
// always redacted before the result leaves the validator core.
type ValidationResult struct {
	State         ValidationState `json:"state"`
	Evidence      string          `json:"evidence,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	ValidatorName string          `json:"validator_name"`
}

// Category is the classification outcome for a finding.
type Category string

const (
	CategoryActual  Category = "actual"
	CategoryExpired Category = "expired"
	CategoryTest    Category = "test"
	CategoryUnknown Category = "unknown"
)

// Classification carries the category decision with its confidence and the
// ordered list of rule tags that produced it.
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// RiskLevel buckets a 0-100 risk score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskInfo     RiskLevel = "info"
)

// ValidatedSummary is the compact validation outcome attached to an enriched
// finding: the strongest state observed plus its redacted evidence.
type ValidatedSummary struct {
	State    ValidationState `json:"state"`
	Evidence string          `json:"evidence,omitempty"`
}

// EnrichedFinding is the pipeline output for one finding: the original
// detector fields (match redacted) plus classification, risk, and validation.
type EnrichedFinding struct {
	Finding
	Fingerprint string             `json:"fingerprint"`
	Category    Category           `json:"category"`
	Confidence  float64            `json:"confidence"`
	Reasons     []string           `json:"reasons"`
	RiskScore   int                `json:"risk_score"`
	RiskLevel   RiskLevel          `json:"risk_level"`
	Validated   ValidatedSummary   `json:"validated"`
	Validations []ValidationResult `json:"validations,omitempty"`
}

// RepoContext describes repository exposure for risk scoring.
type RepoContext struct {
	IsPublic                bool `json:"is_public"`
	HasExternalContributors bool `json:"has_external_contributors"`
}
