package report

import (
	"encoding/json"
	"io"

	"github.com/secretgate/secretgate/internal/types"
)

type sarif struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func riskToLevel(l types.RiskLevel) string {
	switch l {
	case types.RiskCritical, types.RiskHigh:
		return "error"
	case types.RiskMedium:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes enriched findings as SARIF 2.1.0. One rule entry per
// distinct detector rule, result level derived from the risk level.
func WriteSARIF(w io.Writer, findings []types.EnrichedFinding) error {
	ruleIdx := map[string]int{}
	var rules []sarifRule
	var results []sarifResult
	for _, f := range findings {
		idx, ok := ruleIdx[f.Rule]
		if !ok {
			idx = len(rules)
			ruleIdx[f.Rule] = idx
			rules = append(rules, sarifRule{
				ID:               f.Rule,
				Name:             f.Rule,
				ShortDescription: sarifMessage{Text: "secretgate rule: " + f.Rule},
			})
		}
		line := f.Line
		if line < 1 {
			line = 1
		}
		results = append(results, sarifResult{
			RuleID:    f.Rule,
			RuleIndex: idx,
			Level:     riskToLevel(f.RiskLevel),
			Message:   sarifMessage{Text: string(f.Category) + " credential, risk " + string(f.RiskLevel)},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.Path},
					Region:           sarifRegion{StartLine: line},
				},
			}},
		})
	}

	doc := sarif{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "secretgate", InformationURI: "https://github.com/secretgate/secretgate", Rules: rules}},
			Results: results,
		}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
