package core

import (
	"encoding/json"
	"io"
)

// GateOutput is the machine-readable envelope the gate command emits.
type GateOutput struct {
	Findings []EnrichedFinding `json:"findings"`
	Policy   PolicyResult      `json:"policy"`
}

// MarshalFindings pretty-prints detector findings as JSON.
func MarshalFindings(w io.Writer, findings []Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings decodes detector findings JSON, the gate's input format.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	var fs []Finding
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// MarshalGateOutput pretty-prints the full gate result.
func MarshalGateOutput(w io.Writer, out GateOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
