package report

import (
	"encoding/json"

	assessment "hydropower-calc/internal/assessment/domain"
)

// EncodeJSON renders the full assessment record as indented JSON.
func EncodeJSON(a assessment.Assessment) ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeJSON parses an exported assessment. Site and economic parameters are
// re-validated while decoding.
func DecodeJSON(data []byte) (assessment.Assessment, error) {
	var a assessment.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return assessment.Assessment{}, err
	}
	return a, nil
}
