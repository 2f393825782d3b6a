package http

import (
	"errors"

	assessmentapp "hydropower-calc/internal/assessment/application"
	assessment "hydropower-calc/internal/assessment/domain"
)

type violation struct {
	Scenario *int   `json:"scenario,omitempty"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Bound    string `json:"bound"`
	Message  string `json:"message"`
}

type violationResponse struct {
	Error      string      `json:"error"`
	Violations []violation `json:"violations"`
}

// newViolationResponse lists every field violation in err, tagging those
// that came from a comparison scenario with its index.
func newViolationResponse(err error) violationResponse {
	resp := violationResponse{Error: "invalid parameters", Violations: []violation{}}
	var scenarioErrs []*assessmentapp.ScenarioError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			var scenarioErr *assessmentapp.ScenarioError
			if errors.As(inner, &scenarioErr) {
				scenarioErrs = append(scenarioErrs, scenarioErr)
			}
		}
	}
	if len(scenarioErrs) == 0 {
		resp.Violations = appendViolations(resp.Violations, nil, err)
		return resp
	}
	for _, scenarioErr := range scenarioErrs {
		index := scenarioErr.Index
		resp.Violations = appendViolations(resp.Violations, &index, scenarioErr.Err)
	}
	return resp
}

func appendViolations(out []violation, scenario *int, err error) []violation {
	for _, v := range assessment.ValidationErrors(err) {
		out = append(out, violation{
			Scenario: scenario,
			Field:    v.Field,
			Value:    v.Value,
			Bound:    v.Bound,
			Message:  v.Error(),
		})
	}
	return out
}
