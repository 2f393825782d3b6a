package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TurbineType is the closed set of supported turbine families.
type TurbineType string

const (
	TurbineKaplan    TurbineType = "kaplan"
	TurbineFrancis   TurbineType = "francis"
	TurbinePelton    TurbineType = "pelton"
	TurbineCrossFlow TurbineType = "cross_flow"
	TurbinePropeller TurbineType = "propeller"
)

// TurbineTypes lists the accepted turbine types in display order.
var TurbineTypes = []TurbineType{TurbineKaplan, TurbineFrancis, TurbinePelton, TurbineCrossFlow, TurbinePropeller}

// SiteType is the closed set of development layouts.
type SiteType string

const (
	SiteRunOfRiver  SiteType = "run_of_river"
	SiteDiversion   SiteType = "diversion"
	SiteImpoundment SiteType = "impoundment"
)

// SiteTypes lists the accepted site types in display order.
var SiteTypes = []SiteType{SiteRunOfRiver, SiteDiversion, SiteImpoundment}

// ParseTurbineType maps free text to a TurbineType. Matching ignores case,
// underscores, hyphens and spaces, so "CrossFlow" and "cross-flow" both match.
func ParseTurbineType(value string) (TurbineType, error) {
	key := enumKey(value)
	for _, t := range TurbineTypes {
		if enumKey(string(t)) == key {
			return t, nil
		}
	}
	return "", &ValidationError{Field: FieldTurbineType, Value: fmt.Sprintf("%q", value), Bound: enumBound(TurbineTypes)}
}

// ParseSiteType maps free text to a SiteType with the same rules as ParseTurbineType.
func ParseSiteType(value string) (SiteType, error) {
	key := enumKey(value)
	for _, s := range SiteTypes {
		if enumKey(string(s)) == key {
			return s, nil
		}
	}
	return "", &ValidationError{Field: FieldSiteType, Value: fmt.Sprintf("%q", value), Bound: enumBound(SiteTypes)}
}

// Label returns a human readable name, e.g. "Cross Flow".
func (t TurbineType) Label() string { return label(string(t)) }

// Label returns a human readable name, e.g. "Run Of River".
func (s SiteType) Label() string { return label(string(s)) }

func (t *TurbineType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTurbineType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (s *SiteType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSiteType(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func enumKey(value string) string {
	replacer := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}

func enumBound[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func label(value string) string {
	words := strings.Split(value, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
