package assessment

import "fmt"

// HeadSpan is the head range in meters a turbine family is usually built for.
// A zero Max means no upper limit.
type HeadSpan struct {
	Min float64
	Max float64
}

func (s HeadSpan) contains(head float64) bool {
	if head < s.Min {
		return false
	}
	return s.Max == 0 || head <= s.Max
}

func (s HeadSpan) String() string {
	if s.Max == 0 {
		return fmt.Sprintf(">%s m", formatValue(s.Min))
	}
	return fmt.Sprintf("%s-%s m", formatValue(s.Min), formatValue(s.Max))
}

var turbineHeadSpans = map[TurbineType]HeadSpan{
	TurbineKaplan:    {Min: 2, Max: 40},
	TurbineFrancis:   {Min: 10, Max: 350},
	TurbinePelton:    {Min: 150},
	TurbineCrossFlow: {Min: 1, Max: 200},
	TurbinePropeller: {Min: 1, Max: 15},
}

// TypicalHeadSpan returns the usual head range for a turbine type.
func TypicalHeadSpan(t TurbineType) (HeadSpan, bool) {
	span, ok := turbineHeadSpans[t]
	return span, ok
}

// TypicalTurbineEfficiency returns a representative turbine efficiency for the
// type at the given head. It is advisory: PowerModel uses the overall
// efficiency supplied with the site, never this value.
func TypicalTurbineEfficiency(t TurbineType, headM float64) float64 {
	switch t {
	case TurbineKaplan:
		if headM < 40 {
			return 0.90
		}
		return 0.85
	case TurbineFrancis:
		if headM >= 10 && headM <= 350 {
			return 0.92
		}
		return 0.88
	case TurbinePelton:
		if headM > 150 {
			return 0.88
		}
		return 0.82
	case TurbineCrossFlow:
		return 0.80
	case TurbinePropeller:
		if headM < 15 {
			return 0.85
		}
		return 0.80
	default:
		return 0.85
	}
}

// TurbineSuitable reports whether the head falls inside the usual span for t.
func TurbineSuitable(t TurbineType, headM float64) bool {
	span, ok := turbineHeadSpans[t]
	return ok && span.contains(headM)
}
