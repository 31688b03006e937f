// Package priority sorts scored items into 2x2 prioritization matrices.
package priority

import (
	"math"
	"sort"
)

// Quadrant names a cell of a prioritization matrix.
type Quadrant string

// Importance x satisfaction cells.
const (
	Maintain Quadrant = "maintain" // high importance, high satisfaction
	Improve  Quadrant = "improve"  // high importance, low satisfaction
	Promote  Quadrant = "promote"  // low importance, high satisfaction
	Monitor  Quadrant = "monitor"  // low importance, low satisfaction
)

// Pain x solution-satisfaction cells. Monitor is shared.
const (
	Critical Quadrant = "critical" // High pain / Low satisfaction
	Innovate Quadrant = "innovate" // High pain / Medium satisfaction
	Guide    Quadrant = "guide"    // Medium pain / Low satisfaction
)

// Item is anything with an importance and a satisfaction score.
type Item struct {
	Name         string  `json:"name"`
	Importance   float64 `json:"importance"`
	Satisfaction float64 `json:"satisfaction"`
}

// Summary holds the split points of a matrix.
type Summary struct {
	Total           int     `json:"total"`
	AvgImportance   float64 `json:"avg_importance"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
}

// Matrix is an importance x satisfaction matrix.
type Matrix struct {
	Summary   Summary             `json:"summary"`
	Quadrants map[Quadrant][]Item `json:"quadrants"`
}

// ImportanceSatisfaction splits items on the list averages. An item at or
// above an average is on the high side. Input order is kept within a cell.
func ImportanceSatisfaction(items []Item) Matrix {
	m := Matrix{
		Quadrants: map[Quadrant][]Item{
			Maintain: {},
			Improve:  {},
			Promote:  {},
			Monitor:  {},
		},
	}
	if len(items) == 0 {
		return m
	}

	var sumImp, sumSat float64
	for _, it := range items {
		sumImp += it.Importance
		sumSat += it.Satisfaction
	}
	avgImp := sumImp / float64(len(items))
	avgSat := sumSat / float64(len(items))

	for _, it := range items {
		highImp := it.Importance >= avgImp
		highSat := it.Satisfaction >= avgSat
		var q Quadrant
		switch {
		case highImp && highSat:
			q = Maintain
		case highImp:
			q = Improve
		case highSat:
			q = Promote
		default:
			q = Monitor
		}
		m.Quadrants[q] = append(m.Quadrants[q], it)
	}

	m.Summary = Summary{
		Total:           len(items),
		AvgImportance:   round(avgImp, 2),
		AvgSatisfaction: round(avgSat, 2),
	}
	return m
}

// Level is a coarse High / Medium / Low rating.
type Level string

const (
	High   Level = "High"
	Medium Level = "Medium"
	Low    Level = "Low"
)

// Problem is a rated problem with its observed frequency.
type Problem struct {
	Name         string `json:"name"`
	Pain         Level  `json:"pain"`
	Satisfaction Level  `json:"satisfaction"`
	Count        int    `json:"count"`
}

// PainSatisfaction places each problem by its pain and solution
// satisfaction ratings. Cells are ordered by count desc, then name.
func PainSatisfaction(problems []Problem) map[Quadrant][]Problem {
	out := map[Quadrant][]Problem{
		Critical: {},
		Innovate: {},
		Guide:    {},
		Monitor:  {},
	}
	for _, p := range problems {
		var q Quadrant
		switch {
		case p.Pain == High && p.Satisfaction == Low:
			q = Critical
		case p.Pain == High && p.Satisfaction == Medium:
			q = Innovate
		case p.Pain == Medium && p.Satisfaction == Low:
			q = Guide
		default:
			q = Monitor
		}
		out[q] = append(out[q], p)
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Count != list[j].Count {
				return list[i].Count > list[j].Count
			}
			return list[i].Name < list[j].Name
		})
	}
	return out
}

// PainOrder lists the pain matrix cells in reporting order.
var PainOrder = []Quadrant{Critical, Innovate, Guide, Monitor}

// ImportanceOrder lists the importance matrix cells in reporting order.
var ImportanceOrder = []Quadrant{Maintain, Improve, Promote, Monitor}

// Label returns the human heading for a quadrant.
func Label(q Quadrant) string {
	switch q {
	case Maintain:
		return "Maintain (High Importance, High Satisfaction)"
	case Improve:
		return "Improve (High Importance, Low Satisfaction)"
	case Promote:
		return "Promote (Low Importance, High Satisfaction)"
	case Critical:
		return "High Pain / Low Satisfaction"
	case Innovate:
		return "High Pain / Medium Satisfaction"
	case Guide:
		return "Medium Pain / Low Satisfaction"
	case Monitor:
		return "Monitor"
	default:
		return string(q)
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
