package scoring

import (
	"math"
	"strings"
)

// Education level constants
const (
	DegreeHighSchool = "high_school"
	DegreeAssociate  = "associate"
	DegreeBachelor   = "bachelor"
	DegreeMaster     = "master"
	DegreeDoctorate  = "doctorate"
)

// degreeRank maps education levels to numeric ranks for comparison
var degreeRank = map[string]int{
	DegreeHighSchool: 1,
	DegreeAssociate:  2,
	DegreeBachelor:   3,
	DegreeMaster:     4,
	DegreeDoctorate:  5,
}

// EducationScore scores a candidate's highest degree against the job's
// required level: 100 when the candidate meets or exceeds it, 75 when exactly
// one rank below, and a steep falloff beyond that. A job with no recognized
// education requirement scores 100. A candidate with no recognized degree
// ranks below high school.
func EducationScore(candidateLevel, requiredLevel string) float64 {
	required, ok := degreeRank[normalizeDegree(requiredLevel)]
	if !ok {
		return 100
	}

	candidate := degreeRank[normalizeDegree(candidateLevel)]
	if candidate >= required {
		return 100
	}

	gap := required - candidate
	if gap == 1 {
		return 75
	}
	return math.Max(0, 50-25*float64(gap-1))
}

func normalizeDegree(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
