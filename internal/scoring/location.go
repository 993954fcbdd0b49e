package scoring

import "strings"

// Location type constants for job postings
const (
	LocationTypeRemote = "remote"
	LocationTypeHybrid = "hybrid"
	LocationTypeOnsite = "onsite"
)

// neutralLocationScore is used when location data is missing on either side.
const neutralLocationScore = 50

// LocationScore scores geographic fit between a candidate and a job:
// remote jobs and exact city matches score 100, same-country matches score
// 80 (hybrid) or 60 (onsite), and an onsite mismatch scores 20. When either
// side is missing location data the score is a neutral 50.
func LocationScore(candidateCity, candidateCountry, jobCity, jobCountry, locationType string) float64 {
	if strings.EqualFold(strings.TrimSpace(locationType), LocationTypeRemote) {
		return 100
	}

	candidateCity = strings.TrimSpace(candidateCity)
	candidateCountry = strings.TrimSpace(candidateCountry)
	jobCity = strings.TrimSpace(jobCity)
	jobCountry = strings.TrimSpace(jobCountry)

	if (candidateCity == "" && candidateCountry == "") || (jobCity == "" && jobCountry == "") {
		return neutralLocationScore
	}

	if candidateCity != "" && jobCity != "" && strings.EqualFold(candidateCity, jobCity) {
		return 100
	}

	if candidateCountry != "" && jobCountry != "" && strings.EqualFold(candidateCountry, jobCountry) {
		if strings.EqualFold(strings.TrimSpace(locationType), LocationTypeHybrid) {
			return 80
		}
		return 60
	}

	return 20
}
