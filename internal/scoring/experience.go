package scoring

// ExperienceScore scores a candidate's total experience against a job's
// minimum and preferred years:
//   - at or above preferred years: 100
//   - between minimum and preferred: linear 70 to 100
//   - between 70% of minimum and minimum: linear 50 to 70
//   - below 70% of minimum: linear 0 to 50
//
// A job with no minimum requirement scores 100 regardless of experience.
func ExperienceScore(years, minYears, preferredYears float64) float64 {
	if minYears <= 0 {
		return 100
	}
	if preferredYears < minYears {
		preferredYears = minYears
	}

	nearMin := 0.7 * minYears
	switch {
	case years >= preferredYears:
		return 100
	case years >= minYears:
		// preferredYears > minYears here, the equal case is covered above
		return Clamp(70 + 30*(years-minYears)/(preferredYears-minYears))
	case years >= nearMin:
		return Clamp(50 + 20*(years-nearMin)/(minYears-nearMin))
	default:
		return Clamp(50 * years / nearMin)
	}
}
