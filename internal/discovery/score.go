package discovery

import "math"

// score combines recency (newer mtime scores higher, with decay over
// minutes) and size (diminishing-return log bonus) into a single ranking
// number, per spec.md §4.7 ("Score = combined recency ... and size").
func score(age int64, size int64) float64 {
	ageMinutes := float64(age) / 60000.0
	if ageMinutes < 0 {
		ageMinutes = 0
	}
	recency := 100.0 / (1.0 + ageMinutes/10.0)

	var sizeBonus float64
	if size > 0 {
		sizeBonus = math.Min(20, math.Log2(float64(size)+1))
	}
	return recency + sizeBonus
}

// cwdMatchBonus is added to a Codex candidate's score when its recorded
// session_meta.cwd equals the requested working directory.
const cwdMatchBonus = 15.0

// sixHoursMs is the age-gap threshold in IsStrictFallbackAllowed.
const sixHoursMs = int64(6 * 60 * 60 * 1000)

// strictFallbackScoreGap is the score-gap threshold in
// IsStrictFallbackAllowed.
const strictFallbackScoreGap = 30.0

// IsStrictFallbackAllowed reports whether picking top as the resolved
// session is safe when top's cwd doesn't match the request: either the
// runner-up is markedly older (> 6h age gap) or markedly worse-scored
// (>= 30 points), so there's no ambiguity about which session is "it".
func IsStrictFallbackAllowed(top, runnerUp Candidate) bool {
	ageGap := runnerUp.AgeMs - top.AgeMs
	if ageGap < 0 {
		ageGap = -ageGap
	}
	scoreGap := top.Score - runnerUp.Score
	return ageGap > sixHoursMs || scoreGap >= strictFallbackScoreGap
}
