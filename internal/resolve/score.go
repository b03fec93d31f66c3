package resolve

import (
	"math"
	"strings"

	"tapecrate-api/internal/archive"
)

// Source-type bonuses. Large and additive so that source quality dominates
// popularity: a heavily downloaded audience tape must not outrank a
// soundboard of the same show at typical download counts.
const (
	soundboardBonus = 100
	matrixBonus     = 30
)

// SourceHintFrom scans identifier+title for recording-technique markers.
// Matrix is checked first because matrix sources are routinely labelled
// "SBD/AUD matrix" and would otherwise read as soundboards.
func SourceHintFrom(identifier, title string) SourceHint {
	text := strings.ToLower(identifier + " " + title)
	switch {
	case strings.Contains(text, "matrix"):
		return SourceMatrix
	case strings.Contains(text, "sbd"), strings.Contains(text, "soundboard"):
		return SourceSoundboard
	case strings.Contains(text, "aud"):
		return SourceAudience
	default:
		return SourceUnknown
	}
}

// Score ranks a recording by signal quality: source-type bonus, then
// log-scaled downloads, then rating, then log-scaled review count.
func Score(doc archive.Document, hint SourceHint) float64 {
	var score float64
	switch hint {
	case SourceSoundboard:
		score += soundboardBonus
	case SourceMatrix:
		score += matrixBonus
	}
	score += math.Log10(float64(doc.Downloads)+1) * 10
	score += float64(doc.AvgRating) * 2
	score += math.Log10(float64(doc.NumReviews) + 1)
	return score
}
