package resolve

import (
	"math"
	"testing"

	"tapecrate-api/internal/archive"
)

func TestSourceHintFrom(t *testing.T) {
	cases := []struct {
		identifier, title string
		want              SourceHint
	}{
		{"kglw2023-06-10.sbd.flac16", "", SourceSoundboard},
		{"", "Soundboard recording", SourceSoundboard},
		{"kglw2023-06-10.matrix", "", SourceMatrix},
		// matrix outranks the sbd marker inside a matrix label
		{"kglw2023-06-10.sbd.matrix", "", SourceMatrix},
		{"kglw2023-06-10.aud.schoeps", "", SourceAudience},
		{"kglw2023-06-10", "plain title", SourceUnknown},
	}

	for _, tc := range cases {
		if got := SourceHintFrom(tc.identifier, tc.title); got != tc.want {
			t.Errorf("SourceHintFrom(%q, %q) = %s, want %s", tc.identifier, tc.title, got, tc.want)
		}
	}
}

func TestSoundboardOutranksAudience(t *testing.T) {
	// Identical popularity signals; only the hint differs. The soundboard
	// must strictly win, even at high download counts.
	doc := archive.Document{Downloads: 250000, AvgRating: 4.5, NumReviews: 80}

	sbd := Score(doc, SourceSoundboard)
	aud := Score(doc, SourceAudience)

	if sbd <= aud {
		t.Fatalf("soundboard score %f not greater than audience score %f", sbd, aud)
	}
	if gap := sbd - aud; math.Abs(gap-100) > 1e-9 {
		t.Fatalf("bonus gap = %f, want 100", gap)
	}
}

func TestScoreMonotonicInDownloads(t *testing.T) {
	lo := Score(archive.Document{Downloads: 10}, SourceUnknown)
	hi := Score(archive.Document{Downloads: 10000}, SourceUnknown)
	if hi <= lo {
		t.Fatalf("score not monotonic in downloads: %f <= %f", hi, lo)
	}
}

func TestMatrixBetweenSoundboardAndAudience(t *testing.T) {
	doc := archive.Document{Downloads: 1000}
	sbd := Score(doc, SourceSoundboard)
	mtx := Score(doc, SourceMatrix)
	aud := Score(doc, SourceAudience)
	if !(sbd > mtx && mtx > aud) {
		t.Fatalf("ordering violated: sbd=%f matrix=%f aud=%f", sbd, mtx, aud)
	}
}
