package resolve

import (
	"strings"
	"testing"

	"tapecrate-api/internal/archive"
)

func TestIsRelevant(t *testing.T) {
	e := NewEngine(DefaultProfile())

	cases := []struct {
		name string
		doc  archive.Document
		want bool
	}{
		{
			name: "collection slug decisive",
			doc: archive.Document{
				Identifier: "opaque-id-123",
				Collection: archive.StringList{"KingGizzardAndTheLizardWizard"},
			},
			want: true,
		},
		{
			name: "alias in title",
			doc:  archive.Document{Title: "KING GIZZARD live in Milwaukee"},
			want: true,
		},
		{
			name: "alias in identifier",
			doc:  archive.Document{Identifier: "kglw2023-06-10.aud"},
			want: true,
		},
		{
			name: "alias in creator",
			doc:  archive.Document{Creator: archive.StringList{"King Gizzard & The Lizard Wizard"}},
			want: true,
		},
		{
			name: "unrelated collection falls through to alias scan",
			doc: archive.Document{
				Collection: archive.StringList{"etree"},
				Title:      "Some opener band live",
			},
			want: false,
		},
		{
			name: "tribute-adjacent noise rejected",
			doc:  archive.Document{Title: "Wizard themed jam night", Creator: archive.StringList{"The Lizards"}},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.IsRelevant(tc.doc); got != tc.want {
				t.Fatalf("IsRelevant = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRecordingFrom(t *testing.T) {
	e := NewEngine(DefaultProfile())

	doc := archive.Document{
		Identifier: "kglw2023-04-01.sbd",
		Title:      "King Gizzard Live at The Tivoli on 2023-04-01",
		Date:       "2023-04-01",
		Coverage:   "Brisbane, Australia",
		Downloads:  5000,
		AvgRating:  4.5,
	}

	rec, ok := e.RecordingFrom(doc)
	if !ok {
		t.Fatalf("expected recording")
	}

	if rec.ShowDate != "2023-04-01" {
		t.Errorf("showDate = %q", rec.ShowDate)
	}
	if rec.ShowKey != "2023-04-01|the-tivoli" {
		t.Errorf("showKey = %q", rec.ShowKey)
	}
	if rec.Hint != SourceSoundboard {
		t.Errorf("hint = %s", rec.Hint)
	}
	if rec.Continent != ContinentOceania {
		t.Errorf("continent = %s", rec.Continent)
	}
	if !strings.HasSuffix(rec.ArtworkURL, doc.Identifier) {
		t.Errorf("artwork url = %q", rec.ArtworkURL)
	}
	if rec.Score <= 100 {
		t.Errorf("score = %f, want soundboard bonus plus popularity", rec.Score)
	}
}

func TestShowKeyDeterministic(t *testing.T) {
	e := NewEngine(DefaultProfile())
	doc := archive.Document{
		Identifier: "kglw2023-04-01.sbd",
		Title:      "King Gizzard Live at The Tivoli on 2023-04-01",
		Date:       "2023-04-01",
	}

	a, _ := e.RecordingFrom(doc)
	b, _ := e.RecordingFrom(doc)
	if a.ShowKey != b.ShowKey {
		t.Fatalf("showKey not deterministic: %q vs %q", a.ShowKey, b.ShowKey)
	}
}
