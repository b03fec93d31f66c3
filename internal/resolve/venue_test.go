package resolve

import "testing"

func TestVenueSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Live at The Tivoli on 2023-04-01", "the-tivoli"},
		{"2023-04-01 - Live at Tivoli Theatre", "tivoli-theatre"},
		{"King Gizzard on 2022-10-11", "king-gizzard"},
		{"Red Rocks Amphitheatre", "red-rocks-amphitheatre"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := VenueSlug(tc.title); got != tc.want {
			t.Errorf("VenueSlug(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestVenueSlugTruncated(t *testing.T) {
	long := "Live at The Extraordinarily Long Named Venue Of Many Many Words And Then Some on 2023-01-01"
	slug := VenueSlug(long)
	if len(slug) > maxSlugLen {
		t.Fatalf("slug length %d exceeds %d", len(slug), maxSlugLen)
	}
}

func TestVenueTokensStripNoise(t *testing.T) {
	stop := stopWordSet(DefaultProfile())
	tokens := venueTokens("King Gizzard Live at The Forum 2023-06-10 set 2", stop)

	for _, banned := range []string{"king", "gizzard", "live", "the", "set", "2023", "2"} {
		if _, ok := tokens[banned]; ok {
			t.Errorf("token %q should have been stripped", banned)
		}
	}
	if _, ok := tokens["forum"]; !ok {
		t.Fatalf("expected venue token 'forum', got %v", tokens)
	}
}

func TestTokensSimilar(t *testing.T) {
	stop := stopWordSet(DefaultProfile())

	cases := []struct {
		a, b string
		want bool
	}{
		// wording variants of one venue
		{"Live at The Tivoli on 2023-04-01", "2023-04-01 - Live at Tivoli Theatre", true},
		// clearly different venues
		{"Live at Red Rocks on 2023-04-01", "Live at The Tivoli on 2023-04-01", false},
		// two-token overlap
		{"Bonnaroo Music Festival, Manchester", "Bonnaroo Festival night two", true},
		// empty sets never merge
		{"", "Live at The Tivoli on 2023-04-01", false},
	}

	for _, tc := range cases {
		a := venueTokens(tc.a, stop)
		b := venueTokens(tc.b, stop)
		if got := tokensSimilar(a, b); got != tc.want {
			t.Errorf("tokensSimilar(%q, %q) = %v, want %v (tokens %v / %v)", tc.a, tc.b, got, tc.want, a, b)
		}
	}
}

func TestJaccard(t *testing.T) {
	a := tokenSet{"tivoli": {}, "theatre": {}, "brisbane": {}}
	b := tokenSet{"tivoli": {}, "theatre": {}}
	if j := a.jaccard(b); j < 0.66 || j > 0.67 {
		t.Fatalf("jaccard = %f, want ~0.666", j)
	}
}
