package resolve

import "strings"

// ArtistProfile names the target artist in the terms the archive and the
// setlist database use for it. Everything the engine does is scoped to one
// profile; opening acts and tribute uploads share search terms, so the
// classifier favors false negatives.
type ArtistProfile struct {
	// CollectionSlug is the artist's canonical archive collection, the
	// strongest relevance signal when present on a document.
	CollectionSlug string

	// Aliases are phrases matched case-insensitively against
	// identifier+title+creator when the collection field is absent.
	Aliases []string

	// NameWords are the artist's own name tokens, stripped from venue token
	// sets so "King Gizzard Live at the Forum" and "The Forum" compare equal.
	NameWords []string
}

// DefaultProfile is the artist this service ships configured for.
func DefaultProfile() ArtistProfile {
	return ArtistProfile{
		CollectionSlug: "KingGizzardAndTheLizardWizard",
		Aliases: []string{
			"king gizzard",
			"lizard wizard",
			"kglw",
		},
		NameWords: []string{"king", "gizzard", "lizard", "wizard"},
	}
}

// baseStopWords are generic title filler discarded from venue token sets:
// articles, prepositions and upload-speak that carry no venue identity.
var baseStopWords = []string{
	"the", "and", "with", "for", "from",
	"live", "set", "show", "shows", "concert", "bootleg",
	"audience", "recording", "soundboard", "matrix", "remaster",
	"night", "day", "tour", "full", "complete",
}

// stopWordSet builds the merged stop-word set for a profile.
func stopWordSet(p ArtistProfile) map[string]struct{} {
	set := make(map[string]struct{}, len(baseStopWords)+len(p.NameWords))
	for _, w := range baseStopWords {
		set[w] = struct{}{}
	}
	for _, w := range p.NameWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
