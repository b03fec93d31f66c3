package resolve

// SourceHint is a coarse recording-technique classification inferred from
// identifier/title text.
type SourceHint string

const (
	SourceSoundboard SourceHint = "SBD"
	SourceMatrix     SourceHint = "MATRIX"
	SourceAudience   SourceHint = "AUD"
	SourceUnknown    SourceHint = "UNKNOWN"
)

type Continent string

const (
	ContinentNorthAmerica Continent = "North America"
	ContinentSouthAmerica Continent = "South America"
	ContinentEurope       Continent = "Europe"
	ContinentAsia         Continent = "Asia"
	ContinentAfrica       Continent = "Africa"
	ContinentOceania      Continent = "Oceania"
	ContinentUnknown      Continent = "Unknown"
)

// SpecialTag is an externally sourced event classification correlated onto
// a show by date/venue matching.
type SpecialTag string

const (
	TagOrchestra SpecialTag = "ORCHESTRA"
	TagRave      SpecialTag = "RAVE"
	TagAcoustic  SpecialTag = "ACOUSTIC"
)

// Recording is one classified, date-resolved document: a single uploaded
// audio source for a show.
type Recording struct {
	Identifier string     `json:"identifier"`
	Title      string     `json:"title"`
	ShowDate   string     `json:"showDate"` // ISO YYYY-MM-DD, always set
	ShowKey    string     `json:"showKey"`  // showDate|venueSlug
	Continent  Continent  `json:"continent"`
	ArtworkURL string     `json:"artworkUrl,omitempty"`
	Coverage   string     `json:"-"` // raw coverage text, kept for the show's location breakdown
	Downloads  int64      `json:"downloads"`
	AvgRating  float64    `json:"avgRating"`
	NumReviews int64      `json:"numReviews"`
	Hint       SourceHint `json:"sourceHint"`
	Score      float64    `json:"score"`
}

// Show is a resolved live event: the aggregate of one or more recordings
// believed to capture the same date and venue. A show with zero recordings
// cannot exist; creation and population happen in one aggregation pass.
type Show struct {
	Key        string      `json:"key"`
	Date       string      `json:"showDate"`
	Title      string      `json:"title"` // longest known title, most descriptive heuristic
	City       string      `json:"city,omitempty"`
	State      string      `json:"state,omitempty"`
	Country    string      `json:"country,omitempty"`
	Continent  Continent   `json:"continent"`
	SpecialTag SpecialTag  `json:"specialTag,omitempty"`
	Plays      int64       `json:"plays"` // sum of member download counts
	Recordings []Recording `json:"recordings"`
}

// Best returns the highest-scored recording, the default playback source.
func (s *Show) Best() Recording {
	return s.Recordings[0]
}

// Year returns the show's year, "" if the date is somehow malformed.
func (s *Show) Year() string {
	if len(s.Date) < 4 {
		return ""
	}
	return s.Date[:4]
}
