package resolve

import (
	"regexp"
	"strings"
)

// Continent keyword patterns, evaluated in fixed priority order with first
// match winning. Oceania goes first: an Australian tour through "Paris,
// Texas"-style venue names is rarer than US cities named after European
// ones appearing in coverage text.
var continentOrder = []Continent{
	ContinentOceania,
	ContinentNorthAmerica,
	ContinentEurope,
	ContinentAsia,
	ContinentSouthAmerica,
	ContinentAfrica,
}

var continentPatterns = map[Continent]*regexp.Regexp{
	ContinentOceania: regexp.MustCompile(`(?i)\b(australia|new zealand|aotearoa|sydney|melbourne|brisbane|perth|adelaide|hobart|tasmania|canberra|auckland|wellington|christchurch|fremantle|geelong|nsw|victoria park)\b`),
	ContinentNorthAmerica: regexp.MustCompile(`(?i)\b(usa|u\.s\.a?|united states|canada|mexico|new york|los angeles|san francisco|chicago|boston|seattle|portland|austin|denver|atlanta|philadelphia|detroit|nashville|toronto|vancouver|montreal|red rocks|bonnaroo|brooklyn|minneapolis|dallas|houston|phoenix|miami|morrison|oakland|berkeley)\b`),
	ContinentEurope: regexp.MustCompile(`(?i)\b(uk|u\.k\.|england|scotland|wales|ireland|london|manchester|glasgow|bristol|dublin|france|paris|germany|berlin|hamburg|cologne|munich|netherlands|amsterdam|utrecht|belgium|brussels|spain|madrid|barcelona|italy|rome|milan|portugal|lisbon|switzerland|zurich|austria|vienna|poland|warsaw|prague|czech|denmark|copenhagen|sweden|stockholm|norway|oslo|finland|helsinki|greece|athens|luxembourg|iceland|reykjavik)\b`),
	ContinentAsia: regexp.MustCompile(`(?i)\b(japan|tokyo|osaka|nagoya|china|beijing|shanghai|hong kong|singapore|korea|seoul|india|mumbai|delhi|thailand|bangkok|indonesia|jakarta|bali|taiwan|taipei|malaysia|philippines|manila|israel|tel aviv|vietnam)\b`),
	ContinentSouthAmerica: regexp.MustCompile(`(?i)\b(brazil|brasil|sao paulo|rio de janeiro|argentina|buenos aires|chile|santiago|colombia|bogota|peru|lima|uruguay|montevideo|ecuador|paraguay|bolivia)\b`),
	ContinentAfrica: regexp.MustCompile(`(?i)\b(south africa|johannesburg|cape town|morocco|marrakesh|egypt|cairo|kenya|nairobi|nigeria|lagos|tunisia|ghana)\b`),
}

// ContinentOf classifies free text into a continent by keyword match over
// venue, coverage and title, in that concatenation order. Unknown when
// nothing matches; callers treat Unknown as "keep looking" when merging.
func ContinentOf(venue, coverage, title string) Continent {
	text := venue + " " + coverage + " " + title
	for _, cont := range continentOrder {
		if continentPatterns[cont].MatchString(text) {
			return cont
		}
	}
	return ContinentUnknown
}

// Location is a best-effort city/state/country breakdown of coverage text.
type Location struct {
	City    string
	State   string
	Country string
}

// usStates maps US state abbreviations to full names, used to detect and
// normalize American locations in comma-delimited coverage strings.
var usStates = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
}

var usStateNames = func() map[string]string {
	m := make(map[string]string, len(usStates))
	for _, name := range usStates {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// LocationFrom splits comma-delimited coverage text into city/state/country.
// A trailing or middle US state (abbreviated or spelled out) marks the
// location as United States; otherwise the last segment is taken as the
// country and the first as the city.
func LocationFrom(coverage string) Location {
	parts := splitTrim(coverage)
	if len(parts) == 0 {
		return Location{}
	}

	// Prefer the rightmost state match: "New York, New York" names the
	// city first and the state second.
	for i := len(parts) - 1; i >= 0; i-- {
		if name, ok := lookupUSState(parts[i]); ok {
			loc := Location{State: name, Country: "United States"}
			if i > 0 {
				loc.City = parts[0]
			}
			return loc
		}
	}

	if len(parts) == 1 {
		return Location{City: parts[0]}
	}
	return Location{
		City:    parts[0],
		Country: parts[len(parts)-1],
	}
}

func lookupUSState(s string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if name, ok := usStates[upper]; ok {
		return name, true
	}
	if name, ok := usStateNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return name, true
	}
	return "", false
}

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
