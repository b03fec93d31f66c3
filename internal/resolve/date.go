package resolve

import (
	"fmt"
	"regexp"
	"strconv"

	"tapecrate-api/internal/archive"
)

// Date patterns tried in order: separated forms (YYYY-MM-DD, YYYY.MM.DD,
// YYYY/MM/DD), then compact YYYYMMDD. Matching is a scan, not an anchor, so
// dates embedded in identifiers and titles are found too.
var (
	separatedDateRe = regexp.MustCompile(`(19|20)(\d{2})[-./](\d{1,2})[-./](\d{1,2})`)
	compactDateRe   = regexp.MustCompile(`(19|20)(\d{2})(\d{2})(\d{2})`)
)

// ExtractShowDate resolves the show date for a document, trying the
// structured date field, the identifier, then the free-text title. A
// document matching none of these cannot be grouped and is dropped by the
// caller.
func ExtractShowDate(doc archive.Document) (string, bool) {
	for _, text := range []string{doc.Date, doc.Identifier, doc.Title} {
		if iso, ok := scanDate(text); ok {
			return iso, true
		}
	}
	return "", false
}

func scanDate(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	if m := separatedDateRe.FindStringSubmatch(text); m != nil {
		if iso, ok := buildISO(m[1]+m[2], m[3], m[4]); ok {
			return iso, true
		}
	}
	if m := compactDateRe.FindStringSubmatch(text); m != nil {
		if iso, ok := buildISO(m[1]+m[2], m[3], m[4]); ok {
			return iso, true
		}
	}
	return "", false
}

// buildISO validates month/day ranges and zero-pads. Rejecting impossible
// dates here keeps garbage like "2023-45-99" identifiers from becoming
// shows.
func buildISO(year, month, day string) (string, bool) {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d-%02d", year, m, d), true
}
