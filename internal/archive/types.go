package archive

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Document is one raw row from the archive's advanced search endpoint.
// Fields are sparse and inconsistently typed; anything may be missing.
type Document struct {
	Identifier string     `json:"identifier"`
	Title      string     `json:"title"`
	Date       string     `json:"date"`
	Creator    StringList `json:"creator"`
	Collection StringList `json:"collection"`
	Coverage   string     `json:"coverage"`
	Venue      string     `json:"venue"`
	Downloads  int64      `json:"downloads"`
	AvgRating  Float      `json:"avg_rating"`
	NumReviews int64      `json:"num_reviews"`
}

// StringList tolerates the archive returning either a bare string or an
// array of strings for the same field.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// Joined returns the list as a single space-separated string for substring
// scans.
func (s StringList) Joined() string {
	return strings.Join(s, " ")
}

// Float tolerates numeric fields arriving as JSON strings ("4.75").
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "" || trimmed == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// SearchResult is one page of search output.
type SearchResult struct {
	Docs     []Document `json:"docs"`
	NumFound int64      `json:"numFound"`
}

// File is one entry of an item's file listing.
type File struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Track  string `json:"track"`
	Length string `json:"length"`
	Format string `json:"format"`
}

// ItemMetadata is the per-identifier metadata blob.
type ItemMetadata struct {
	Metadata map[string]json.RawMessage `json:"metadata"`
	Files    []File                     `json:"files"`
}

// DurationSeconds parses the file's length field, which the archive stores
// either as decimal seconds ("312.55") or as "MM:SS" / "HH:MM:SS".
func (f File) DurationSeconds() float64 {
	raw := strings.TrimSpace(f.Length)
	if raw == "" {
		return 0
	}
	if !strings.Contains(raw, ":") {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0
		}
		return v
	}
	parts := strings.Split(raw, ":")
	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0
		}
		total = total*60 + v
	}
	return total
}

// IsAudio reports whether the file is a playable audio track rather than a
// checksum, image or text companion file.
func (f File) IsAudio() bool {
	switch strings.ToLower(f.Format) {
	case "vbr mp3", "mp3", "flac", "ogg vorbis", "ogg", "shorten", "aiff", "wave", "apple lossless", "24bit flac":
		return true
	}
	name := strings.ToLower(f.Name)
	return strings.HasSuffix(name, ".mp3") || strings.HasSuffix(name, ".flac") || strings.HasSuffix(name, ".ogg") || strings.HasSuffix(name, ".shn")
}
