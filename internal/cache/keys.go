package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache tiers. The tier is the first key segment so that the logging
// decorator and metrics can attribute hits without extra bookkeeping.
const (
	TierList  = "list"
	TierShow  = "show"
	TierMeta  = "meta"
	TierStats = "stats"
	TierTags  = "tags"
)

// TTL per tier. Full list responses turn over quickly because the archive
// gains uploads continuously; per-item metadata and play stats are stable;
// the external tag sets change rarely, so hours.
const (
	ListTTL  = 5 * time.Minute
	ShowTTL  = 15 * time.Minute
	MetaTTL  = time.Hour
	StatsTTL = time.Hour
	TagsTTL  = 6 * time.Hour
)

// ListKey hashes a normalized list-request string into a stable key.
// Normalization (sorted filters, trimmed query) is the caller's job; this
// just makes the key fixed-length and map/Redis safe.
func ListKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return TierList + ":" + hex.EncodeToString(sum[:])
}

// ShowKey keys one resolved show's detail payload by its composite
// showDate|venueSlug identity.
func ShowKey(showKey string) string {
	return TierShow + ":" + sanitize(showKey)
}

// MetaKey keys one archive item's metadata blob.
func MetaKey(identifier string) string {
	return TierMeta + ":" + sanitize(identifier)
}

// StatsKey keys one archive item's computed playback stats.
func StatsKey(identifier string) string {
	return TierStats + ":" + sanitize(identifier)
}

// TagsKey keys one special-event tag category's external show list.
func TagsKey(titleTag string) string {
	return TierTags + ":" + sanitize(strings.ToLower(titleTag))
}

// Tier extracts the tier segment from a built key, or "" if malformed.
func Tier(key string) string {
	i := strings.IndexByte(key, ':')
	if i <= 0 {
		return ""
	}
	return key[:i]
}

// sanitize keeps keys single-token: spaces become underscores so Redis CLI
// inspection stays pleasant.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}
