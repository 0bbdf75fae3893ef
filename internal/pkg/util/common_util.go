package util

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseTags splits a comma separated tag string into a de-duplicated, trimmed, lowercase list.
// A leading '#' is dropped. Stored tags and tag filters both pass through here, so matching
// is case-insensitive.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), "#")))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// ParseObjectID returns ok=false for anything that is not a 24 char hex id
func ParseObjectID(hexID string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hexID))
	if err != nil || id.IsZero() {
		return primitive.NilObjectID, false
	}
	return id, true
}

// RandomHex n random bytes, hex encoded
func RandomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// MaxPage caps page numbers so the skip offset cannot overflow
const MaxPage = math.MaxInt32

// Pagination normalizes page and limit, returning the skip offset
func Pagination(page, limit, defaultLimit, maxLimit int) (int, int, int64) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, int64(page-1) * int64(limit)
}

// Pages number of pages needed for total items
func Pages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
