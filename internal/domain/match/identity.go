package match

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"time"
)

// "vs" and " - " split together, so "A vs B - Final" yields three sides and
// hashes like the legacy site ids. A bare " v " only splits titles that have
// neither.
var (
	participantSeparators = regexp.MustCompile(`(?i)\s+vs\.?\s+|\s+-\s+`)
	shortVersusSeparator  = regexp.MustCompile(`(?i)\s+v\s+`)
)

// SplitParticipants breaks a title like "Lakers vs Warriors" into its sides.
// Titles without a separator come back as a single element.
func SplitParticipants(title string) []string {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	parts := []string{title}
	switch {
	case participantSeparators.MatchString(title):
		parts = participantSeparators.Split(title, -1)
	case shortVersusSeparator.MatchString(title):
		parts = shortVersusSeparator.Split(title, -1)
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ResolveID derives the content id for an event: the sorted, lowercased
// participants plus the start day in loc. Order of the sides and the exact
// kickoff minute do not change the result.
func ResolveID(title string, startTimeMs int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	tokens := SplitParticipants(strings.ToLower(title))
	sort.Strings(tokens)

	day := time.UnixMilli(startTimeMs).In(loc).Format("20060102")
	sum := md5.Sum([]byte(strings.Join(tokens, "") + day))
	return hex.EncodeToString(sum[:])
}
