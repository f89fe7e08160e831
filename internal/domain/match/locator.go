package match

import (
	"encoding/base64"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrInvalidLocator = crerr.New("invalid stream locator")

// EncodeLocator hides a raw stream link from casual page scraping. It is plain
// base64 and is not a protection for the link.
func EncodeLocator(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

func DecodeLocator(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", crerr.Wrapf(ErrInvalidLocator, "decode %q: %v", encoded, err)
	}
	return string(raw), nil
}
