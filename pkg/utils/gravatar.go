package utils

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

// Gravatar builds the avatar URL for email: 200px, pg rating, mystery-man fallback.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return gravatarBase + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
