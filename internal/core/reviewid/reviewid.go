// Package reviewid derives the content address of a review
// The id is md5 over author, content and publication day joined by "|".
// It is a dedup key, not a security primitive.
package reviewid

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

const (
	sep       = "|"
	dayLayout = "2006-01-02"
)

// Of returns the lowercase hex id of a review. Rating and scrape date never take part
func Of(author, content string, publicationDate time.Time) string {
	sum := md5.Sum([]byte(author + sep + content + sep + publicationDate.UTC().Format(dayLayout)))
	return hex.EncodeToString(sum[:])
}

// Valid reports whether id has the shape Of produces
func Valid(id string) bool {
	if len(id) != 2*md5.Size {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
