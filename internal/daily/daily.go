// internal/daily/daily.go
//
// Deterministic word selection for the daily challenge.
// Every (date, language, length) maps to one word index so that all
// players of a configuration face the same answer on a given day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a configuration and date
// using HMAC(salt, date|language|length) % listLen.
func WordIndex(date time.Time, salt, language string, length, listLen int) int {
	if listLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date) + "|" + language + "|" + strconv.Itoa(length)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(listLen))
}
