package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewLoanID returns a timestamp-derived token: the millisecond epoch of t
// followed by eight random hex characters to break same-millisecond ties.
// Example: "1706745600000a3f19c2d0".
func NewLoanID(t time.Time) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return strconv.FormatInt(t.UnixMilli(), 10) + hex.EncodeToString(b)
}
