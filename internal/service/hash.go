package service

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
)

// virtualDiscriminator is mixed into fingerprints of entries that did not
// come from a bank statement (manual rows, reservations), so they can never
// collide with the same data imported as a real bank row.
const virtualDiscriminator = "virtual"

// ContentHash is the duplicate-prevention fingerprint: a pure function of
// (date, description, amount). The same statement row always produces the
// same hash across repeated imports of overlapping periods.
func ContentHash(date, description string, amount float64) string {
	return hashParts(date, description, formatAmount(amount))
}

// VirtualHash fingerprints manual and reservation entries.
func VirtualHash(date, description string, amount float64) string {
	return hashParts(date, description, formatAmount(amount), virtualDiscriminator)
}

func hashParts(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", sum[:])
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
