// Package id generates the public identifiers used for loans, repayments,
// approvals and payments.
package id

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random (v4) UUID as 32 lowercase hex characters.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// IsID32 reports whether s has the shape produced by NewID32.
func IsID32(s string) bool { return reHex32.MatchString(s) }
