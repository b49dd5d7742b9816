// Package domain provides type-safe identifiers parsed at trust boundaries.
package domain

import (
	"strings"

	dErrors "progreso/pkg/domain-errors"
)

// Prefix is the single-letter nationality/entity marker of a cédula.
type Prefix string

const (
	PrefixNone       Prefix = ""
	PrefixVenezuelan Prefix = "V"
	PrefixForeign    Prefix = "E"
	PrefixPassport   Prefix = "P"
	PrefixGovernment Prefix = "G"
	PrefixJuridical  Prefix = "J"
)

// Digit-run bounds for the accepted format, inclusive.
const (
	MinDigits = 7
	MaxDigits = 9
)

// FormatHint is the user-facing description of the accepted format.
const FormatHint = "the identifier must be an optional letter V, E, P, G or J followed by 7 to 9 digits, for example V12345678"

// NationalID is an immutable citizen/entity identifier: an optional prefix
// letter followed by a bounded run of decimal digits.
//
// Invariants:
//   - prefix is PrefixNone or one of V, E, P, G, J
//   - digits holds between MinDigits and MaxDigits ASCII digits
//
// The zero value is not a valid identifier; obtain one from ParseNationalID.
type NationalID struct {
	prefix Prefix
	digits string
}

// ParseNationalID trims and upper-cases raw, then accepts it only when the
// whole string is an optional recognized prefix followed by 7 to 9 digits.
// Failures carry dErrors.CodeInvalidInput.
func ParseNationalID(raw string) (NationalID, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return NationalID{}, dErrors.New(dErrors.CodeInvalidInput, "identifier cannot be empty")
	}

	prefix := PrefixNone
	digits := s
	if !isDigit(s[0]) {
		p := Prefix(s[:1])
		if !p.IsRecognized() {
			return NationalID{}, dErrors.New(dErrors.CodeInvalidInput, "unrecognized identifier prefix")
		}
		prefix = p
		digits = s[1:]
	}

	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return NationalID{}, dErrors.New(dErrors.CodeInvalidInput, "identifier must contain only digits after the prefix")
		}
	}
	if len(digits) < MinDigits || len(digits) > MaxDigits {
		return NationalID{}, dErrors.New(dErrors.CodeInvalidInput, "identifier must have 7 to 9 digits")
	}

	return NationalID{prefix: prefix, digits: digits}, nil
}

// IsRecognized reports whether p is one of the accepted prefix letters.
func (p Prefix) IsRecognized() bool {
	switch p {
	case PrefixVenezuelan, PrefixForeign, PrefixPassport, PrefixGovernment, PrefixJuridical:
		return true
	}
	return false
}

func (id NationalID) Prefix() Prefix { return id.prefix }

// Digits returns the numeric portion used to address the external services.
func (id NationalID) Digits() string { return id.digits }

// String returns the normalized identifier as entered, prefix included.
func (id NationalID) String() string { return string(id.prefix) + id.digits }

func (id NationalID) IsNil() bool { return id.digits == "" }

// Redacted returns a log-safe form showing only the last 4 digits.
func (id NationalID) Redacted() string {
	if len(id.digits) <= 4 {
		return "****"
	}
	return "****" + id.digits[len(id.digits)-4:]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
