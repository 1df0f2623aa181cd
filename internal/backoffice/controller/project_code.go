package controller

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	prefixLength   = 3
	sequenceDigits = 4
	fallbackPrefix = "PRY"
)

// CodePrefix derives the project code prefix from a project type name: its
// first three letters, upper-cased, with accents folded ("Óbra civil" and
// "Obra" both give "OBR").
func CodePrefix(typeName string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, typeName)
	if err != nil {
		folded = typeName
	}

	var b strings.Builder
	n := 0
	for _, r := range folded {
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if n++; n == prefixLength {
			break
		}
	}
	if n == 0 {
		return fallbackPrefix
	}
	return b.String()
}

// codeStem is the part of a code shared by every project of a prefix and year.
func codeStem(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// NextCode returns the code following latest within stem. An empty or
// unparsable latest code starts the sequence at 1.
func NextCode(stem, latest string) string {
	next := 1
	if strings.HasPrefix(latest, stem) {
		if n, err := strconv.Atoi(strings.TrimPrefix(latest, stem)); err == nil && n >= 0 {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%0*d", stem, sequenceDigits, next)
}
