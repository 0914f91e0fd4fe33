package namenorm

import "strings"

// ParsedName holds the components of a Hispanic-convention full name.
// Surnames are empty strings when the name has too few tokens to carry them.
type ParsedName struct {
	FirstNames      []string
	PaternalSurname string
	MaternalSurname string
}

// ParseHispanicName splits a full name following the two-surname convention:
// the last two tokens are the paternal and maternal surnames, everything
// before them is first names. Names with exactly two tokens carry only a
// paternal surname; single-token names carry none.
//
// Tokens are lowercased but accents are preserved; callers normalize when
// they need accent-insensitive comparison.
//
// This is a heuristic. Compound surnames ("de la Fuente") and nobiliary
// particles mis-split, since the parser has no particle list. Known
// limitation, kept deliberately simple.
func ParseHispanicName(fullName string) ParsedName {
	tokens := strings.Fields(strings.ToLower(fullName))

	switch {
	case len(tokens) < 2:
		return ParsedName{FirstNames: tokens}
	case len(tokens) == 2:
		return ParsedName{
			FirstNames:      tokens[:1],
			PaternalSurname: tokens[1],
		}
	default:
		return ParsedName{
			FirstNames:      tokens[:len(tokens)-2],
			PaternalSurname: tokens[len(tokens)-2],
			MaternalSurname: tokens[len(tokens)-1],
		}
	}
}

// CombinedSurnames returns the paternal and maternal surnames joined with a
// space, or just the paternal surname when there is no maternal one.
func (p ParsedName) CombinedSurnames() string {
	if p.MaternalSurname == "" {
		return p.PaternalSurname
	}
	return p.PaternalSurname + " " + p.MaternalSurname
}
