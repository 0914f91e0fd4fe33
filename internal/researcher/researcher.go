// Package researcher defines the core domain types for resolution requests.
package researcher

import (
	"strings"

	"github.com/matchlab/scholarmatch/internal/namenorm"
)

// Researcher is one identity-resolution request: a named individual to be
// matched against author records in the external bibliographic sources.
type Researcher struct {
	// Identity
	ID string `json:"id"` // Caller-assigned, unique within a roster

	// Name
	GivenName       string `json:"given_name"`
	PaternalSurname string `json:"paternal_surname,omitempty"`
	MaternalSurname string `json:"maternal_surname,omitempty"`
	FullName        string `json:"full_name"` // Display form: given name plus surnames

	// Context signals
	Country     string `json:"country,omitempty"`
	Institution string `json:"institution,omitempty"`
	AwardYear   int    `json:"award_year,omitempty"` // Scholarship or award year

	// KnownDOI is a document the researcher is known to have authored,
	// used for position-anchored cross-linking.
	KnownDOI string `json:"known_doi,omitempty"`
}

// FromFullName builds a Researcher from a display name, filling the surname
// fields with the two-surname heuristic.
func FromFullName(id, fullName string) Researcher {
	parsed := namenorm.ParseHispanicName(fullName)
	return Researcher{
		ID:              id,
		GivenName:       strings.Join(parsed.FirstNames, " "),
		PaternalSurname: parsed.PaternalSurname,
		MaternalSurname: parsed.MaternalSurname,
		FullName:        fullName,
	}
}

// QueryName returns the name used for author search queries: given name plus
// paternal surname. Sources match more reliably on this shorter form; the
// full name is still used for candidate comparison.
func (r Researcher) QueryName() string {
	if r.PaternalSurname == "" {
		return r.FullName
	}
	return strings.TrimSpace(r.GivenName + " " + r.PaternalSurname)
}

// SurnameQuery returns the combined surnames used for document-registry
// author queries.
func (r Researcher) SurnameQuery() string {
	if r.MaternalSurname == "" {
		return r.PaternalSurname
	}
	return r.PaternalSurname + " " + r.MaternalSurname
}
