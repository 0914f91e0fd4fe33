// Package scopus provides a client for the Elsevier Scopus search API.
package scopus

import "strings"

// SearchResults is the envelope on Scopus search responses.
type SearchResults struct {
	Results struct {
		TotalResults string  `json:"opensearch:totalResults"`
		Entries      []Entry `json:"entry"`
	} `json:"search-results"`
}

// Entry is one record in a Scopus search response. Author search and
// document search share the envelope; the populated fields differ.
type Entry struct {
	Identifier    string         `json:"dc:identifier,omitempty"` // "AUTHOR_ID:7004" or "SCOPUS_ID:..."
	Title         string         `json:"dc:title,omitempty"`
	DOI           string         `json:"prism:doi,omitempty"`
	PreferredName *PreferredName `json:"preferred-name,omitempty"`
	DocumentCount string         `json:"document-count,omitempty"`
	Authors       []EntryAuthor  `json:"author,omitempty"`
}

// PreferredName is the display name on an author entry.
type PreferredName struct {
	GivenName string `json:"given-name,omitempty"`
	Surname   string `json:"surname,omitempty"`
}

// EntryAuthor is one author on a COMPLETE-view document entry, with its
// 1-based sequence.
type EntryAuthor struct {
	AuthID  string `json:"authid,omitempty"`
	Seq     string `json:"@seq,omitempty"`
	Surname string `json:"surname,omitempty"`
}

// AuthorID extracts the bare author ID from the dc:identifier field.
func (e Entry) AuthorID() string {
	if e.Identifier == "" {
		return ""
	}
	parts := strings.Split(e.Identifier, ":")
	return parts[len(parts)-1]
}
