// Package openalex provides a client for the OpenAlex REST API.
package openalex

// Author is an author profile from the authors endpoint.
type Author struct {
	ID                      string        `json:"id"`
	DisplayName             string        `json:"display_name"`
	DisplayNameAlternatives []string      `json:"display_name_alternatives,omitempty"`
	Affiliations            []Affiliation `json:"affiliations,omitempty"`
	Topics                  []AuthorTopic `json:"topics,omitempty"`
	WorksCount              int           `json:"works_count,omitempty"`
	CitedByCount            int           `json:"cited_by_count,omitempty"`
	IDs                     ExternalIDs   `json:"ids,omitempty"`
	WorksAPIURL             string        `json:"works_api_url,omitempty"`
}

// Affiliation ties an author to an institution.
type Affiliation struct {
	Institution Institution `json:"institution"`
}

// Institution is an institution record.
type Institution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// AuthorTopic is a ranked research topic on an author profile.
type AuthorTopic struct {
	DisplayName string `json:"display_name,omitempty"`
	Field       Field  `json:"field,omitempty"`
}

// Field is the broad research field of a topic.
type Field struct {
	DisplayName string `json:"display_name,omitempty"`
}

// ExternalIDs carries an author's identifiers in other systems.
type ExternalIDs struct {
	ORCID  string `json:"orcid,omitempty"`
	Scopus string `json:"scopus,omitempty"`
}

// Meta is the paging envelope on list responses.
type Meta struct {
	Count   int `json:"count"`
	Page    int `json:"page,omitempty"`
	PerPage int `json:"per_page,omitempty"`
}

// AuthorsResponse is the response from the authors search endpoint.
type AuthorsResponse struct {
	Meta    Meta     `json:"meta"`
	Results []Author `json:"results"`
}

// InstitutionsResponse is the response from the institutions search endpoint.
type InstitutionsResponse struct {
	Meta    Meta          `json:"meta"`
	Results []Institution `json:"results"`
}

// Work is a document record from the works endpoint.
type Work struct {
	ID              string       `json:"id"`
	DOI             string       `json:"doi,omitempty"`
	Title           string       `json:"title,omitempty"`
	PublicationYear int          `json:"publication_year,omitempty"`
	Type            string       `json:"type,omitempty"`
	CitedByCount    int          `json:"cited_by_count,omitempty"`
	Authorships     []Authorship `json:"authorships,omitempty"`
}

// Authorship is one author entry on a work, in document order.
type Authorship struct {
	AuthorPosition string `json:"author_position,omitempty"` // first, middle, last
	Author         Author `json:"author"`
}

// WorksResponse is the response from the works list endpoint.
type WorksResponse struct {
	Meta    Meta   `json:"meta"`
	Results []Work `json:"results"`
}
