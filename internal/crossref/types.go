// Package crossref provides a client for the CrossRef REST API.
package crossref

// WorksResponse is the envelope on /works queries.
type WorksResponse struct {
	Status  string `json:"status"`
	Message struct {
		TotalResults int    `json:"total-results"`
		Items        []Work `json:"items"`
	} `json:"message"`
}

// Work is one registry record.
type Work struct {
	DOI       string   `json:"DOI"`
	Title     []string `json:"title"`
	Authors   []Author `json:"author"`
	Publisher string   `json:"publisher"`
	Created   Date     `json:"created"`
}

// Author is one author entry on a work.
type Author struct {
	Given        string        `json:"given"`
	Family       string        `json:"family"`
	Affiliations []Affiliation `json:"affiliation"`
}

// Affiliation is a free-text affiliation on an author entry.
type Affiliation struct {
	Name string `json:"name"`
}

// Date carries CrossRef's date-parts encoding: [[year, month, day]].
type Date struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the year component, or 0 when absent.
func (d Date) Year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

// FirstTitle returns the primary title, or "" when the record has none.
func (w Work) FirstTitle() string {
	if len(w.Title) == 0 {
		return ""
	}
	return w.Title[0]
}
