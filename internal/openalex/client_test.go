package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchAuthors(t *testing.T) {
	var gotPath, gotSearch, gotMailto string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		gotMailto = r.URL.Query().Get("mailto")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"meta": {"count": 2},
			"results": [
				{
					"id": "https://openalex.org/A1",
					"display_name": "Ana Ruiz Gómez",
					"display_name_alternatives": ["A. Ruiz"],
					"works_count": 12,
					"cited_by_count": 340,
					"ids": {"orcid": "https://orcid.org/0000-0001", "scopus": "7004"},
					"affiliations": [{"institution": {"id": "https://openalex.org/I100"}}],
					"topics": [
						{"display_name": "Mitochondria", "field": {"display_name": "Biochemistry"}},
						{"display_name": "Metabolism", "field": {"display_name": "Medicine"}},
						{"display_name": "Something", "field": {"display_name": "Chemistry"}}
					]
				},
				{"id": "https://openalex.org/A2", "display_name": "Ana Ruiz"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithMailto("dev@example.org"))
	resp, err := c.SearchAuthors(context.Background(), "ana ruiz")
	if err != nil {
		t.Fatalf("SearchAuthors: %v", err)
	}

	if gotPath != "/authors" || gotSearch != "ana ruiz" {
		t.Errorf("request = %s?search=%s, want /authors?search=ana ruiz", gotPath, gotSearch)
	}
	if gotMailto != "dev@example.org" {
		t.Errorf("mailto = %q, want dev@example.org", gotMailto)
	}
	if resp.Meta.Count != 2 || len(resp.Results) != 2 {
		t.Fatalf("got %d results (count %d), want 2", len(resp.Results), resp.Meta.Count)
	}
	if resp.Results[0].IDs.ORCID != "https://orcid.org/0000-0001" {
		t.Errorf("ORCID = %q", resp.Results[0].IDs.ORCID)
	}
}

func TestGetStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"404 is not found", http.StatusNotFound, IsNotFound},
		{"429 is rate limited", http.StatusTooManyRequests, IsRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(WithBaseURL(srv.URL))
			_, err := c.SearchAuthors(context.Background(), "x")
			if err == nil || !tt.check(err) {
				t.Errorf("error = %v, want status %d classification", err, tt.status)
			}
		})
	}
}

func TestGetWorkByDOI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "https://openalex.org/W123",
			"doi": "https://doi.org/10.1/x",
			"authorships": [
				{"author_position": "first", "author": {"id": "https://openalex.org/A1"}},
				{"author_position": "middle", "author": {"id": "https://openalex.org/A2"}},
				{"author_position": "last", "author": {"id": "https://openalex.org/A3"}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	workID, authors, err := c.WorkAuthors(context.Background(), "10.1/x")
	if err != nil {
		t.Fatalf("WorkAuthors: %v", err)
	}
	if workID != "https://openalex.org/W123" {
		t.Errorf("workID = %q", workID)
	}
	if len(authors) != 3 || authors[1] != "https://openalex.org/A2" {
		t.Errorf("authors = %v, want ordered three with A2 second", authors)
	}
}

func TestWorksForAuthorPaginates(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "1" {
			// A full first page signals more to fetch.
			w.Write([]byte(`{"meta": {"count": 26}, "results": [` + fullPage() + `]}`))
			return
		}
		w.Write([]byte(`{"meta": {"count": 26}, "results": [{"id": "https://openalex.org/W26"}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	works, err := c.WorksForAuthor(context.Background(), "https://openalex.org/A1", 0)
	if err != nil {
		t.Fatalf("WorksForAuthor: %v", err)
	}
	if pages != 2 {
		t.Errorf("fetched %d pages, want 2", pages)
	}
	if len(works) != 26 {
		t.Errorf("got %d works, want 26", len(works))
	}
}

// fullPage builds DefaultPerPage work records as a JSON fragment.
func fullPage() string {
	out := ""
	for i := 0; i < DefaultPerPage; i++ {
		if i > 0 {
			out += ","
		}
		out += `{"id": "https://openalex.org/W` + string(rune('a'+i)) + `"}`
	}
	return out
}

func TestSearchInstitutions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"meta": {"count": 1}, "results": [{"id": "https://openalex.org/I100", "display_name": "Universidad de Zaragoza"}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	ids, err := c.SearchInstitutions(context.Background(), "Universidad de Zaragoza")
	if err != nil {
		t.Fatalf("SearchInstitutions: %v", err)
	}
	if len(ids) != 1 || ids[0] != "https://openalex.org/I100" {
		t.Errorf("ids = %v, want [https://openalex.org/I100]", ids)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("https://openalex.org/A5074012726"); got != "A5074012726" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("A5074012726"); got != "A5074012726" {
		t.Errorf("shortID passthrough = %q", got)
	}
}

func TestToCandidate(t *testing.T) {
	a := Author{
		ID:                      "https://openalex.org/A1",
		DisplayName:             "Ana Ruiz",
		DisplayNameAlternatives: []string{"A. Ruiz"},
		WorksCount:              12,
		CitedByCount:            340,
		IDs:                     ExternalIDs{ORCID: "0000-0001", Scopus: "7004"},
		Affiliations: []Affiliation{
			{Institution: Institution{ID: "https://openalex.org/I100"}},
			{Institution: Institution{}}, // missing ID dropped
		},
		Topics: []AuthorTopic{
			{Field: Field{DisplayName: "Biochemistry"}},
			{Field: Field{DisplayName: "Medicine"}},
			{Field: Field{DisplayName: "Chemistry"}},
		},
	}

	c := ToCandidate(a)

	if c.SourceID != a.ID || c.DisplayName != "Ana Ruiz" {
		t.Errorf("identity fields = %+v", c)
	}
	if len(c.InstitutionIDs) != 1 || c.InstitutionIDs[0] != "https://openalex.org/I100" {
		t.Errorf("InstitutionIDs = %v", c.InstitutionIDs)
	}
	if len(c.Topics) != 2 {
		t.Fatalf("Topics = %v, want top 2 only", c.Topics)
	}
	if c.FieldLabel != "Biochemistry" {
		t.Errorf("FieldLabel = %q, want top field", c.FieldLabel)
	}
	if c.ORCID != "0000-0001" || c.OtherSourceID != "7004" {
		t.Errorf("cross-references = %+v", c)
	}
}
