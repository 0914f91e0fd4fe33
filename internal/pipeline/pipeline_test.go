package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matchlab/scholarmatch/internal/match"
	"github.com/matchlab/scholarmatch/internal/openalex"
	"github.com/matchlab/scholarmatch/internal/researcher"
	"github.com/matchlab/scholarmatch/internal/roster"
	"github.com/matchlab/scholarmatch/internal/score"
)

type fakeCandidates struct {
	byName map[string][]match.Candidate
	err    error
	calls  int
}

func (f *fakeCandidates) SearchCandidates(_ context.Context, name string) ([]match.Candidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byName[name], nil
}

type fakeRegistry struct {
	docs  []score.Document
	err   error
	calls int
}

func (f *fakeRegistry) DocumentsByAuthor(_ context.Context, author string, rows int) ([]score.Document, error) {
	f.calls++
	return f.docs, f.err
}

type fakeFinder struct {
	id  string
	err error
}

func (f *fakeFinder) FindAuthorID(_ context.Context, first, last, affiliation string) (string, error) {
	return f.id, f.err
}

type fakePositions struct {
	pos int
	err error
}

func (f *fakePositions) AuthorPosition(_ context.Context, doi, authorID string) (int, error) {
	return f.pos, f.err
}

type fakeLinker struct {
	workID  string
	authors []string
	err     error
}

func (f *fakeLinker) WorkAuthors(_ context.Context, doi string) (string, []string, error) {
	return f.workID, f.authors, f.err
}

type fakeWorks struct {
	works []openalex.Work
	err   error
}

func (f *fakeWorks) WorksForAuthor(_ context.Context, authorID string, limit int) ([]openalex.Work, error) {
	return f.works, f.err
}

func anaRoster() []researcher.Researcher {
	return []researcher.Researcher{{
		ID:              "r1",
		GivenName:       "Ana",
		PaternalSurname: "Ruiz",
		MaternalSurname: "Gómez",
		FullName:        "Ana Ruiz Gómez",
		Institution:     "Universidad de Zaragoza",
		AwardYear:       2015,
	}}
}

func TestRunExactMatchSkipsRegistry(t *testing.T) {
	registry := &fakeRegistry{}
	p := &Pipeline{
		Candidates: &fakeCandidates{byName: map[string][]match.Candidate{
			"Ana Ruiz": {{SourceID: "A1", DisplayName: "Ana Ruiz Gómez"}},
		}},
		Engine:   &match.Engine{},
		Registry: registry,
	}

	rows, err := p.Run(context.Background(), anaRoster(), RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 1 || !rows[0].Resolved {
		t.Fatalf("rows = %+v", rows)
	}
	if len(rows[0].Matches) != 1 || rows[0].Matches[0].Tier != match.TierExactName {
		t.Errorf("matches = %+v", rows[0].Matches)
	}
	if registry.calls != 0 {
		t.Errorf("registry queried %d times, want 0 when tiers matched", registry.calls)
	}
}

func TestRunRegistryFallback(t *testing.T) {
	registry := &fakeRegistry{docs: []score.Document{
		{
			DOI: "10.1/alpha",
			Authors: []score.Author{{
				Given: "Ana", Family: "Ruiz Gómez",
				Affiliations: []string{"Universidad de Zaragoza"},
			}},
			CreatedYear: 2016,
		},
	}}
	p := &Pipeline{
		Candidates: &fakeCandidates{},
		Engine:     &match.Engine{},
		Registry:   registry,
	}

	rows, err := p.Run(context.Background(), anaRoster(), RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	row := rows[0]
	if row.DOI != "10.1/alpha" || row.DOIScore != 3 {
		t.Errorf("fallback = %q score %d, want 10.1/alpha score 3", row.DOI, row.DOIScore)
	}
	if !row.Resolved {
		t.Error("registry hit should mark the row resolved")
	}
}

func TestRunSourceFailureIsolated(t *testing.T) {
	var log strings.Builder
	p := &Pipeline{
		Candidates: &fakeCandidates{err: errors.New("boom")},
		Engine:     &match.Engine{},
		Registry:   &fakeRegistry{err: errors.New("also down")},
		Log:        &log,
	}

	rs := append(anaRoster(), researcher.Researcher{ID: "r2", FullName: "Luis Pérez Soto",
		GivenName: "Luis", PaternalSurname: "Pérez", MaternalSurname: "Soto"})
	rows, err := p.Run(context.Background(), rs, RunOptions{})
	if err != nil {
		t.Fatalf("Run must not fail on source errors: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: the run continues past failures", len(rows))
	}
	for _, row := range rows {
		if row.Resolved {
			t.Errorf("row %s resolved with every source down", row.Researcher.ID)
		}
		if len(row.Errors) != 2 {
			t.Errorf("row %s errors = %v, want candidate + registry failures", row.Researcher.ID, row.Errors)
		}
	}
	if !strings.Contains(log.String(), "boom") {
		t.Errorf("log = %q, want failure lines", log.String())
	}
}

func TestRunCrossLinkFirstAppearance(t *testing.T) {
	p := &Pipeline{
		Candidates: &fakeCandidates{},
		Engine:     &match.Engine{},
		Finder:     &fakeFinder{id: "7004"},
		Positions:  &fakePositions{pos: 2},
		Linker:     &fakeLinker{workID: "W1", authors: []string{"A1", "A2", "A3"}},
	}

	rs := []researcher.Researcher{
		{ID: "r1", GivenName: "Ana", PaternalSurname: "Ruiz", FullName: "Ana Ruiz", KnownDOI: "10.1/x"},
		{ID: "r2", GivenName: "Ana", PaternalSurname: "Ruiz", FullName: "Ana Ruiz", KnownDOI: "10.1/x"},
	}
	rows, err := p.Run(context.Background(), rs, RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	first := rows[0]
	if first.CrossLink == nil || first.CrossLink.AuthorID != "A2" {
		t.Fatalf("cross-link = %+v, want author at position 2", first.CrossLink)
	}
	if !first.FirstAppearance {
		t.Error("first row linking A2 should carry the first-appearance flag")
	}
	if rows[1].FirstAppearance {
		t.Error("second row linking A2 must not carry the flag")
	}
	if !first.Resolved {
		t.Error("a found cross-link should mark the row resolved")
	}
}

func TestRunCrossLinkNoPosition(t *testing.T) {
	linker := &fakeLinker{workID: "W1", authors: []string{"A1"}}
	p := &Pipeline{
		Candidates: &fakeCandidates{},
		Engine:     &match.Engine{},
		Finder:     &fakeFinder{id: "7004"},
		Positions:  &fakePositions{pos: 0},
		Linker:     linker,
	}

	rs := []researcher.Researcher{{ID: "r1", FullName: "Ana Ruiz", KnownDOI: "10.1/x"}}
	rows, _ := p.Run(context.Background(), rs, RunOptions{})
	if rows[0].CrossLink != nil {
		t.Errorf("cross-link = %+v, want none when the author is not on the document", rows[0].CrossLink)
	}
}

func TestRunResumeSkips(t *testing.T) {
	candidates := &fakeCandidates{}
	p := &Pipeline{Candidates: candidates, Engine: &match.Engine{}}

	rows, err := p.Run(context.Background(), anaRoster(), RunOptions{Skip: map[string]bool{"r1": true}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 0 || candidates.calls != 0 {
		t.Errorf("rows = %d, searches = %d; resumed researcher must be untouched", len(rows), candidates.calls)
	}
}

func TestRunCheckpointFlush(t *testing.T) {
	var batches [][]roster.Row
	p := &Pipeline{Candidates: &fakeCandidates{}, Engine: &match.Engine{}}

	rs := []researcher.Researcher{
		{ID: "r1", FullName: "A B"}, {ID: "r2", FullName: "C D"}, {ID: "r3", FullName: "E F"},
	}
	_, err := p.Run(context.Background(), rs, RunOptions{
		Checkpoint: 2,
		Flush: func(rows []roster.Row) error {
			batch := make([]roster.Row, len(rows))
			copy(batch, rows)
			batches = append(batches, batch)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("got %d flushes, want checkpoint + final", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[1]) != 1 {
		t.Errorf("batch sizes = %d, %d, want 2, 1", len(batches[0]), len(batches[1]))
	}
	if batches[1][0].Researcher.ID != "r3" {
		t.Errorf("final flush row = %s, want r3 only", batches[1][0].Researcher.ID)
	}
}

func TestRunFlushError(t *testing.T) {
	p := &Pipeline{Candidates: &fakeCandidates{}, Engine: &match.Engine{}}

	_, err := p.Run(context.Background(), anaRoster(), RunOptions{
		Flush: func([]roster.Row) error { return errors.New("disk full") },
	})
	if err == nil {
		t.Fatal("flush failures must surface")
	}
}

func TestCollectWorks(t *testing.T) {
	p := &Pipeline{
		Works: &fakeWorks{works: []openalex.Work{
			{
				ID:              "https://openalex.org/W1",
				DOI:             "https://doi.org/10.1/a",
				Title:           "Paper",
				PublicationYear: 2019,
				Type:            "article",
				CitedByCount:    7,
			},
		}},
	}

	rows := []roster.Row{{
		Researcher: researcher.Researcher{ID: "r1"},
		Matches: []match.MatchedCandidate{
			{Candidate: match.Candidate{SourceID: "A1"}},
		},
	}}

	works := p.CollectWorks(context.Background(), rows, 0)
	if len(works) != 1 {
		t.Fatalf("got %d works, want 1", len(works))
	}
	w := works[0]
	if w.ResearcherID != "r1" || w.AuthorID != "A1" || w.WorkID != "https://openalex.org/W1" {
		t.Errorf("identity fields = %+v", w)
	}
	if w.DOI != "10.1/a" {
		t.Errorf("DOI = %q, want prefix stripped", w.DOI)
	}
	if w.Year != 2019 || w.CitedByCount != 7 || w.Type != "article" {
		t.Errorf("metadata = %+v", w)
	}
}

func TestCollectWorksFailureIsolated(t *testing.T) {
	var log strings.Builder
	p := &Pipeline{Works: &fakeWorks{err: errors.New("down")}, Log: &log}

	rows := []roster.Row{{
		Researcher: researcher.Researcher{ID: "r1"},
		Matches:    []match.MatchedCandidate{{Candidate: match.Candidate{SourceID: "A1"}}},
	}}
	works := p.CollectWorks(context.Background(), rows, 0)
	if len(works) != 0 {
		t.Errorf("works = %+v, want none", works)
	}
	if !strings.Contains(log.String(), "down") {
		t.Errorf("log = %q, want the failure recorded", log.String())
	}
}
