// Package roster handles persistence of resolution inputs and outputs in
// JSONL and SQLite formats.
package roster

import (
	"github.com/matchlab/scholarmatch/internal/crosslink"
	"github.com/matchlab/scholarmatch/internal/match"
	"github.com/matchlab/scholarmatch/internal/researcher"
)

// Row is the resolution outcome for one roster entry. A row exists for every
// researcher processed, including those with no match anywhere.
type Row struct {
	Researcher researcher.Researcher `json:"researcher"`

	// Matches accepted by the disambiguation tiers, in acceptance order.
	Matches []match.MatchedCandidate `json:"matches,omitempty"`

	// Registry fallback result, when the tiers accepted nothing.
	DOI      string `json:"doi,omitempty"`
	DOIScore int    `json:"doi_score,omitempty"`

	// Cross-link through the known DOI, when one was attempted.
	CrossLink *crosslink.Result `json:"cross_link,omitempty"`

	// FirstAppearance is set on the first row that links a given author ID.
	FirstAppearance bool `json:"first_appearance,omitempty"`

	// Resolved reports whether any source produced an identity.
	Resolved bool `json:"resolved"`

	// Errors holds per-source failure messages; failures never abort a run.
	Errors []string `json:"errors,omitempty"`
}

// Work is one publication record collected for an accepted author profile.
type Work struct {
	ResearcherID string `json:"researcher_id"`
	AuthorID     string `json:"author_id"`
	WorkID       string `json:"work_id"`
	DOI          string `json:"doi,omitempty"`
	Title        string `json:"title,omitempty"`
	Year         int    `json:"year,omitempty"`
	Type         string `json:"type,omitempty"`
	CitedByCount int    `json:"cited_by_count,omitempty"`
}

// FindByResearcherID searches rows by researcher ID.
func FindByResearcherID(rows []Row, id string) (int, bool) {
	for i, r := range rows {
		if r.Researcher.ID == id {
			return i, true
		}
	}
	return -1, false
}
