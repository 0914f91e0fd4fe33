// Package score ranks document-registry search results against a researcher.
//
// Registry searches (CrossRef-style surname queries) lack structured
// affiliation filters, so each returned document is scored on three signals:
// a perfect name match (mandatory), an affiliation or publisher overlap with
// the researcher's institution, and a creation year near the award year.
package score

import "github.com/matchlab/scholarmatch/internal/namenorm"

const (
	// NoNameMatch is the score of a document without a perfect name match.
	// The floor disqualifies regardless of other signals.
	NoNameMatch = -999

	// YearWindow is the inclusive ± range around the award year.
	YearWindow = 5

	// AcceptThreshold is the minimum score a document needs to win outright.
	AcceptThreshold = 2
)

// Author is one author entry on a registry document.
type Author struct {
	Given        string   `json:"given,omitempty"`
	Family       string   `json:"family,omitempty"`
	Affiliations []string `json:"affiliations,omitempty"`
}

// Document is a candidate publication from the registry.
type Document struct {
	DOI         string   `json:"doi"`
	Title       string   `json:"title,omitempty"`
	Authors     []Author `json:"authors,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	CreatedYear int      `json:"created_year,omitempty"` // 0 when unknown
}

// Target describes the researcher the documents are scored against.
type Target struct {
	FullName    string
	Institution string
	AwardYear   int
}

// Result is the selected document with its composite score.
type Result struct {
	Document Document `json:"document"`
	Score    int      `json:"score"`
}

// tokens returns the combined normalized token set of an author's given and
// family names.
func (a Author) tokens() map[string]bool {
	set := make(map[string]bool)
	for _, t := range namenorm.Tokenize(a.Given + " " + a.Family) {
		set[t] = true
	}
	return set
}

// Score computes the composite score of one document.
//
// A perfect name match requires every token of the target's full name to
// appear in some single author's combined given+family tokens; without it
// the score is the NoNameMatch floor. With it the score is 1, plus 1 when an
// author affiliation or the publisher shares a distinctive institution
// token, plus 1 when the creation year falls within AwardYear±YearWindow.
func Score(doc Document, target Target) int {
	queryTokens := namenorm.Tokenize(target.FullName)

	if !anyAuthorContains(doc.Authors, queryTokens) {
		return NoNameMatch
	}

	score := 1
	if affiliationOrPublisherMatch(doc, target.Institution) {
		score++
	}
	if yearInRange(doc.CreatedYear, target.AwardYear) {
		score++
	}
	return score
}

// SelectBest applies the selection policy to a result set, preserving its
// order. Among documents scoring at least AcceptThreshold, the highest score
// wins, first-encountered breaking ties. Otherwise the first document whose
// author token set exactly equals the target's is accepted with score 1.
// The second return value is false when no document qualifies: a negative
// result, not an error.
func SelectBest(docs []Document, target Target) (Result, bool) {
	queryTokens := namenorm.Tokenize(target.FullName)

	var best *Result
	var fallback *Document

	for i := range docs {
		doc := docs[i]
		if sc := Score(doc, target); sc >= AcceptThreshold {
			if best == nil || sc > best.Score {
				best = &Result{Document: doc, Score: sc}
			}
		}
		if fallback == nil && anyAuthorExact(doc.Authors, queryTokens) {
			fallback = &doc
		}
	}

	if best != nil {
		return *best, true
	}
	if fallback != nil {
		return Result{Document: *fallback, Score: 1}, true
	}
	return Result{}, false
}

// anyAuthorContains reports whether some single author's token set contains
// every query token.
func anyAuthorContains(authors []Author, queryTokens []string) bool {
	if len(queryTokens) == 0 {
		return false
	}
	for _, a := range authors {
		if containsAll(a.tokens(), queryTokens) {
			return true
		}
	}
	return false
}

// anyAuthorExact reports whether some single author's token set equals the
// query token set exactly.
func anyAuthorExact(authors []Author, queryTokens []string) bool {
	if len(queryTokens) == 0 {
		return false
	}
	query := make(map[string]bool, len(queryTokens))
	for _, t := range queryTokens {
		query[t] = true
	}
	for _, a := range authors {
		set := a.tokens()
		if len(set) != len(query) {
			continue
		}
		if containsAll(set, queryTokens) {
			return true
		}
	}
	return false
}

func containsAll(set map[string]bool, tokens []string) bool {
	for _, t := range tokens {
		if !set[t] {
			return false
		}
	}
	return true
}

// affiliationOrPublisherMatch reports whether any author affiliation or the
// publisher shares a distinctive token with the institution name.
func affiliationOrPublisherMatch(doc Document, institution string) bool {
	if institution == "" {
		return false
	}
	for _, a := range doc.Authors {
		for _, aff := range a.Affiliations {
			if namenorm.InstitutionOverlap(institution, aff) {
				return true
			}
		}
	}
	return doc.Publisher != "" && namenorm.InstitutionOverlap(institution, doc.Publisher)
}

func yearInRange(created, award int) bool {
	if created == 0 || award == 0 {
		return false
	}
	return created >= award-YearWindow && created <= award+YearWindow
}
