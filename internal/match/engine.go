package match

import (
	"context"
	"sort"

	"github.com/matchlab/scholarmatch/internal/namenorm"
	"github.com/matchlab/scholarmatch/internal/researcher"
)

// InstitutionResolver resolves an institution name to a source-scoped ID.
// An empty ID with a nil error means "no match", which is not a failure.
type InstitutionResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Engine applies the tiered acceptance rules to candidates from one source.
type Engine struct {
	Institutions InstitutionResolver
}

// Run evaluates candidates for one researcher in tier order, recording
// acceptances and gate rejections in the session. It returns the
// researcher's accumulated matches, including ones accepted in earlier calls
// within the same run.
//
// Candidates are evaluated in the order the source returned them; within a
// run each source ID is accepted at most once per researcher.
func (e *Engine) Run(ctx context.Context, s *Session, r researcher.Researcher, candidates []Candidate) []MatchedCandidate {
	e.exactNameTier(s, r, candidates)
	e.institutionTier(ctx, s, r, candidates)
	e.topicTier(s, r, candidates)
	return s.Matches(r.ID)
}

// exactNameTier accepts candidates whose display name, or any alternative
// name, normalizes identically to the researcher's full name. No affiliation
// check: several candidates may pass, since one person can hold duplicate
// source profiles.
func (e *Engine) exactNameTier(s *Session, r researcher.Researcher, candidates []Candidate) {
	target := namenorm.Normalize(r.FullName)

	for _, c := range candidates {
		if s.Accepted(r.ID, c.SourceID) {
			continue
		}
		if namenorm.Normalize(c.DisplayName) == target {
			s.accept(r.ID, c, TierExactName)
			continue
		}
		for _, alt := range c.NameAlternatives {
			if namenorm.Normalize(alt) == target {
				s.accept(r.ID, c, TierExactName)
				break
			}
		}
	}
}

// institutionTier accepts candidates that pass the token gate and share an
// affiliation institution ID with the researcher's resolved institution.
// Candidates failing the gate are rejected for the rest of the run;
// candidates passing the gate but missing the affiliation stay eligible for
// the topic tier.
func (e *Engine) institutionTier(ctx context.Context, s *Session, r researcher.Researcher, candidates []Candidate) {
	targetTokens := namenorm.Tokenize(r.FullName)

	var institutionID string
	if e.Institutions != nil && r.Institution != "" {
		// A resolver failure leaves institutionID empty: the gate still
		// runs (rejections must accumulate) but nothing can be accepted
		// in this tier.
		institutionID, _ = e.Institutions.Resolve(ctx, r.Institution)
	}

	for _, c := range candidates {
		if s.Accepted(r.ID, c.SourceID) || s.Rejected.Rejected(c.SourceID) {
			continue
		}

		if !gateTokens(namenorm.Tokenize(c.DisplayName), targetTokens) {
			s.Rejected.Reject(c.SourceID)
			continue
		}

		if institutionID == "" {
			continue
		}
		for _, id := range c.InstitutionIDs {
			if id == institutionID {
				s.accept(r.ID, c, TierInstitution)
				break
			}
		}
	}
}

// topicTier accepts remaining candidates whose top research fields overlap
// with the best already-accepted candidate. A topic match needs an anchor:
// when nothing has been accepted yet the tier is skipped entirely. Tokens
// are sorted before gating here, making the gate order-insensitive, unlike
// the institution tier.
func (e *Engine) topicTier(s *Session, r researcher.Researcher, candidates []Candidate) {
	targetTokens := namenorm.Tokenize(r.FullName)
	sort.Strings(targetTokens)

	for _, c := range candidates {
		if s.Accepted(r.ID, c.SourceID) || s.Rejected.Rejected(c.SourceID) {
			continue
		}

		candTokens := namenorm.Tokenize(c.DisplayName)
		sort.Strings(candTokens)
		if !gateTokens(candTokens, targetTokens) {
			s.Rejected.Reject(c.SourceID)
			continue
		}

		anchor := s.bestAnchor(r.ID)
		if anchor == nil {
			continue
		}

		if topicsOverlap(anchor.topTopics(), c.topTopics()) {
			s.accept(r.ID, c, TierTopic)
		}
	}
}

// gateTokens reports whether the candidate's name tokens are consistent with
// the target's. The check is asymmetric: a candidate may omit tokens the
// target has (profiles dropping a surname are tolerated) but may never carry
// a token the target lacks.
//
// Per candidate token, by position: a candidate longer than the target
// fails; a single-character token (an initial) must equal the first
// character of the target token at the same position; any other token must
// appear somewhere in the target token list.
func gateTokens(candidate, target []string) bool {
	for i, tok := range candidate {
		if i >= len(target) {
			return false
		}
		if len(tok) < 2 {
			if []rune(tok)[0] != []rune(target[i])[0] {
				return false
			}
			continue
		}
		if !containsToken(target, tok) {
			return false
		}
	}
	return true
}

func containsToken(tokens []string, tok string) bool {
	for _, t := range tokens {
		if t == tok {
			return true
		}
	}
	return false
}

// topicsOverlap reports whether any pair of field labels, one from each
// side, is equal. One match suffices; empty labels never match.
func topicsOverlap(a, b []Topic) bool {
	for _, ta := range a {
		if ta.Field == "" {
			continue
		}
		for _, tb := range b {
			if ta.Field == tb.Field {
				return true
			}
		}
	}
	return false
}
