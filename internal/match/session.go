package match

// Session carries the mutable state of one resolution run: the rejection
// memo and the matches accumulated per researcher. All engine calls within a
// run share one session. Not safe for concurrent use.
type Session struct {
	Rejected RejectionMemo

	matches map[string][]MatchedCandidate // keyed by researcher ID
	order   []string                      // researcher IDs in first-seen order
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		Rejected: make(RejectionMemo),
		matches:  make(map[string][]MatchedCandidate),
	}
}

// Matches returns the accepted candidates for a researcher, in acceptance
// order across all tiers and sources.
func (s *Session) Matches(researcherID string) []MatchedCandidate {
	return s.matches[researcherID]
}

// ResearcherIDs returns the researcher IDs with at least one accepted
// candidate, in first-acceptance order.
func (s *Session) ResearcherIDs() []string {
	return s.order
}

// Accepted reports whether a source ID has already been accepted for the
// researcher in any tier.
func (s *Session) Accepted(researcherID, sourceID string) bool {
	for _, m := range s.matches[researcherID] {
		if m.SourceID == sourceID {
			return true
		}
	}
	return false
}

// accept records a tier acceptance, preserving the at-most-once invariant
// per (researcher, source ID).
func (s *Session) accept(researcherID string, c Candidate, tier Tier) {
	if s.Accepted(researcherID, c.SourceID) {
		return
	}
	if _, seen := s.matches[researcherID]; !seen {
		s.order = append(s.order, researcherID)
	}
	s.matches[researcherID] = append(s.matches[researcherID], MatchedCandidate{
		Candidate: c,
		Tier:      tier,
	})
}

// bestAnchor returns the accepted candidate with the highest relevance for a
// researcher. Unscored candidates count as zero; ties keep the first-seen
// candidate. Returns nil when nothing has been accepted yet.
func (s *Session) bestAnchor(researcherID string) *MatchedCandidate {
	accepted := s.matches[researcherID]
	if len(accepted) == 0 {
		return nil
	}

	best := 0
	bestScore := relevanceOf(accepted[0])
	for i := 1; i < len(accepted); i++ {
		if sc := relevanceOf(accepted[i]); sc > bestScore {
			best, bestScore = i, sc
		}
	}
	return &accepted[best]
}

func relevanceOf(m MatchedCandidate) float64 {
	if m.Relevance == nil {
		return 0
	}
	return *m.Relevance
}
