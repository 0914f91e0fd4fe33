// Package match implements the tiered candidate disambiguation engine.
//
// Given a researcher and the author candidates one bibliographic source
// returned for their name, the engine decides which candidates represent the
// same real person. Candidates are evaluated in three strictly ordered tiers:
// exact name, institution affiliation, and topic overlap. A candidate
// accepted in an earlier tier never reappears in a later one, and a
// candidate rejected by the name-token gate stays rejected for the rest of
// the run.
package match

// Tier identifies which matching strategy accepted a candidate.
type Tier string

const (
	TierExactName   Tier = "exact_name"
	TierInstitution Tier = "institution"
	TierTopic       Tier = "topic"
)

// Topic is a ranked research field attached to a candidate profile.
// Only the top two topics of a profile participate in matching.
type Topic struct {
	Field string `json:"field"`
	Rank  int    `json:"rank"`
}

// Candidate is an author profile returned by one bibliographic source,
// reduced to the fields the engine compares on.
type Candidate struct {
	SourceID         string   `json:"source_id"` // Source-scoped stable identifier
	DisplayName      string   `json:"display_name"`
	NameAlternatives []string `json:"name_alternatives,omitempty"`
	InstitutionIDs   []string `json:"institution_ids,omitempty"`
	Topics           []Topic  `json:"topics,omitempty"`
	FieldLabel       string   `json:"field_label,omitempty"` // Top research field

	// Profile metrics carried through to the output rows.
	WorksCount   int `json:"works_count,omitempty"`
	CitedByCount int `json:"cited_by_count,omitempty"`

	// Cross-references into other identifier systems.
	ORCID         string `json:"orcid,omitempty"`
	OtherSourceID string `json:"other_source_id,omitempty"`
}

// topTopics returns at most the two highest-ranked topics.
func (c Candidate) topTopics() []Topic {
	if len(c.Topics) > 2 {
		return c.Topics[:2]
	}
	return c.Topics
}

// MatchedCandidate is a Candidate accepted by one tier.
type MatchedCandidate struct {
	Candidate
	Tier Tier `json:"tier"`

	// Relevance is only meaningful when ranking topic-tier anchors;
	// nil means unscored.
	Relevance *float64 `json:"relevance,omitempty"`
}

// RejectionMemo records source IDs that failed the name-token gate.
// Rejection is monotonic: once added, an ID is treated as rejected without
// re-running the gate. The memo is source-scoped, not researcher-scoped, so
// an ID rejected while evaluating one researcher is skipped for every
// researcher in the run.
type RejectionMemo map[string]bool

// Reject marks a source ID as rejected.
func (m RejectionMemo) Reject(sourceID string) { m[sourceID] = true }

// Rejected reports whether a source ID has been rejected.
func (m RejectionMemo) Rejected(sourceID string) bool { return m[sourceID] }
