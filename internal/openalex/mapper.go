package openalex

import (
	"context"

	"github.com/matchlab/scholarmatch/internal/match"
)

// ToCandidate reduces an author profile to the fields the disambiguation
// engine compares on. Only the top two topics carry over.
func ToCandidate(a Author) match.Candidate {
	c := match.Candidate{
		SourceID:         a.ID,
		DisplayName:      a.DisplayName,
		NameAlternatives: a.DisplayNameAlternatives,
		WorksCount:       a.WorksCount,
		CitedByCount:     a.CitedByCount,
		ORCID:            a.IDs.ORCID,
		OtherSourceID:    a.IDs.Scopus,
	}

	for _, aff := range a.Affiliations {
		if aff.Institution.ID != "" {
			c.InstitutionIDs = append(c.InstitutionIDs, aff.Institution.ID)
		}
	}

	for i, t := range a.Topics {
		if i >= 2 {
			break
		}
		c.Topics = append(c.Topics, match.Topic{Field: t.Field.DisplayName, Rank: i + 1})
	}
	if len(c.Topics) > 0 {
		c.FieldLabel = c.Topics[0].Field
	}

	return c
}

// SearchCandidates searches authors by name and maps the results into
// engine candidates, preserving the source's result order.
func (c *Client) SearchCandidates(ctx context.Context, name string) ([]match.Candidate, error) {
	resp, err := c.SearchAuthors(ctx, name)
	if err != nil {
		return nil, err
	}

	candidates := make([]match.Candidate, len(resp.Results))
	for i, a := range resp.Results {
		candidates[i] = ToCandidate(a)
	}
	return candidates, nil
}
