// Package pipeline runs the full resolution flow over a researcher roster.
//
// Each researcher is processed in sequence against every configured source.
// A source failure is recorded on the researcher's output row and logged,
// never propagated: one unreachable API or malformed record must not abort a
// long roster run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/matchlab/scholarmatch/internal/crosslink"
	"github.com/matchlab/scholarmatch/internal/match"
	"github.com/matchlab/scholarmatch/internal/openalex"
	"github.com/matchlab/scholarmatch/internal/researcher"
	"github.com/matchlab/scholarmatch/internal/roster"
	"github.com/matchlab/scholarmatch/internal/score"
)

// CandidateSource searches author profiles by name for the tiered engine.
type CandidateSource interface {
	SearchCandidates(ctx context.Context, name string) ([]match.Candidate, error)
}

// AuthorFinder locates an author profile ID in a secondary source by name
// and affiliation. "" with a nil error means no profile found.
type AuthorFinder interface {
	FindAuthorID(ctx context.Context, first, last, affiliation string) (string, error)
}

// PositionSource reports an author's 1-based position on a document, 0 when
// the author is not on it.
type PositionSource interface {
	AuthorPosition(ctx context.Context, doi, authorID string) (int, error)
}

// DocumentSource queries a document registry by author name for the
// composite-scorer fallback.
type DocumentSource interface {
	DocumentsByAuthor(ctx context.Context, author string, rows int) ([]score.Document, error)
}

// WorkLister fetches the publication list of an author profile.
type WorkLister interface {
	WorksForAuthor(ctx context.Context, authorID string, limit int) ([]openalex.Work, error)
}

// Pipeline wires the sources together. Any source other than Candidates may
// be nil, disabling its stage.
type Pipeline struct {
	Candidates CandidateSource
	Engine     *match.Engine
	Finder     AuthorFinder
	Positions  PositionSource
	Linker     crosslink.Source
	Registry   DocumentSource
	Works      WorkLister

	// Log receives per-researcher progress and failure lines. nil silences.
	Log io.Writer

	// seenAuthors tracks linked author IDs across rows for the
	// first-appearance flag.
	seenAuthors map[string]bool
}

// RunOptions controls one roster run.
type RunOptions struct {
	// Skip holds researcher IDs already present in the output, for
	// resuming an interrupted run.
	Skip map[string]bool

	// Checkpoint flushes accumulated rows every N researchers via Flush.
	// 0 flushes only at the end.
	Checkpoint int

	// Flush persists the rows produced so far. Called at checkpoints and
	// once after the final researcher. nil disables persistence.
	Flush func(rows []roster.Row) error
}

// Run resolves every researcher in order and returns their output rows.
// Rows for skipped researchers are not produced. The only error Run returns
// is a Flush failure; source failures are confined to row.Errors.
func (p *Pipeline) Run(ctx context.Context, researchers []researcher.Researcher, opts RunOptions) ([]roster.Row, error) {
	session := match.NewSession()
	if p.seenAuthors == nil {
		p.seenAuthors = make(map[string]bool)
	}

	var rows []roster.Row
	flushed := 0

	for _, r := range researchers {
		if opts.Skip[r.ID] {
			p.logf("skip %s: already resolved", r.ID)
			continue
		}

		row := p.resolveOne(ctx, session, r)
		rows = append(rows, row)

		if opts.Checkpoint > 0 && len(rows)-flushed >= opts.Checkpoint && opts.Flush != nil {
			if err := opts.Flush(rows[flushed:]); err != nil {
				return rows, fmt.Errorf("checkpoint flush: %w", err)
			}
			flushed = len(rows)
		}
	}

	if opts.Flush != nil && flushed < len(rows) {
		if err := opts.Flush(rows[flushed:]); err != nil {
			return rows, fmt.Errorf("final flush: %w", err)
		}
	}
	return rows, nil
}

// resolveOne runs every stage for a single researcher. Stage failures are
// recorded and the remaining stages still run.
func (p *Pipeline) resolveOne(ctx context.Context, session *match.Session, r researcher.Researcher) roster.Row {
	row := roster.Row{Researcher: r}

	// Tiered matching over primary-source candidates.
	var candidates []match.Candidate
	if p.Candidates != nil {
		var err error
		candidates, err = p.Candidates.SearchCandidates(ctx, r.QueryName())
		if err != nil {
			// Treated as zero candidates; the row records the failure.
			p.fail(&row, "candidate search", err)
			candidates = nil
		}
	}
	if p.Engine != nil {
		row.Matches = p.Engine.Run(ctx, session, r, candidates)
	}

	// Registry fallback: only when the tiers accepted nothing.
	if len(row.Matches) == 0 && p.Registry != nil && r.SurnameQuery() != "" {
		docs, err := p.Registry.DocumentsByAuthor(ctx, r.SurnameQuery(), 0)
		if err != nil {
			p.fail(&row, "registry search", err)
		} else if res, ok := score.SelectBest(docs, score.Target{
			FullName:    r.FullName,
			Institution: r.Institution,
			AwardYear:   r.AwardYear,
		}); ok {
			row.DOI = res.Document.DOI
			row.DOIScore = res.Score
		}
	}

	// Cross-link through the known DOI via the secondary source's author
	// position.
	if r.KnownDOI != "" && p.Finder != nil && p.Positions != nil && p.Linker != nil {
		p.crossLink(ctx, r, &row)
	}

	row.Resolved = len(row.Matches) > 0 || row.DOI != "" ||
		(row.CrossLink != nil && row.CrossLink.Found())

	p.logf("resolved %s: %d matches, doi=%q", r.ID, len(row.Matches), row.DOI)
	return row
}

func (p *Pipeline) crossLink(ctx context.Context, r researcher.Researcher, row *roster.Row) {
	otherID, err := p.Finder.FindAuthorID(ctx, r.GivenName, r.SurnameQuery(), r.Institution)
	if err != nil {
		p.fail(row, "author id search", err)
		return
	}
	if otherID == "" {
		return
	}

	pos, err := p.Positions.AuthorPosition(ctx, r.KnownDOI, otherID)
	if err != nil {
		p.fail(row, "author position", err)
		return
	}
	if pos == 0 {
		return
	}

	res, err := crosslink.Link(ctx, p.Linker, r.KnownDOI, pos)
	if err != nil {
		p.fail(row, "cross-link", err)
		return
	}
	row.CrossLink = &res

	if res.Found() && !p.seenAuthors[res.AuthorID] {
		p.seenAuthors[res.AuthorID] = true
		row.FirstAppearance = true
	}
}

// CollectWorks fetches the publication lists of every matched author profile
// on the given rows. Per-profile failures are logged and skipped.
func (p *Pipeline) CollectWorks(ctx context.Context, rows []roster.Row, limit int) []roster.Work {
	if p.Works == nil {
		return nil
	}

	var out []roster.Work
	for _, row := range rows {
		for _, m := range row.Matches {
			works, err := p.Works.WorksForAuthor(ctx, m.SourceID, limit)
			if err != nil {
				p.logf("works for %s (%s): %v", row.Researcher.ID, m.SourceID, err)
				continue
			}
			for _, w := range works {
				out = append(out, roster.Work{
					ResearcherID: row.Researcher.ID,
					AuthorID:     m.SourceID,
					WorkID:       w.ID,
					DOI:          strings.TrimPrefix(w.DOI, "https://doi.org/"),
					Title:        w.Title,
					Year:         w.PublicationYear,
					Type:         w.Type,
					CitedByCount: w.CitedByCount,
				})
			}
		}
	}
	return out
}

// fail records a stage failure on the row and logs it.
func (p *Pipeline) fail(row *roster.Row, stage string, err error) {
	row.Errors = append(row.Errors, fmt.Sprintf("%s: %v", stage, err))
	p.logf("researcher %s: %s: %v", row.Researcher.ID, stage, err)
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Log == nil {
		return
	}
	fmt.Fprintf(p.Log, format+"\n", args...)
}
