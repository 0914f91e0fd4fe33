// Package crosslink identifies the same author across two sources through a
// shared document.
//
// When name-only matching is unreliable, a researcher's ordinal author
// position on a known document in one source is used to pick the author
// record at the same position in another source's record of that document.
// Author ordering is not guaranteed identical across sources, so the result
// is a best-effort link, never an authoritative identity claim.
package crosslink

import "context"

// Source resolves a DOI to a document and its ordered author identifiers.
type Source interface {
	WorkAuthors(ctx context.Context, doi string) (workID string, authorIDs []string, err error)
}

// Result is a resolved link. Empty fields mean "not found", which is an
// expected outcome, not an error: downstream consumers must treat it as
// unresolved.
type Result struct {
	WorkID   string `json:"work_id,omitempty"`
	AuthorID string `json:"author_id,omitempty"`
}

// Found reports whether the link resolved to an author.
func (r Result) Found() bool { return r.AuthorID != "" }

// Link looks up the document by DOI in the target source and returns the
// author at the given 1-based position. An out-of-range position yields the
// work ID with an empty author ID. Transport failures are returned as
// errors for the caller to isolate; they never mean "no such author".
func Link(ctx context.Context, src Source, doi string, position int) (Result, error) {
	workID, authorIDs, err := src.WorkAuthors(ctx, doi)
	if err != nil {
		return Result{}, err
	}

	idx := position - 1
	if idx < 0 || idx >= len(authorIDs) {
		return Result{WorkID: workID}, nil
	}
	return Result{WorkID: workID, AuthorID: authorIDs[idx]}, nil
}
