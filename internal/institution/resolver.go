// Package institution resolves institution names to source-scoped IDs,
// backed by a persisted cache.
//
// Institution lookups hit the network once per distinct cleaned name. A
// failed or empty lookup is cached with a sentinel so it is never retried;
// clearing the entry from the cache file is the explicit refresh path.
package institution

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Sentinel is the cache value for "looked up, no match". Distinct from a
// missing entry, which means "never looked up".
const Sentinel = "MANUAL_REQUIRED"

// Searcher queries a bibliographic source for institutions by name,
// returning candidate institution IDs in relevance order.
type Searcher interface {
	SearchInstitutions(ctx context.Context, name string) ([]string, error)
}

// qualifierRe strips parenthetical qualifiers and anything after a comma,
// slash, or dash: "MIT (Cambridge)" and "MIT, Cambridge" both clean to "MIT".
var qualifierRe = regexp.MustCompile(`\s*(\(.*?\)|,.*|/.*|-.*)`)

// CleanName reduces an institution name to the cache key form.
func CleanName(name string) string {
	return strings.TrimSpace(qualifierRe.ReplaceAllString(name, ""))
}

// Resolver caches name→ID lookups in a flat JSON file.
type Resolver struct {
	path   string
	source Searcher
	cache  map[string]string
}

// NewResolver loads the cache at path. A missing or unreadable cache file
// is a cold start, never fatal.
func NewResolver(path string, source Searcher) *Resolver {
	r := &Resolver{
		path:   path,
		source: source,
		cache:  make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return r
	}
	if err := json.Unmarshal(data, &r.cache); err != nil {
		// Corrupt cache: start cold rather than fail the run.
		r.cache = make(map[string]string)
	}
	return r
}

// Resolve returns the institution ID for a name, or "" when the source has
// no match. The cleaned name is looked up in the cache before any network
// call; a miss queries the source once and persists the outcome, sentinel
// included, before returning.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	key := CleanName(name)
	if key == "" {
		return "", nil
	}

	if id, ok := r.cache[key]; ok {
		if id == Sentinel {
			return "", nil
		}
		return id, nil
	}

	ids, err := r.source.SearchInstitutions(ctx, key)
	if err != nil || len(ids) == 0 {
		// Cache the negative outcome so the same institution is never
		// retried within or across runs.
		if werr := r.put(key, Sentinel); werr != nil {
			return "", werr
		}
		return "", nil
	}

	if werr := r.put(key, ids[0]); werr != nil {
		return "", werr
	}
	return ids[0], nil
}

// Lookup returns the cached value for a name without touching the network.
// The boolean reports whether the cleaned name has an entry at all.
func (r *Resolver) Lookup(name string) (string, bool) {
	id, ok := r.cache[CleanName(name)]
	return id, ok
}

// put stores an entry and flushes the cache file immediately. Every write
// is durable on its own, so a crash never loses a resolved entry.
func (r *Resolver) put(key, value string) error {
	r.cache[key] = value

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding institution cache: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("writing institution cache: %w", err)
	}
	return nil
}
