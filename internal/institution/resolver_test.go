package institution

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type countingSearcher struct {
	ids   []string
	err   error
	calls int
}

func (s *countingSearcher) SearchInstitutions(context.Context, string) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"MIT (Cambridge)", "MIT"},
		{"MIT, Cambridge", "MIT"},
		{"MIT/Lincoln Laboratory", "MIT"},
		{"MIT - Media Lab", "MIT"},
		{"  Universidad de Zaragoza  ", "Universidad de Zaragoza"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanName(tt.input); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveCachesAcrossVariants(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	src := &countingSearcher{ids: []string{"I42"}}
	r := NewResolver(path, src)

	id, err := r.Resolve(context.Background(), "MIT (Cambridge)")
	if err != nil || id != "I42" {
		t.Fatalf("Resolve = %q, %v, want I42", id, err)
	}

	// A differently qualified variant cleans to the same key: cache hit,
	// zero further network calls.
	id, err = r.Resolve(context.Background(), "MIT, Cambridge")
	if err != nil || id != "I42" {
		t.Fatalf("Resolve variant = %q, %v, want I42", id, err)
	}
	if src.calls != 1 {
		t.Errorf("source queried %d times, want 1", src.calls)
	}
}

func TestResolveSentinelNeverRetries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	src := &countingSearcher{ids: nil} // zero results
	r := NewResolver(path, src)

	for i := 0; i < 3; i++ {
		id, err := r.Resolve(context.Background(), "Nowhere University")
		if err != nil || id != "" {
			t.Fatalf("Resolve = %q, %v, want empty", id, err)
		}
	}
	if src.calls != 1 {
		t.Errorf("source queried %d times, want 1 (sentinel cached)", src.calls)
	}

	if v, ok := r.Lookup("Nowhere University"); !ok || v != Sentinel {
		t.Errorf("Lookup = %q, %v, want sentinel entry", v, ok)
	}
}

func TestResolveSourceErrorCachesSentinel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	src := &countingSearcher{err: errors.New("503")}
	r := NewResolver(path, src)

	id, err := r.Resolve(context.Background(), "Flaky University")
	if err != nil || id != "" {
		t.Fatalf("Resolve = %q, %v, want empty with nil error", id, err)
	}
	if v, ok := r.Lookup("Flaky University"); !ok || v != Sentinel {
		t.Errorf("Lookup = %q, %v, want sentinel after source error", v, ok)
	}
}

func TestCachePersistsAcrossResolvers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	src := &countingSearcher{ids: []string{"I42"}}
	r := NewResolver(path, src)
	if _, err := r.Resolve(context.Background(), "MIT"); err != nil {
		t.Fatal(err)
	}

	// A fresh resolver on the same file serves from disk.
	src2 := &countingSearcher{ids: []string{"WRONG"}}
	r2 := NewResolver(path, src2)
	id, err := r2.Resolve(context.Background(), "MIT")
	if err != nil || id != "I42" {
		t.Fatalf("Resolve after reload = %q, %v, want I42", id, err)
	}
	if src2.calls != 0 {
		t.Errorf("source queried %d times after reload, want 0", src2.calls)
	}
}

func TestCorruptCacheIsColdStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	src := &countingSearcher{ids: []string{"I42"}}
	r := NewResolver(path, src)
	id, err := r.Resolve(context.Background(), "MIT")
	if err != nil || id != "I42" {
		t.Fatalf("Resolve = %q, %v, want I42 from cold start", id, err)
	}
	if src.calls != 1 {
		t.Errorf("source queried %d times, want 1", src.calls)
	}
}

func TestEmptyNameResolvesToNothing(t *testing.T) {
	src := &countingSearcher{ids: []string{"I42"}}
	r := NewResolver(filepath.Join(t.TempDir(), "cache.json"), src)

	id, err := r.Resolve(context.Background(), "  (somewhere) ")
	if err != nil || id != "" {
		t.Fatalf("Resolve = %q, %v, want empty", id, err)
	}
	if src.calls != 0 {
		t.Errorf("source queried %d times for empty cleaned name, want 0", src.calls)
	}
}
