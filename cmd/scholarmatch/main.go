// Package main provides the scholarmatch CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matchlab/scholarmatch/internal/config"
	"github.com/matchlab/scholarmatch/internal/crossref"
	"github.com/matchlab/scholarmatch/internal/institution"
	"github.com/matchlab/scholarmatch/internal/openalex"
	"github.com/matchlab/scholarmatch/internal/scopus"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scholarmatch",
	Short: "Agent-first researcher identity resolution CLI",
	Long: `scholarmatch resolves researcher identities across bibliographic sources.

Core features:
  - Tiered author disambiguation (exact name, institution, topic overlap)
  - Composite scoring of DOI-registry results for researchers without profiles
  - Position-anchored cross-linking of author IDs through shared documents
  - Cached institution name resolution
  - Roster runs with per-researcher failure isolation and resume

Results are stored as git-versionable JSONL with optional SQLite output.
All commands output JSON by default for AI agent integration.

Environment Variables:
  OPENALEX_MAILTO  Contact address for the OpenAlex polite pool
  SCOPUS_API_KEY   Elsevier API key (required for Scopus stages)
  CROSSREF_MAILTO  Contact address for the CrossRef polite pool`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for API keys and mailto addresses)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// newOpenAlexClient builds the OpenAlex client with the configured contact
// address.
func newOpenAlexClient() *openalex.Client {
	var opts []openalex.ClientOption
	if m := config.GetOpenAlexMailto(); m != "" {
		opts = append(opts, openalex.WithMailto(m))
	}
	return openalex.NewClient(opts...)
}

// newScopusClient builds the Scopus client, exiting when no API key is
// configured.
func newScopusClient() *scopus.Client {
	key := config.GetScopusAPIKey()
	if key == "" {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return scopus.NewClient(scopus.WithAPIKey(key))
}

// newCrossRefClient builds the CrossRef client with the configured contact
// address.
func newCrossRefClient() *crossref.Client {
	var opts []crossref.ClientOption
	if m := config.GetCrossRefMailto(); m != "" {
		opts = append(opts, crossref.WithMailto(m))
	}
	return crossref.NewClient(opts...)
}

// newInstitutionResolver builds the cached institution resolver at the given
// path, or the configured default when path is empty.
func newInstitutionResolver(path string, source institution.Searcher) *institution.Resolver {
	if path == "" {
		path = config.InstitutionCachePath()
	}
	if err := os.MkdirAll(dirOf(path), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	return institution.NewResolver(path, source)
}
