package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matchlab/scholarmatch/internal/config"
	"github.com/matchlab/scholarmatch/internal/match"
	"github.com/matchlab/scholarmatch/internal/pipeline"
	"github.com/matchlab/scholarmatch/internal/roster"
	"github.com/matchlab/scholarmatch/internal/scopus"
	"github.com/spf13/cobra"
)

var (
	resolveRoster       string
	resolveOut          string
	resolveDB           string
	resolveResume       bool
	resolveCheckpoint   int
	resolveSources      string
	resolveCache        string
	resolveCollectWorks bool
)

// ResolveSummary is the end-of-run report.
type ResolveSummary struct {
	Processed int    `json:"processed"`
	Resolved  int    `json:"resolved"`
	Skipped   int    `json:"skipped"`
	Works     int    `json:"works,omitempty"`
	Output    string `json:"output"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a roster of researchers against all sources",
	Long: `Run the full resolution flow over a researcher roster (JSONL).

Each researcher is matched through the tiered engine against OpenAlex
candidates; researchers with no accepted match fall back to CrossRef
composite scoring; researchers with a known DOI are cross-linked through
their Scopus author position. A failing source is recorded on the
researcher's output row and the run continues.

Progress is logged to stderr; result rows are appended to the output JSONL
at every checkpoint, so an interrupted run can resume with --resume.

Examples:
  scholarmatch resolve --roster fellows.jsonl
  scholarmatch resolve --roster fellows.jsonl --out results.jsonl --db results.db
  scholarmatch resolve --roster fellows.jsonl --resume --sources openalex,crossref`,
	Run: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveRoster, "roster", "", "Researcher roster JSONL file (required)")
	resolveCmd.Flags().StringVar(&resolveOut, "out", "results.jsonl", "Output results JSONL file")
	resolveCmd.Flags().StringVar(&resolveDB, "db", "", "Optional SQLite results database")
	resolveCmd.Flags().BoolVar(&resolveResume, "resume", false, "Skip researchers already in the output file")
	resolveCmd.Flags().IntVar(&resolveCheckpoint, "checkpoint", 10, "Flush results every N researchers")
	resolveCmd.Flags().StringVar(&resolveSources, "sources", "openalex,scopus,crossref", "Comma-separated sources to use")
	resolveCmd.Flags().StringVar(&resolveCache, "cache", "", "Institution cache file (default: XDG cache dir)")
	resolveCmd.Flags().BoolVar(&resolveCollectWorks, "collect-works", false, "Fetch publication lists for matched profiles (requires --db)")
	resolveCmd.MarkFlagRequired("roster")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	researchers, err := roster.ReadResearchers(resolveRoster)
	if err != nil {
		exitWithError(ExitError, "reading roster: %v", err)
	}
	if len(researchers) == 0 {
		exitWithError(ExitError, "roster %s is empty", resolveRoster)
	}

	sources := map[string]bool{}
	for _, s := range strings.Split(resolveSources, ",") {
		sources[strings.TrimSpace(s)] = true
	}

	oa := newOpenAlexClient()
	p := &pipeline.Pipeline{
		Engine: &match.Engine{},
		Linker: oa,
		Log:    os.Stderr,
	}

	if sources["openalex"] {
		p.Candidates = oa
		p.Engine.Institutions = newInstitutionResolver(resolveCache, oa)
		p.Works = oa
	}
	if sources["crossref"] {
		p.Registry = newCrossRefClient()
	}
	if sources["scopus"] {
		if key := config.GetScopusAPIKey(); key != "" {
			sc := scopus.NewClient(scopus.WithAPIKey(key))
			p.Finder = sc
			p.Positions = sc
		} else {
			fmt.Fprintln(os.Stderr, "warning: no Scopus API key configured, skipping Scopus stages")
		}
	}

	var db *roster.DB
	if resolveDB != "" {
		db, err = roster.OpenDB(resolveDB)
		if err != nil {
			exitWithError(ExitError, "opening results database: %v", err)
		}
		defer db.Close()
	}

	var skip map[string]bool
	if resolveResume {
		skip, err = roster.ResolvedIDs(resolveOut)
		if err != nil {
			exitWithError(ExitError, "reading previous results: %v", err)
		}
	}

	flush := func(rows []roster.Row) error {
		for _, row := range rows {
			if err := roster.AppendRow(resolveOut, row); err != nil {
				return err
			}
			if db != nil {
				if err := db.InsertRow(row); err != nil {
					return err
				}
			}
		}
		return nil
	}

	rows, err := p.Run(ctx, researchers, pipeline.RunOptions{
		Skip:       skip,
		Checkpoint: resolveCheckpoint,
		Flush:      flush,
	})
	if err != nil {
		exitWithError(ExitError, "writing results: %v", err)
	}

	summary := ResolveSummary{
		Processed: len(rows),
		Skipped:   len(researchers) - len(rows),
		Output:    resolveOut,
	}
	for _, row := range rows {
		if row.Resolved {
			summary.Resolved++
		}
	}

	if resolveCollectWorks {
		works := p.CollectWorks(ctx, rows, 0)
		summary.Works = len(works)
		if db != nil {
			if err := db.InsertWorks(works); err != nil {
				exitWithError(ExitError, "storing works: %v", err)
			}
		}
	}

	if humanOutput {
		outputHuman("Processed %d researchers (%d resolved, %d skipped)\nResults: %s\n",
			summary.Processed, summary.Resolved, summary.Skipped, summary.Output)
		if resolveCollectWorks {
			outputHuman("Collected %d works\n", summary.Works)
		}
	} else {
		outputJSON(summary)
	}
}
