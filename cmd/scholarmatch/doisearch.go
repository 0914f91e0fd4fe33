package main

import (
	"context"
	"os"

	"github.com/matchlab/scholarmatch/internal/crossref"
	"github.com/matchlab/scholarmatch/internal/researcher"
	"github.com/matchlab/scholarmatch/internal/score"
	"github.com/spf13/cobra"
)

var (
	doisearchInstitution string
	doisearchYear        int
	doisearchRows        int
)

var doisearchCmd = &cobra.Command{
	Use:   "doisearch <full name>",
	Short: "Find a researcher's DOI through the document registry",
	Long: `Query CrossRef by surname and score the returned documents against the
researcher's full name, institution, and award year.

A document needs a perfect name match plus one corroborating signal
(institution or year) to win; failing that, the first document whose author
name matches the full name exactly is accepted with the minimum score.

Examples:
  scholarmatch doisearch "Ana Ruiz Gómez" --institution "Universidad de Zaragoza" --year 2015
  scholarmatch doisearch "Luis Pérez Soto" --rows 50 --human`,
	Args: cobra.ExactArgs(1),
	Run:  runDoisearch,
}

func init() {
	doisearchCmd.Flags().StringVar(&doisearchInstitution, "institution", "", "Researcher's institution (scoring signal)")
	doisearchCmd.Flags().IntVar(&doisearchYear, "year", 0, "Award year (scoring signal)")
	doisearchCmd.Flags().IntVar(&doisearchRows, "rows", crossref.DefaultRows, "Maximum registry rows to score")
	rootCmd.AddCommand(doisearchCmd)
}

func runDoisearch(cmd *cobra.Command, args []string) {
	r := researcher.FromFullName("", args[0])
	client := newCrossRefClient()

	docs, err := client.DocumentsByAuthor(context.Background(), r.SurnameQuery(), doisearchRows)
	if err != nil {
		exitWithError(ExitError, "querying registry: %v", err)
	}

	result, ok := score.SelectBest(docs, score.Target{
		FullName:    r.FullName,
		Institution: doisearchInstitution,
		AwardYear:   doisearchYear,
	})
	if !ok {
		if humanOutput {
			outputHuman("No qualifying document among %d results\n", len(docs))
		} else {
			outputJSON(ErrorResponse{Error: "no qualifying document"})
		}
		os.Exit(ExitNotFound)
	}

	if humanOutput {
		outputHuman("DOI: %s (score %d)\n  %s\n", result.Document.DOI, result.Score,
			truncateString(result.Document.Title, ListTitleMaxLen))
	} else {
		outputJSON(result)
	}
}
