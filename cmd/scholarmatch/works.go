package main

import (
	"context"
	"strings"

	"github.com/matchlab/scholarmatch/internal/openalex"
	"github.com/spf13/cobra"
)

var worksLimit int

var worksCmd = &cobra.Command{
	Use:   "works <author-id>",
	Short: "List works for an author profile",
	Long: `List the publications of an OpenAlex author profile.

Both bare IDs ("A5074012726") and web-profile URLs are accepted.

Examples:
  scholarmatch works A5074012726
  scholarmatch works https://openalex.org/A5074012726 --limit 50 --human`,
	Args: cobra.ExactArgs(1),
	Run:  runWorks,
}

func init() {
	worksCmd.Flags().IntVar(&worksLimit, "limit", openalex.DefaultWorksLimit, "Maximum works to fetch")
	rootCmd.AddCommand(worksCmd)
}

func runWorks(cmd *cobra.Command, args []string) {
	client := newOpenAlexClient()

	works, err := client.WorksForAuthor(context.Background(), args[0], worksLimit)
	if err != nil {
		exitWithError(ExitError, "fetching works: %v", err)
	}

	if humanOutput {
		if len(works) == 0 {
			outputHuman("No works found for %s\n", args[0])
			return
		}
		for i, w := range works {
			doi := strings.TrimPrefix(w.DOI, "https://doi.org/")
			outputHuman("%d. %s (%d)\n   %s\n", i+1,
				truncateString(w.Title, ListTitleMaxLen), w.PublicationYear, doi)
		}
		return
	}
	outputJSON(works)
}
