package main

import (
	"context"
	"os"

	"github.com/matchlab/scholarmatch/internal/crosslink"
	"github.com/spf13/cobra"
)

var (
	crosslinkDOI      string
	crosslinkPosition int
)

var crosslinkCmd = &cobra.Command{
	Use:   "crosslink",
	Short: "Link an author position on a document to an author ID",
	Long: `Resolve a DOI to its OpenAlex work record and return the author ID at the
given 1-based position.

Author ordering is not guaranteed identical across sources: the result is a
best-effort link, not an authoritative identity claim. An out-of-range
position yields a null link, not an error.

Examples:
  scholarmatch crosslink --doi 10.1038/s41586-020-2649-2 --position 2
  scholarmatch crosslink --doi 10.1/x --position 1 --human`,
	Run: runCrosslink,
}

func init() {
	crosslinkCmd.Flags().StringVar(&crosslinkDOI, "doi", "", "DOI of the shared document (required)")
	crosslinkCmd.Flags().IntVar(&crosslinkPosition, "position", 0, "1-based author position (required)")
	crosslinkCmd.MarkFlagRequired("doi")
	crosslinkCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(crosslinkCmd)
}

func runCrosslink(cmd *cobra.Command, args []string) {
	client := newOpenAlexClient()

	result, err := crosslink.Link(context.Background(), client, crosslinkDOI, crosslinkPosition)
	if err != nil {
		exitWithError(ExitError, "cross-linking %s: %v", crosslinkDOI, err)
	}

	if humanOutput {
		if result.Found() {
			outputHuman("Work: %s\nAuthor at position %d: %s\n", result.WorkID, crosslinkPosition, result.AuthorID)
		} else if result.WorkID != "" {
			outputHuman("Work: %s\nNo author at position %d\n", result.WorkID, crosslinkPosition)
		} else {
			outputHuman("No work found for DOI %s\n", crosslinkDOI)
		}
	} else {
		outputJSON(result)
	}

	if !result.Found() {
		os.Exit(ExitNotFound)
	}
}
