package main

import (
	"context"
	"github.com/spf13/cobra"
)

var authorsCmd = &cobra.Command{
	Use:   "authors <name>",
	Short: "Search author profiles by name",
	Long: `Search OpenAlex author profiles by name.

Returns the raw candidate list in source order, reduced to the fields the
disambiguation engine compares on.

Examples:
  scholarmatch authors "Ana Ruiz Gómez"
  scholarmatch authors "Ana Ruiz" --human`,
	Args: cobra.ExactArgs(1),
	Run:  runAuthors,
}

func init() {
	rootCmd.AddCommand(authorsCmd)
}

func runAuthors(cmd *cobra.Command, args []string) {
	client := newOpenAlexClient()

	candidates, err := client.SearchCandidates(context.Background(), args[0])
	if err != nil {
		exitWithError(ExitError, "searching authors: %v", err)
	}

	if humanOutput {
		if len(candidates) == 0 {
			outputHuman("No author profiles found for %q\n", args[0])
			return
		}
		for i, c := range candidates {
			outputHuman("%d. %s", i+1, formatCandidateHuman(c, ""))
		}
		return
	}
	outputJSON(candidates)
}
