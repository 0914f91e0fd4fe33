package main

import (
	"context"
	"os"

	"github.com/matchlab/scholarmatch/internal/institution"
	"github.com/spf13/cobra"
)

var institutionCachePath string

// InstitutionResponse is the output of the institution command.
type InstitutionResponse struct {
	Name           string `json:"name"`
	Cleaned        string `json:"cleaned"`
	ID             string `json:"id,omitempty"`
	ManualRequired bool   `json:"manual_required,omitempty"`
}

var institutionCmd = &cobra.Command{
	Use:   "institution <name>",
	Short: "Resolve an institution name to its source ID",
	Long: `Resolve an institution name to an OpenAlex institution ID.

Lookups are cached in a JSON file; a name that resolved to nothing is cached
with a sentinel and never retried. Edit the cache file to force a refresh.

Examples:
  scholarmatch institution "Universidad de Zaragoza"
  scholarmatch institution "MIT (Cambridge)" --human`,
	Args: cobra.ExactArgs(1),
	Run:  runInstitution,
}

func init() {
	institutionCmd.Flags().StringVar(&institutionCachePath, "cache", "", "Institution cache file (default: XDG cache dir)")
	rootCmd.AddCommand(institutionCmd)
}

func runInstitution(cmd *cobra.Command, args []string) {
	name := args[0]
	resolver := newInstitutionResolver(institutionCachePath, newOpenAlexClient())

	id, err := resolver.Resolve(context.Background(), name)
	if err != nil {
		exitWithError(ExitError, "resolving institution: %v", err)
	}

	resp := InstitutionResponse{
		Name:    name,
		Cleaned: institution.CleanName(name),
		ID:      id,
	}
	if cached, ok := resolver.Lookup(name); ok && cached == institution.Sentinel {
		resp.ManualRequired = true
	}

	if humanOutput {
		if resp.ManualRequired {
			outputHuman("%s: no match (manual resolution required)\n", resp.Cleaned)
		} else if resp.ID == "" {
			outputHuman("%s: no match\n", resp.Cleaned)
		} else {
			outputHuman("%s: %s\n", resp.Cleaned, resp.ID)
		}
	} else {
		outputJSON(resp)
	}

	if resp.ID == "" {
		// Distinguish "no match" from success for scripted callers.
		os.Exit(ExitNotFound)
	}
}
