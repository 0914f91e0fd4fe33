package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matchlab/scholarmatch/internal/match"
)

// Title truncation length for human-readable listings.
const ListTitleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// dirOf returns the parent directory of a path, treating a bare file name as
// the current directory.
func dirOf(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatCandidateHuman formats one matched or raw candidate as a listing line.
func formatCandidateHuman(c match.Candidate, tier string) string {
	var sb strings.Builder
	sb.WriteString(c.SourceID)
	if tier != "" {
		sb.WriteString(" [" + tier + "]")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Name: %s\n", c.DisplayName))
	if c.FieldLabel != "" {
		sb.WriteString(fmt.Sprintf("  Field: %s\n", c.FieldLabel))
	}
	if c.WorksCount > 0 || c.CitedByCount > 0 {
		sb.WriteString(fmt.Sprintf("  Works: %d, cited by: %d\n", c.WorksCount, c.CitedByCount))
	}
	if c.ORCID != "" {
		sb.WriteString(fmt.Sprintf("  ORCID: %s\n", c.ORCID))
	}
	return sb.String()
}
