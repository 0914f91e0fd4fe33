package roster

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matchlab/scholarmatch/internal/researcher"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines
// (1MB per line). Shared across all JSONL file readers.
const MaxJSONLLineCapacity = 1024 * 1024

// ReadResearchers reads a researcher roster from a JSONL file. A missing
// file yields an empty roster.
func ReadResearchers(path string) ([]researcher.Researcher, error) {
	var out []researcher.Researcher
	err := readLines(path, func(line []byte, lineNum int) error {
		var r researcher.Researcher
		if err := json.Unmarshal(line, &r); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ReadRows reads previously written result rows from a JSONL file. A missing
// file yields an empty slice.
func ReadRows(path string) ([]Row, error) {
	var out []Row
	err := readLines(path, func(line []byte, lineNum int) error {
		var row Row
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		out = append(out, row)
		return nil
	})
	return out, err
}

func readLines(path string, fn func(line []byte, lineNum int) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening roster file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line, lineNum); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading roster file: %w", err)
	}
	return nil
}

// AppendRow adds a result row to the end of a JSONL file.
func AppendRow(path string, row Row) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening results file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encoding row: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// WriteRows writes all result rows to a JSONL file, replacing existing
// content.
func WriteRows(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	for i, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return nil
}

// ResolvedIDs returns the set of researcher IDs already present in a result
// file, for resuming an interrupted run.
func ResolvedIDs(path string) (map[string]bool, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(rows))
	for _, r := range rows {
		ids[r.Researcher.ID] = true
	}
	return ids, nil
}
