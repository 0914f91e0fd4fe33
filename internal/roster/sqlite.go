package roster

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite results database.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite results database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- One row per accepted candidate match
		CREATE TABLE IF NOT EXISTS matches (
			researcher_id TEXT NOT NULL,
			source_id TEXT NOT NULL,
			display_name TEXT,
			tier TEXT NOT NULL,
			field_label TEXT,
			works_count INTEGER,
			cited_by_count INTEGER,
			orcid TEXT,
			other_source_id TEXT,
			topics_json TEXT,
			PRIMARY KEY (researcher_id, source_id)
		);

		-- Publications collected for accepted author profiles
		CREATE TABLE IF NOT EXISTS works (
			researcher_id TEXT NOT NULL,
			author_id TEXT NOT NULL,
			work_id TEXT NOT NULL,
			doi TEXT,
			title TEXT,
			year INTEGER,
			type TEXT,
			cited_by_count INTEGER,
			PRIMARY KEY (author_id, work_id)
		);

		-- Position-anchored cross-links through known DOIs
		CREATE TABLE IF NOT EXISTS links (
			researcher_id TEXT PRIMARY KEY,
			doi TEXT NOT NULL,
			work_id TEXT,
			author_id TEXT,
			first_appearance INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_works_researcher ON works(researcher_id);
	`

	_, err := db.Exec(schema)
	return err
}

// InsertRow stores a result row's matches and cross-link.
func (d *DB) InsertRow(row Row) error {
	for _, m := range row.Matches {
		topicsJSON, err := json.Marshal(m.Topics)
		if err != nil {
			return fmt.Errorf("marshaling topics for %s: %w", m.SourceID, err)
		}
		_, err = d.db.Exec(`
			INSERT OR REPLACE INTO matches (
				researcher_id, source_id, display_name, tier, field_label,
				works_count, cited_by_count, orcid, other_source_id, topics_json
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, row.Researcher.ID, m.SourceID, m.DisplayName, string(m.Tier), m.FieldLabel,
			m.WorksCount, m.CitedByCount, m.ORCID, m.OtherSourceID, string(topicsJSON))
		if err != nil {
			return fmt.Errorf("inserting match %s: %w", m.SourceID, err)
		}
	}

	if row.CrossLink != nil {
		first := 0
		if row.FirstAppearance {
			first = 1
		}
		_, err := d.db.Exec(`
			INSERT OR REPLACE INTO links (researcher_id, doi, work_id, author_id, first_appearance)
			VALUES (?, ?, ?, ?, ?)
		`, row.Researcher.ID, row.Researcher.KnownDOI, row.CrossLink.WorkID, row.CrossLink.AuthorID, first)
		if err != nil {
			return fmt.Errorf("inserting link for %s: %w", row.Researcher.ID, err)
		}
	}

	return nil
}

// InsertWorks stores collected publication records.
func (d *DB) InsertWorks(works []Work) error {
	stmt, err := d.db.Prepare(`
		INSERT OR REPLACE INTO works (
			researcher_id, author_id, work_id, doi, title, year, type, cited_by_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing works insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range works {
		if _, err := stmt.Exec(
			w.ResearcherID, w.AuthorID, w.WorkID, w.DOI, w.Title, w.Year, w.Type, w.CitedByCount,
		); err != nil {
			return fmt.Errorf("inserting work %s: %w", w.WorkID, err)
		}
	}
	return nil
}

// MatchedResearcherIDs returns the researcher IDs that have at least one
// stored match.
func (d *DB) MatchedResearcherIDs() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT researcher_id FROM matches ORDER BY researcher_id")
	if err != nil {
		return nil, fmt.Errorf("listing matched researchers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountWorks returns the number of stored publication records.
func (d *DB) CountWorks() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM works").Scan(&count)
	return count, err
}

// WorksForResearcher retrieves the stored publications of one researcher.
func (d *DB) WorksForResearcher(researcherID string) ([]Work, error) {
	rows, err := d.db.Query(`
		SELECT researcher_id, author_id, work_id, doi, title, year, type, cited_by_count
		FROM works WHERE researcher_id = ? ORDER BY year, work_id
	`, researcherID)
	if err != nil {
		return nil, fmt.Errorf("listing works: %w", err)
	}
	defer rows.Close()

	var works []Work
	for rows.Next() {
		var w Work
		var doi, title, typ sql.NullString
		var year, cited sql.NullInt64
		if err := rows.Scan(&w.ResearcherID, &w.AuthorID, &w.WorkID, &doi, &title, &year, &typ, &cited); err != nil {
			return nil, err
		}
		w.DOI = doi.String
		w.Title = title.String
		w.Type = typ.String
		w.Year = int(year.Int64)
		w.CitedByCount = int(cited.Int64)
		works = append(works, w)
	}
	return works, rows.Err()
}
