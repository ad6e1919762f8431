// Loading of marking records into the session database.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// replaceMarkings rewrites the markings table with records in one
// transaction: either every record lands or the previous rows stay.
func replaceMarkings(db *sql.DB, records []markingJSON) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM markings"); err != nil {
		return fmt.Errorf("clearing markings: %w", err)
	}
	if err := insertRecords(tx, records); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts marking records. ids and shape are stored as JSON
// text.
func insertRecords(tx *sql.Tx, records []markingJSON) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(markingColumns)), ", ")
	insertSQL := fmt.Sprintf(
		"INSERT INTO markings (%s) VALUES (%s)",
		strings.Join(markingColumns, ", "),
		placeholders,
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for markings: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		ids, err := json.Marshal(rec.IDs)
		if err != nil {
			return fmt.Errorf("encoding ids of %s/%d: %w", rec.Canvas, rec.Label, err)
		}
		if _, err := stmt.Exec(
			rec.Canvas,
			rec.Position,
			rec.Label,
			string(ids),
			rec.TypeID,
			rec.Kind,
			string(rec.Shape),
		); err != nil {
			return fmt.Errorf("inserting %s/%d: %w", rec.Canvas, rec.Label, err)
		}
	}
	return nil
}

// queryRecords returns the rows matching where (may be empty) ordered by
// canvas and position.
func queryRecords(db *sql.DB, where string, args ...any) ([]markingJSON, error) {
	query := fmt.Sprintf("SELECT %s FROM markings", strings.Join(markingColumns, ", "))
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY canvas, position"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying markings: %w", err)
	}
	defer rows.Close()

	var records []markingJSON
	for rows.Next() {
		var (
			rec   markingJSON
			ids   string
			shape string
		)
		if err := rows.Scan(&rec.Canvas, &rec.Position, &rec.Label, &ids, &rec.TypeID, &rec.Kind, &shape); err != nil {
			return nil, fmt.Errorf("scanning marking row: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &rec.IDs); err != nil {
			return nil, fmt.Errorf("decoding ids of %s/%d: %w", rec.Canvas, rec.Label, err)
		}
		rec.Shape = json.RawMessage(shape)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating markings: %w", err)
	}
	return records, nil
}
