// Schema DDL for the session database. The database is a query cache; the
// JSONL file in DataDir is the source of truth.
package sqlite

const (
	createMarkings = `CREATE TABLE markings (
    canvas TEXT NOT NULL,
    position INTEGER NOT NULL,
    label INTEGER NOT NULL,
    ids TEXT NOT NULL,
    type_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    shape TEXT NOT NULL,
    PRIMARY KEY (canvas, position)
);`

	idxMarkingsLabel = `CREATE UNIQUE INDEX idx_markings_label ON markings(canvas, label);`
	idxMarkingsKind  = `CREATE INDEX idx_markings_kind ON markings(kind);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createMarkings,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxMarkingsLabel,
	idxMarkingsKind,
}

// markingColumns is the column order used by inserts and selects.
var markingColumns = []string{"canvas", "position", "label", "ids", "type_id", "kind", "shape"}
