package etl

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// OpenDB opens the SQLite database at path, creating the file when absent.
// The schema is written by Save; nothing is migrated here.
func OpenDB(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// ReadTable loads an entire named table back into memory, reconstructing
// column kinds from the declared SQLite types. This is how a pipeline run
// is verified after the fact.
func ReadTable(db *gorm.DB, name string) (*Table, error) {
	rows, err := db.Raw("SELECT * FROM " + quoteIdent(name)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: make([]Column, len(colNames))}
	for i, name := range colNames {
		kind := KindText
		if strings.EqualFold(colTypes[i].DatabaseTypeName(), "INTEGER") {
			kind = KindInteger
		}
		t.Columns[i] = Column{Name: name, Kind: kind}
	}

	for rows.Next() {
		cells := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, cell := range cells {
			if b, ok := cell.([]byte); ok {
				cells[i] = string(b)
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
