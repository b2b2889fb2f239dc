package etl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Kind is the storage type of a column. Inputs are typed once at load time
// and the choice is reused everywhere downstream, including the SQLite DDL.
type Kind uint8

const (
	KindText Kind = iota
	KindInteger
)

func (k Kind) sqlType() string {
	if k == KindInteger {
		return "INTEGER"
	}
	return "TEXT"
}

type Column struct {
	Name string
	Kind Kind
}

// Table is an in-memory tabular dataset. Cells are string for KindText
// columns and int64 for KindInteger columns, matching Columns by position.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// cellString renders a cell in its canonical text form. Join keys are
// compared through this, so integer-typed ids match the same digits read
// as text from the other input.
func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// rowDigest hashes one row for exact-duplicate detection. The encoding is
// injective: cells are type-tagged and text is length-prefixed, so no two
// distinct rows share an encoding.
func rowDigest(row []any) string {
	h := sha256.New()
	for _, cell := range row {
		switch v := cell.(type) {
		case int64:
			fmt.Fprintf(h, "i%d;", v)
		case string:
			fmt.Fprintf(h, "t%d:%s;", len(v), v)
		default:
			s := fmt.Sprint(v)
			fmt.Fprintf(h, "x%d:%s;", len(s), s)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
