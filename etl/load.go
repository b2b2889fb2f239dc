package etl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"
)

// keyColumn joins the two input files. Both headers must contain it.
const keyColumn = "id"

// Load reads the messages and categories CSV files and inner-joins them on
// the id column. Rows without a counterpart on the other side are dropped;
// messages row order is preserved.
func (p *Pipeline) Load(messagesPath, categoriesPath string) (*Table, error) {
	messages, err := readCSVTable(messagesPath)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	categories, err := readCSVTable(categoriesPath)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	merged, err := merge(messages, categories, keyColumn)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Merged input datasets",
		zap.Int("messages", len(messages.Rows)),
		zap.Int("categories", len(categories.Rows)),
		zap.Int("merged", len(merged.Rows)))
	return merged, nil
}

// readCSVTable reads one delimited file into a typed table. Column kinds
// are discovered once from the full column: every cell parses as a base-10
// integer, or the column stays text.
func readCSVTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingHeader)
	}
	if err != nil {
		return nil, err
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: make([]Column, len(header)), Rows: make([][]any, len(records))}
	for i, name := range header {
		t.Columns[i] = Column{Name: name, Kind: inferKind(records, i)}
	}
	for n, rec := range records {
		row := make([]any, len(header))
		for i, cell := range rec {
			if t.Columns[i].Kind == KindInteger {
				v, _ := strconv.ParseInt(cell, 10, 64)
				row[i] = v
			} else {
				row[i] = cell
			}
		}
		t.Rows[n] = row
	}
	return t, nil
}

func inferKind(records [][]string, col int) Kind {
	if len(records) == 0 {
		return KindText
	}
	for _, rec := range records {
		if _, err := strconv.ParseInt(rec[col], 10, 64); err != nil {
			return KindText
		}
	}
	return KindInteger
}

// merge inner-joins messages and categories on the key column. The key
// appears once in the result, taken from the messages side; duplicate keys
// multiply out in categories order, matching the usual inner-merge shape.
func merge(messages, categories *Table, key string) (*Table, error) {
	mi := messages.ColumnIndex(key)
	if mi < 0 {
		return nil, fmt.Errorf("messages column %q: %w", key, ErrMissingColumn)
	}
	ci := categories.ColumnIndex(key)
	if ci < 0 {
		return nil, fmt.Errorf("categories column %q: %w", key, ErrMissingColumn)
	}

	cols := append([]Column(nil), messages.Columns...)
	for j, c := range categories.Columns {
		if j == ci {
			continue
		}
		for _, existing := range cols {
			if existing.Name == c.Name {
				return nil, fmt.Errorf("column %q: %w", c.Name, ErrDuplicateColumn)
			}
		}
		cols = append(cols, c)
	}

	byKey := make(map[string][]int, len(categories.Rows))
	for i, row := range categories.Rows {
		k := cellString(row[ci])
		byKey[k] = append(byKey[k], i)
	}

	merged := &Table{Columns: cols}
	for _, mrow := range messages.Rows {
		for _, i := range byKey[cellString(mrow[mi])] {
			row := make([]any, 0, len(cols))
			row = append(row, mrow...)
			for j, cell := range categories.Rows[i] {
				if j != ci {
					row = append(row, cell)
				}
			}
			merged.Rows = append(merged.Rows, row)
		}
	}
	return merged, nil
}
