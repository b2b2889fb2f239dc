package etl

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// packedColumn carries the ;-joined name-value category tokens.
	packedColumn = "categories"

	// relatedCategory is the one category whose source data is known to
	// contain value 2; those cells are coerced to 1 during decoding.
	relatedCategory = "related"
)

// Clean unpacks the packed categories column into one integer column per
// category and drops exact-duplicate rows. Category names come from the
// first row only and fix the output schema; later rows are decoded by
// position. All other columns pass through unchanged, in order, with the
// category columns appended after them.
func (p *Pipeline) Clean(merged *Table) (*Table, error) {
	pi := merged.ColumnIndex(packedColumn)
	if pi < 0 {
		return nil, fmt.Errorf("column %q: %w", packedColumn, ErrMissingColumn)
	}
	if len(merged.Rows) == 0 {
		return nil, fmt.Errorf("no rows to derive category columns from")
	}

	names, err := categoryNames(cellString(merged.Rows[0][pi]))
	if err != nil {
		return nil, err
	}

	cols := make([]Column, 0, len(merged.Columns)-1+len(names))
	for i, c := range merged.Columns {
		if i != pi {
			cols = append(cols, c)
		}
	}
	for _, name := range names {
		for _, existing := range cols {
			if existing.Name == name {
				return nil, fmt.Errorf("category %q: %w", name, ErrDuplicateColumn)
			}
		}
		cols = append(cols, Column{Name: name, Kind: KindInteger})
	}

	related := -1
	for j, name := range names {
		if name == relatedCategory {
			related = j
		}
	}

	cleaned := &Table{Columns: cols, Rows: make([][]any, 0, len(merged.Rows))}
	seen := make(map[string]struct{}, len(merged.Rows))
	for n, row := range merged.Rows {
		tokens := strings.Split(cellString(row[pi]), ";")
		if len(tokens) != len(names) {
			return nil, fmt.Errorf("row %d: got %d categories, want %d: %w",
				n+1, len(tokens), len(names), ErrCategoryLayout)
		}

		out := make([]any, 0, len(cols))
		for i, cell := range row {
			if i != pi {
				out = append(out, cell)
			}
		}
		for j, tok := range tokens {
			_, v, err := splitCategoryToken(tok)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+1, err)
			}
			if j == related && v == 2 {
				v = 1
			}
			out = append(out, v)
		}

		digest := rowDigest(out)
		if _, dup := seen[digest]; dup {
			continue
		}
		seen[digest] = struct{}{}
		cleaned.Rows = append(cleaned.Rows, out)
	}

	p.logger.Info("Cleaned dataset",
		zap.Int("categories", len(names)),
		zap.Int("rows", len(cleaned.Rows)),
		zap.Int("duplicatesDropped", len(merged.Rows)-len(cleaned.Rows)))
	return cleaned, nil
}

// categoryNames derives the ordered category column names from one packed
// value, the text before the first dash of each token.
func categoryNames(packed string) ([]string, error) {
	tokens := strings.Split(packed, ";")
	names := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		name, _, err := splitCategoryToken(tok)
		if err != nil {
			return nil, err
		}
		for _, prev := range names {
			if prev == name {
				return nil, fmt.Errorf("category %q: %w", name, ErrDuplicateColumn)
			}
		}
		names = append(names, name)
	}
	return names, nil
}

// splitCategoryToken splits a name-value token at its first dash. The
// value must be a plain integer; anything else is rejected rather than
// silently truncated.
func splitCategoryToken(tok string) (string, int64, error) {
	name, raw, ok := strings.Cut(tok, "-")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("token %q: %w", tok, ErrBadCategoryToken)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("token %q: %w", tok, ErrBadCategoryToken)
	}
	return name, v, nil
}
