package etl

import "errors"

// Sentinel errors for the failure modes callers may want to distinguish
// with errors.Is. File-not-found surfaces as fs.ErrNotExist from os.Open,
// and malformed CSV as *csv.ParseError from encoding/csv; store failures
// propagate the driver error untouched.
var (
	// ErrMissingHeader indicates an input file with no header row at all.
	ErrMissingHeader = errors.New("missing header row")

	// ErrMissingColumn indicates a required column (the join key or the
	// packed categories column) is absent from a header.
	ErrMissingColumn = errors.New("required column not found")

	// ErrDuplicateColumn indicates a column name that would appear twice in
	// an output table.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrBadCategoryToken indicates a packed token that is not name-value
	// with an integer value.
	ErrBadCategoryToken = errors.New("malformed category token")

	// ErrCategoryLayout indicates a row whose token count differs from the
	// layout discovered on the first row.
	ErrCategoryLayout = errors.New("category layout mismatch")
)
