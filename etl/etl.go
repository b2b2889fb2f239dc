// Package etl cleans disaster response message exports: it merges the
// messages and categories CSV files on id, unpacks the packed category
// string into one integer column per category, and replaces the
// messages_disaster table in a SQLite database with the result.
package etl

import "go.uber.org/zap"

// Pipeline runs the three stages (Load, Clean, Save) over one pair of
// input files. It holds no state between stages beyond the logger; each
// stage consumes the previous stage's complete output.
type Pipeline struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}
