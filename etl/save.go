package etl

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TableName is the destination table for the cleaned dataset.
const TableName = "messages_disaster"

// insertBatchSize keeps each INSERT well under SQLite's bind-variable
// limit even with several dozen category columns.
const insertBatchSize = 200

// Save replaces the messages_disaster table in the database at
// databasePath with the cleaned table. Any prior table of that name is
// dropped; drop, create and inserts run in one transaction. Only the data
// columns are written, no synthetic index column.
func (p *Pipeline) Save(cleaned *Table, databasePath string) error {
	if len(cleaned.Columns) == 0 {
		return fmt.Errorf("save: table has no columns")
	}

	db, err := OpenDB(databasePath)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(TableName)).Error; err != nil {
			return err
		}
		if err := tx.Exec(createTableSQL(TableName, cleaned.Columns)).Error; err != nil {
			return err
		}
		for start := 0; start < len(cleaned.Rows); start += insertBatchSize {
			end := min(start+insertBatchSize, len(cleaned.Rows))
			batch := make([]map[string]any, 0, end-start)
			for _, row := range cleaned.Rows[start:end] {
				record := make(map[string]any, len(cleaned.Columns))
				for i, c := range cleaned.Columns {
					record[c.Name] = row[i]
				}
				batch = append(batch, record)
			}
			if err := tx.Table(TableName).Create(batch).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.logger.Info("Saved cleaned dataset",
		zap.String("table", TableName),
		zap.Int("rows", len(cleaned.Rows)),
		zap.String("database", databasePath))
	return nil
}

func createTableSQL(name string, cols []Column) string {
	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, quoteIdent(c.Name)+" "+c.Kind.sqlType())
	}
	return "CREATE TABLE " + quoteIdent(name) + " (" + strings.Join(defs, ", ") + ")"
}
