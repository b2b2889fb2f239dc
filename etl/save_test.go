package etl

import (
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"gorm.io/gorm"
)

func openForRead(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		t.Cleanup(func() { sqlDB.Close() })
	}
	return db
}

func TestSave_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pipeline.db")
	table := &Table{
		Columns: []Column{
			{Name: "id", Kind: KindInteger},
			{Name: "message", Kind: KindText},
			{Name: "related", Kind: KindInteger},
		},
		Rows: [][]any{
			{int64(1), "we need water", int64(1)},
			{int64(2), "", int64(0)},
		},
	}

	if err := New(nil).Save(table, dbPath); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTable(openForRead(t, dbPath), TableName)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Columns, table.Columns) {
		t.Fatalf("expected columns %v, got %v", table.Columns, got.Columns)
	}
	if !reflect.DeepEqual(got.Rows, table.Rows) {
		t.Fatalf("expected rows %v, got %v", table.Rows, got.Rows)
	}
}

func TestSave_ReplacesExistingTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pipeline.db")
	first := &Table{
		Columns: []Column{{Name: "id", Kind: KindInteger}, {Name: "old", Kind: KindText}},
		Rows:    [][]any{{int64(1), "a"}, {int64(2), "b"}},
	}
	second := &Table{
		Columns: []Column{{Name: "id", Kind: KindInteger}, {Name: "fresh", Kind: KindInteger}},
		Rows:    [][]any{{int64(9), int64(1)}},
	}

	p := New(nil)
	if err := p.Save(first, dbPath); err != nil {
		t.Fatal(err)
	}
	if err := p.Save(second, dbPath); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTable(openForRead(t, dbPath), TableName)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Columns, second.Columns) {
		t.Fatalf("expected replaced columns %v, got %v", second.Columns, got.Columns)
	}
	if len(got.Rows) != 1 {
		t.Fatalf("expected 1 row after replace, got %d", len(got.Rows))
	}
}

func TestSave_EmptyRowsStillWritesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pipeline.db")
	table := &Table{
		Columns: []Column{{Name: "id", Kind: KindInteger}, {Name: "message", Kind: KindText}},
	}

	if err := New(nil).Save(table, dbPath); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTable(openForRead(t, dbPath), TableName)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Columns, table.Columns) {
		t.Fatalf("expected columns %v, got %v", table.Columns, got.Columns)
	}
	if len(got.Rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(got.Rows))
	}
}

func TestSave_ManyRowsCrossBatchBoundary(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pipeline.db")
	table := &Table{
		Columns: []Column{{Name: "id", Kind: KindInteger}, {Name: "message", Kind: KindText}},
	}
	for i := 0; i < insertBatchSize+50; i++ {
		table.Rows = append(table.Rows, []any{int64(i), fmt.Sprintf("msg %d", i)})
	}

	if err := New(nil).Save(table, dbPath); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTable(openForRead(t, dbPath), TableName)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != len(table.Rows) {
		t.Fatalf("expected %d rows, got %d", len(table.Rows), len(got.Rows))
	}
	if got.Rows[insertBatchSize][0] != int64(insertBatchSize) {
		t.Fatalf("expected insert order preserved across batches, got %v", got.Rows[insertBatchSize])
	}
}

func TestSave_UnwritableDestinationErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing", "pipeline.db")
	table := &Table{
		Columns: []Column{{Name: "id", Kind: KindInteger}},
		Rows:    [][]any{{int64(1)}},
	}

	if err := New(nil).Save(table, dbPath); err == nil {
		t.Fatal("expected error for unwritable database path")
	}
}

func TestSave_NoColumnsErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pipeline.db")

	if err := New(nil).Save(&Table{}, dbPath); err == nil {
		t.Fatal("expected error for table without columns")
	}
}
