package etl

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestPipeline_EndToEnd(t *testing.T) {
	tmp := t.TempDir()
	messages := writeFile(t, tmp, "disaster_messages.csv",
		"id,message,genre\n1,help,direct\n2,food,social\n2,food,social\n")
	categories := writeFile(t, tmp, "disaster_categories.csv",
		"id,categories\n1,related-1;request-0\n2,related-2;request-1\n")
	dbPath := filepath.Join(tmp, "DisasterResponse.db")

	p := New(nil)
	merged, err := p.Load(messages, categories)
	if err != nil {
		t.Fatal(err)
	}
	cleaned, err := p.Clean(merged)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Save(cleaned, dbPath); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTable(openForRead(t, dbPath), TableName)
	if err != nil {
		t.Fatal(err)
	}

	wantCols := []Column{
		{Name: "id", Kind: KindInteger},
		{Name: "message", Kind: KindText},
		{Name: "genre", Kind: KindText},
		{Name: "related", Kind: KindInteger},
		{Name: "request", Kind: KindInteger},
	}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Fatalf("expected columns %v, got %v", wantCols, got.Columns)
	}

	// The duplicated id=2 message collapses to one row and the related-2
	// cell lands as 1.
	wantRows := [][]any{
		{int64(1), "help", "direct", int64(1), int64(0)},
		{int64(2), "food", "social", int64(1), int64(1)},
	}
	if !reflect.DeepEqual(got.Rows, wantRows) {
		t.Fatalf("expected rows %v, got %v", wantRows, got.Rows)
	}
}
