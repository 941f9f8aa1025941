package querybuilder

import (
	"reflect"
	"testing"
)

func TestInsertModelBuildsColumnsFromTags(t *testing.T) {
	t.Parallel()

	model := struct {
		PublicID string `db:"public_id"`
		Name     string `db:"name"`
		Internal string `db:"-"`
		NoTag    string
	}{PublicID: "team-1", Name: "Rapid Lions", Internal: "x", NoTag: "y"}

	query, args, err := InsertModel("teams", model, "RETURNING id")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}

	want := "INSERT INTO teams (public_id, name) VALUES ($1, $2) RETURNING id"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"team-1", "Rapid Lions"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertModelFlattensEmbeddedStructs(t *testing.T) {
	t.Parallel()

	type auditColumns struct {
		CreatedBy string `db:"created_by"`
	}
	model := struct {
		auditColumns
		PublicID string `db:"public_id"`
	}{auditColumns: auditColumns{CreatedBy: "scheduler"}, PublicID: "m-9"}

	query, args, err := InsertModel("matches", &model, "")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}

	want := "INSERT INTO matches (created_by, public_id) VALUES ($1, $2)"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{"scheduler", "m-9"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertModelRejectsNonStructs(t *testing.T) {
	t.Parallel()

	if _, _, err := InsertModel("teams", (*struct{})(nil), ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, _, err := InsertModel("teams", 42, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	if _, _, err := InsertModel("teams", struct{ Name string }{Name: "untagged"}, ""); err == nil {
		t.Fatalf("expected error for model without db columns")
	}
}
