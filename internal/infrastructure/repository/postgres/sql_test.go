package postgres

import (
	"database/sql"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows must read as not found")
	}
	if !isNotFound(errors.Wrap(sql.ErrNoRows, "load tournament")) {
		t.Fatal("wrapped sql.ErrNoRows must read as not found")
	}
	if isNotFound(fakeErr("pq: relation matches does not exist")) {
		t.Fatal("unrelated errors must not read as not found")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
