package backend

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/lipl/internal/shared"
)

const testSchema = `
-- contract test table
CREATE TABLE item (
    id TEXT PRIMARY KEY,
    n INTEGER,
    f REAL,
    b BLOB,
    note TEXT
);
`

// drivers are exercised pairwise: every contract test runs against both
// engines.
var drivers = []string{"sqlite3", "sqlite"}

func openTestBackend(t *testing.T, driver string) Backend {
	t.Helper()

	b, err := Open(shared.DatabaseConfig{Driver: driver, Path: ":memory:"}, testSchema)
	if err != nil {
		t.Fatalf("failed to open %s backend: %v", driver, err)
	}
	t.Cleanup(func() { b.Close() })

	return b
}

// columnText reads a value that may surface as either the text or the blob
// variant, since SQLite columns are dynamically typed.
func columnText(t *testing.T, v Value) string {
	t.Helper()

	if s, ok := v.Text(); ok {
		return s
	}
	if raw, ok := v.Blob(); ok {
		return string(raw)
	}
	t.Fatalf("value holds no text: kind %v", v.Kind())
	return ""
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(shared.DatabaseConfig{Driver: "postgres", Path: ":memory:"}, "")
	if !errors.Is(err, shared.ErrUnknownDriver) {
		t.Errorf("expected unknown driver error, got %v", err)
	}
}

func TestBackendContract(t *testing.T) {
	ctx := context.Background()

	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			t.Run("insert reports affected count", func(t *testing.T) {
				b := openTestBackend(t, driver)

				count, err := b.Execute(ctx, "INSERT INTO item (id, n) VALUES (?, ?)", []Value{Text("a"), Integer(1)})
				if err != nil {
					t.Fatalf("failed to insert: %v", err)
				}
				if count != 1 {
					t.Errorf("expected 1 affected row, got %d", count)
				}
			})

			t.Run("update and delete report matched rows", func(t *testing.T) {
				b := openTestBackend(t, driver)

				if _, err := b.Execute(ctx, "INSERT INTO item (id, n) VALUES (?, ?)", []Value{Text("a"), Integer(1)}); err != nil {
					t.Fatalf("failed to insert: %v", err)
				}

				count, err := b.Execute(ctx, "UPDATE item SET n = ? WHERE id = ?", []Value{Integer(2), Text("missing")})
				if err != nil {
					t.Fatalf("failed to update: %v", err)
				}
				if count != 0 {
					t.Errorf("expected 0 affected rows, got %d", count)
				}

				count, err = b.Execute(ctx, "UPDATE item SET n = ? WHERE id = ?", []Value{Integer(2), Text("a")})
				if err != nil {
					t.Fatalf("failed to update: %v", err)
				}
				if count != 1 {
					t.Errorf("expected 1 affected row, got %d", count)
				}

				count, err = b.Execute(ctx, "DELETE FROM item WHERE id = ?", []Value{Text("a")})
				if err != nil {
					t.Fatalf("failed to delete: %v", err)
				}
				if count != 1 {
					t.Errorf("expected 1 affected row, got %d", count)
				}
			})

			t.Run("scalar round trip", func(t *testing.T) {
				b := openTestBackend(t, driver)

				blob := []byte{0x00, 0x01, 0xfe, 0xff}
				_, err := b.Execute(ctx,
					"INSERT INTO item (id, n, f, b, note) VALUES (?, ?, ?, ?, ?)",
					[]Value{Text("a"), Integer(-7), Real(2.5), Blob(blob), Null()})
				if err != nil {
					t.Fatalf("failed to insert: %v", err)
				}

				rows, err := b.Query(ctx, "SELECT id, n, f, b, note FROM item", nil)
				if err != nil {
					t.Fatalf("failed to query: %v", err)
				}
				if len(rows) != 1 {
					t.Fatalf("expected 1 row, got %d", len(rows))
				}
				row := rows[0]

				id, err := row.Column("id")
				if err != nil {
					t.Fatalf("failed to read id: %v", err)
				}
				if got := columnText(t, id); got != "a" {
					t.Errorf("expected id 'a', got %q", got)
				}

				n, err := row.Column("n")
				if err != nil {
					t.Fatalf("failed to read n: %v", err)
				}
				if got, ok := n.Int(); !ok || got != -7 {
					t.Errorf("expected -7, got %v (ok=%v)", got, ok)
				}

				f, err := row.Column("f")
				if err != nil {
					t.Fatalf("failed to read f: %v", err)
				}
				if got, ok := f.Float(); !ok || got != 2.5 {
					t.Errorf("expected 2.5, got %v (ok=%v)", got, ok)
				}

				bv, err := row.Column("b")
				if err != nil {
					t.Fatalf("failed to read b: %v", err)
				}
				if got, ok := bv.Blob(); !ok || !bytes.Equal(got, blob) {
					t.Errorf("expected %v, got %v (ok=%v)", blob, got, ok)
				}

				note, err := row.Column("note")
				if err != nil {
					t.Fatalf("failed to read note: %v", err)
				}
				if note.Kind() != KindNull {
					t.Errorf("expected NULL, got kind %v", note.Kind())
				}
			})

			t.Run("transaction keywords", func(t *testing.T) {
				b := openTestBackend(t, driver)

				if _, err := b.Execute(ctx, "BEGIN TRANSACTION", nil); err != nil {
					t.Fatalf("failed to begin: %v", err)
				}
				if _, err := b.Execute(ctx, "INSERT INTO item (id) VALUES (?)", []Value{Text("a")}); err != nil {
					t.Fatalf("failed to insert: %v", err)
				}
				if _, err := b.Execute(ctx, "ROLLBACK", nil); err != nil {
					t.Fatalf("failed to rollback: %v", err)
				}

				rows, err := b.Query(ctx, "SELECT id FROM item", nil)
				if err != nil {
					t.Fatalf("failed to query: %v", err)
				}
				if len(rows) != 0 {
					t.Errorf("expected rollback to discard the insert, got %d rows", len(rows))
				}

				if _, err := b.Execute(ctx, "BEGIN TRANSACTION", nil); err != nil {
					t.Fatalf("failed to begin: %v", err)
				}
				if _, err := b.Execute(ctx, "INSERT INTO item (id) VALUES (?)", []Value{Text("b")}); err != nil {
					t.Fatalf("failed to insert: %v", err)
				}
				if _, err := b.Execute(ctx, "COMMIT", nil); err != nil {
					t.Fatalf("failed to commit: %v", err)
				}

				rows, err = b.Query(ctx, "SELECT id FROM item", nil)
				if err != nil {
					t.Fatalf("failed to query: %v", err)
				}
				if len(rows) != 1 {
					t.Errorf("expected 1 committed row, got %d", len(rows))
				}
			})

			t.Run("statement errors wrap the backend sentinel", func(t *testing.T) {
				b := openTestBackend(t, driver)

				if _, err := b.Query(ctx, "SELECT nope FROM item", nil); !errors.Is(err, shared.ErrBackend) {
					t.Errorf("expected backend error, got %v", err)
				}
				if _, err := b.Execute(ctx, "INSERT INTO missing (id) VALUES (?)", []Value{Text("a")}); !errors.Is(err, shared.ErrBackend) {
					t.Errorf("expected backend error, got %v", err)
				}
			})
		})
	}
}

func TestRow(t *testing.T) {
	row := NewRow([]string{"a", "b"}, []Value{Integer(1), Text("x")})

	t.Run("column lookup", func(t *testing.T) {
		v, err := row.Column("b")
		if err != nil {
			t.Fatalf("failed to look up column: %v", err)
		}
		if s, ok := v.Text(); !ok || s != "x" {
			t.Errorf("expected 'x', got %v", v)
		}

		if _, err := row.Column("c"); !errors.Is(err, shared.ErrMissingColumn) {
			t.Errorf("expected missing column error, got %v", err)
		}
	})

	t.Run("positional lookup", func(t *testing.T) {
		v, ok := row.Index(0)
		if !ok {
			t.Fatal("expected index 0 to exist")
		}
		if n, ok := v.Int(); !ok || n != 1 {
			t.Errorf("expected 1, got %v", v)
		}

		if _, ok := row.Index(2); ok {
			t.Error("expected index 2 to be out of range")
		}
		if _, ok := row.Index(-1); ok {
			t.Error("expected negative index to be out of range")
		}
	})
}

func TestValueAccessors(t *testing.T) {
	if _, ok := Text("x").Int(); ok {
		t.Error("expected no integer from a text value")
	}
	if _, ok := Integer(1).Text(); ok {
		t.Error("expected no text from an integer value")
	}
	if Null().Kind() != KindNull {
		t.Error("expected NULL kind")
	}

	src := []byte{1, 2, 3}
	v := fromDriver(src)
	src[0] = 9
	if raw, _ := v.Blob(); raw[0] != 1 {
		t.Error("expected blob contents to be copied from the driver buffer")
	}
}
