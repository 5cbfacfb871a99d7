package kvstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"subjects":["Data Structures"]}`))
		mock.ExpectQuery("SELECT value FROM catalog_kv").
			WithArgs("subjects/CSE/3").
			WillReturnRows(rows)

		value, err := store.Get(ctx, "subjects/CSE/3")

		assert.NoError(t, err)
		assert.JSONEq(t, `{"subjects":["Data Structures"]}`, string(value))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key maps to ErrKeyNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM catalog_kv").
			WithArgs("subjects/EEE/1").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, err := store.Get(ctx, "subjects/EEE/1")

		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()

	value := json.RawMessage(`{"subjects":[]}`)
	mock.ExpectExec("INSERT INTO catalog_kv").
		WithArgs("subjects/CSE/3", []byte(value)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Set(ctx, "subjects/CSE/3", value)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM catalog_kv").
			WithArgs("files/123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Delete(ctx, "files/123"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent row is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM catalog_kv").
			WithArgs("files/missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, store.Delete(ctx, "files/missing"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_ScanPrefix(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("catalog/CSE/3/DBMS", []byte(`{}`)).
		AddRow("catalog/CSE/3/Data Structures", []byte(`{}`))
	mock.ExpectQuery("SELECT key, value FROM catalog_kv").
		WithArgs("catalog/").
		WillReturnRows(rows)

	entries, err := store.ScanPrefix(ctx, "catalog/")

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "catalog/CSE/3/DBMS", entries[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}
