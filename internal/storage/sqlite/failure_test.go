package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chris-regnier/moodiary/internal/storage"
	"github.com/rs/zerolog"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return &Store{db: db, log: zerolog.Nop()}, mock, db
}

var errDisk = errors.New("disk I/O error")

func TestCreateEntry_BeginFails(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errDisk)

	_, err := s.CreateEntry(context.Background(), storage.NewEntry{Date: time.Now(), Text: "hello"})
	if !errors.Is(err, storage.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateEntry_ImageInsertFailsRollsBack(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+diary_entries\b.*RETURNING\s+id$`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+diary_images\b.*RETURNING\s+id$`).
		WithArgs(int64(7), []byte("img")).
		WillReturnError(errDisk)
	mock.ExpectRollback()

	_, err := s.CreateEntry(context.Background(), storage.NewEntry{
		Date:   time.Now(),
		Text:   "hello",
		Images: [][]byte{[]byte("img")},
	})
	if !errors.Is(err, storage.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteEntry_ImageDeleteFailsRollsBack(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE\s+FROM\s+diary_images\s+WHERE\s+entry_id\s*=\s*\?$`).
		WithArgs(int64(3)).
		WillReturnError(errDisk)
	mock.ExpectRollback()

	err := s.DeleteEntry(context.Background(), 3)
	if !errors.Is(err, storage.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteEntry_NotFoundRollsBack(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE\s+FROM\s+diary_images`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^DELETE\s+FROM\s+diary_entries`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := s.DeleteEntry(context.Background(), 3); err != storage.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteEntry_CommitsBothStatements(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE\s+FROM\s+diary_images`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`^DELETE\s+FROM\s+diary_entries`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.DeleteEntry(context.Background(), 3); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByDate_QueryError(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT .* FROM diary_entries WHERE entry_date = \?`).
		WithArgs("2024-01-01").
		WillReturnError(errDisk)

	_, err := s.FindByDate(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	if !errors.Is(err, storage.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
	if errors.Is(err, storage.ErrNotFound) {
		t.Fatal("storage failure must not look like not-found")
	}
}
