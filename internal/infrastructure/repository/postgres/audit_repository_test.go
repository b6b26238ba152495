package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
)

func TestAuditRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewAuditRepository(db)
	createdAt := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO query_audit").
		WithArgs("rec-1", "s-1", "apple revenue", "it grew", []byte(`{"cache":"miss"}`), createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Insert(context.Background(), domain.QueryAuditRecord{
		ID:        "rec-1",
		SessionID: "s-1",
		Query:     "apple revenue",
		Answer:    "it grew",
		Metadata:  map[string]any{"cache": "miss"},
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAuditRepositoryInsertDefaultsCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewAuditRepository(db)
	mock.ExpectExec("INSERT INTO query_audit").
		WithArgs("rec-2", "s-2", "q", "a", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Insert(context.Background(), domain.QueryAuditRecord{
		ID:        "rec-2",
		SessionID: "s-2",
		Query:     "q",
		Answer:    "a",
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAuditRepositoryInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewAuditRepository(db)
	mock.ExpectExec("INSERT INTO query_audit").
		WillReturnError(errors.New("connection reset"))

	err = repo.Insert(context.Background(), domain.QueryAuditRecord{ID: "rec-3"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestAuditRepositoryEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewAuditRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(int64(2026082901)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS query_audit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
