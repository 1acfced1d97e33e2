package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/leavedesk/internal/common"
	"github.com/dmitrijs2005/leavedesk/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(name,\s*email,\s*password_hash,\s*role,\s*manager_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	managerID := int64(1)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(42))
	mock.ExpectQuery(insertQ).
		WithArgs("Alice", "alice@example.com", "digest", string(models.RoleEmployee), sql.NullInt64{Int64: 1, Valid: true}).
		WillReturnRows(rows)

	u := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "digest", Role: models.RoleEmployee, ManagerID: &managerID}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_NullManager(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(1))
	mock.ExpectQuery(insertQ).
		WithArgs("Bob", "bob@example.com", "digest", string(models.RoleManager), sql.NullInt64{}).
		WillReturnRows(rows)

	u := &models.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "digest", Role: models.RoleManager}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "digest", Role: models.RoleEmployee})
	if !errors.Is(err, common.ErrorDuplicateEmail) {
		t.Fatalf("want common.ErrorDuplicateEmail, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Name: "Alice", Email: "a@b.c", PasswordHash: "d", Role: models.RoleEmployee})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*role,\s*manager_id\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "manager_id"}).
		AddRow(int64(7), "Alice", "alice@example.com", "digest", "Employee", int64(1))
	mock.ExpectQuery(q).WithArgs("alice@example.com").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != 7 || got.Role != models.RoleEmployee {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.ManagerID == nil || *got.ManagerID != 1 {
		t.Fatalf("unexpected manager id: %v", got.ManagerID)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*role,\s*manager_id\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_NullManager(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*role,\s*manager_id\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "manager_id"}).
		AddRow(int64(1), "Bob", "bob@example.com", "digest", "Manager", nil)
	mock.ExpectQuery(q).WithArgs(int64(1)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ManagerID != nil {
		t.Fatalf("expected nil manager id, got %v", *got.ManagerID)
	}
}

func TestListManagers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name\s+FROM\s+users\s+WHERE\s+role\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "Bob").
		AddRow(int64(3), "Carol")
	mock.ExpectQuery(q).WithArgs(string(models.RoleManager)).WillReturnRows(rows)

	got, err := repo.ListManagers(context.Background())
	if err != nil {
		t.Fatalf("ListManagers error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].Name != "Carol" {
		t.Fatalf("unexpected managers: %+v", got)
	}
}

func TestListManagers_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name\s+FROM\s+users\s+WHERE\s+role\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`

	mock.ExpectQuery(q).WithArgs(string(models.RoleManager)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := repo.ListManagers(context.Background())
	if err != nil {
		t.Fatalf("ListManagers error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}
