package customer

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

var testSalonID = uuid.MustParse("6f1c2f4e-8a52-4a1a-9a57-3f0f6a2f9c11")

func newRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db := dbmetrics.Wrap(sqlDB, nil)
	return NewRepository(db), db, mock
}

func customerRow(id uuid.UUID, first, last string, email interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(customerColumns).
		AddRow(id.String(), testSalonID.String(), "4055551234", first, last, email, false, nil, nil, now, now)
}

func TestRepository_GetByPhone(t *testing.T) {
	repo, _, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM customers WHERE phone = \$1 AND salon_id = \$2$`).
		WithArgs("4055551234", testSalonID.String()).
		WillReturnRows(customerRow(id, "Jane", "Doe", "jane@example.com"))

	c, err := repo.GetByPhone(context.Background(), testSalonID, "4055551234")

	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "Jane", c.FirstName)
	require.NotNil(t, c.Email)
	assert.Nil(t, c.LastVisit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByPhone_LocksInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM customers WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(customerColumns))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	_, err = repo.GetByPhone(dbmetrics.WithTx(ctx, tx), testSalonID, "4055551234")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertIfAbsent(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "inserted", affected: 1, want: true},
		{name: "already exists", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newRepo(t)

			mock.ExpectExec(`INSERT INTO customers .* ON CONFLICT \(salon_id, phone\) DO NOTHING`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			c := &domain.Customer{SalonID: testSalonID, Phone: "4055551234", FirstName: "Guest", LastName: "Customer"}
			inserted, err := repo.InsertIfAbsent(context.Background(), c)

			require.NoError(t, err)
			assert.Equal(t, tt.want, inserted)
			assert.NotEqual(t, uuid.Nil, c.ID)
		})
	}
}

func TestRepository_Update(t *testing.T) {
	repo, _, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE customers SET updated_at = NOW\(\), last_name = \$1, email = \$2 WHERE id = \$3 AND salon_id = \$4`).
		WithArgs("Smith", nil, id.String(), testSalonID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), testSalonID, id, UpdateFields{
		LastName: ptr.Ptr("Smith"),
		Email:    &sql.NullString{},
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_Errors(t *testing.T) {
	t.Run("duplicate phone", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec(`UPDATE customers`).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Update(context.Background(), testSalonID, uuid.New(), UpdateFields{Phone: ptr.Ptr("4055550000")})
		assert.ErrorIs(t, err, ErrDuplicatePhone)
	})

	t.Run("not found", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec(`UPDATE customers`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), testSalonID, uuid.New(), UpdateFields{FirstName: ptr.Ptr("Jane")})
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestRepository_AdvanceLastVisit(t *testing.T) {
	repo, _, mock := newRepo(t)
	id := uuid.New()
	visit := time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE customers SET last_visit = \$1, updated_at = NOW\(\) WHERE id = \$2 AND \(last_visit IS NULL OR last_visit < \$3\)`).
		WithArgs(visit, id.String(), visit).
		WillReturnResult(sqlmock.NewResult(0, 0))

	advanced, err := repo.AdvanceLastVisit(context.Background(), id, visit)

	require.NoError(t, err)
	assert.False(t, advanced)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Search(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM customers WHERE salon_id = \$1 AND \(first_name ILIKE \$2 OR last_name ILIKE \$3 OR phone ILIKE \$4 OR phone LIKE \$5\) ORDER BY updated_at DESC LIMIT 10`).
		WithArgs(testSalonID.String(), "%555-12%", "%555-12%", "%555-12%", "%55512%").
		WillReturnRows(customerRow(uuid.New(), "Jane", "Doe", nil))

	list, err := repo.Search(context.Background(), testSalonID, "555-12", 10)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Search_EscapesWildcards(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM customers WHERE salon_id = \$1 AND \(first_name ILIKE \$2 OR last_name ILIKE \$3 OR phone ILIKE \$4\) ORDER BY updated_at DESC LIMIT 10`).
		WithArgs(testSalonID.String(), `%50\%\_off\\%`, `%50\%\_off\\%`, `%50\%\_off\\%`).
		WillReturnRows(sqlmock.NewRows(customerColumns))

	list, err := repo.Search(context.Background(), testSalonID, `50%_off\`, 10)

	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "jane", escapeLike("jane"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\d`, escapeLike(`c:\d`))
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(`DELETE FROM customers WHERE id = \$1 AND salon_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), testSalonID, uuid.New())
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
