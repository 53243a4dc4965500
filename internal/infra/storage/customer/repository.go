package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/phone"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const tableCustomers = "customers"

var customerColumns = []string{
	"id",
	"salon_id",
	"phone",
	"first_name",
	"last_name",
	"email",
	"marketing_opt_in",
	"notes",
	"last_visit",
	"created_at",
	"updated_at",
}

// Repository репозиторий клиентов салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByPhone ищет клиента по естественному ключу (salon_id, phone).
// Внутри транзакции строка блокируется (FOR UPDATE) до конца транзакции.
func (r *Repository) GetByPhone(ctx context.Context, salonID uuid.UUID, phone string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(customerColumns...).
		From(tableCustomers).
		Where(squirrel.Eq{"salon_id": salonID, "phone": phone})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPhone - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanCustomer(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPhone - scan customer: %v", ErrScanRow, err)
	}

	return c, nil
}

// GetByID получает клиента салона по ID
func (r *Repository) GetByID(ctx context.Context, salonID, id uuid.UUID) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(customerColumns...).
		From(tableCustomers).
		Where(squirrel.Eq{"id": id, "salon_id": salonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanCustomer(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan customer: %v", ErrScanRow, err)
	}

	return c, nil
}

// InsertIfAbsent создает клиента, если телефон еще не занят.
// Возвращает false, если клиент с таким телефоном уже существует.
func (r *Repository) InsertIfAbsent(ctx context.Context, c *domain.Customer) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableCustomers).
		Columns("id", "salon_id", "phone", "first_name", "last_name", "email", "marketing_opt_in", "notes").
		Values(c.ID, c.SalonID, c.Phone, c.FirstName, c.LastName, c.Email, c.MarketingOptIn, c.Notes).
		Suffix("ON CONFLICT (salon_id, phone) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// Upsert создает клиента или перезаписывает данные клиента с тем же телефоном
func (r *Repository) Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableCustomers).
		Columns("id", "salon_id", "phone", "first_name", "last_name", "email", "marketing_opt_in", "notes").
		Values(c.ID, c.SalonID, c.Phone, c.FirstName, c.LastName, c.Email, c.MarketingOptIn, c.Notes).
		Suffix("ON CONFLICT (salon_id, phone) DO UPDATE SET " +
			"first_name = EXCLUDED.first_name, " +
			"last_name = EXCLUDED.last_name, " +
			"email = EXCLUDED.email, " +
			"marketing_opt_in = EXCLUDED.marketing_opt_in, " +
			"notes = EXCLUDED.notes, " +
			"updated_at = NOW() " +
			"RETURNING " + strings.Join(customerColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	saved, err := scanCustomer(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	return saved, nil
}

// Update применяет частичное обновление
func (r *Repository) Update(ctx context.Context, salonID, id uuid.UUID, fields UpdateFields) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(tableCustomers).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "salon_id": salonID})

	if fields.FirstName != nil {
		updateBuilder = updateBuilder.Set("first_name", *fields.FirstName)
	}
	if fields.LastName != nil {
		updateBuilder = updateBuilder.Set("last_name", *fields.LastName)
	}
	if fields.Phone != nil {
		updateBuilder = updateBuilder.Set("phone", *fields.Phone)
	}
	if fields.Email != nil {
		updateBuilder = updateBuilder.Set("email", *fields.Email)
	}
	if fields.Notes != nil {
		updateBuilder = updateBuilder.Set("notes", *fields.Notes)
	}
	if fields.MarketingOptIn != nil {
		updateBuilder = updateBuilder.Set("marketing_opt_in", *fields.MarketingOptIn)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrDuplicatePhone
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// AdvanceLastVisit сдвигает last_visit вперед, если visitAt позже сохраненного значения (или оно пустое).
// Возвращает true, если значение изменилось.
func (r *Repository) AdvanceLastVisit(ctx context.Context, id uuid.UUID, visitAt time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableCustomers).
		Set("last_visit", visitAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{
			squirrel.Eq{"last_visit": nil},
			squirrel.Lt{"last_visit": visitAt},
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: AdvanceLastVisit - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: AdvanceLastVisit - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: AdvanceLastVisit - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// Delete удаляет клиента салона. Записи клиента остаются (customer_id -> NULL).
func (r *Repository) Delete(ctx context.Context, salonID, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableCustomers).
		Where(squirrel.Eq{"id": id, "salon_id": salonID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// likeEscaper экранирует спецсимволы LIKE (escape-символ по умолчанию в PostgreSQL - обратный слеш)
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Search ищет клиентов по подстроке имени, фамилии или телефона; сначала недавно обновленные
func (r *Repository) Search(ctx context.Context, salonID uuid.UUID, q string, limit uint64) ([]*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	pattern := "%" + escapeLike(q) + "%"
	conditions := squirrel.Or{
		squirrel.ILike{"first_name": pattern},
		squirrel.ILike{"last_name": pattern},
		squirrel.ILike{"phone": pattern},
	}
	if digits := phone.Digits(q); len(digits) >= 3 && digits != q {
		conditions = append(conditions, squirrel.Like{"phone": "%" + digits + "%"})
	}

	query, args, err := psqlbuilder.Select(customerColumns...).
		From(tableCustomers).
		Where(squirrel.Eq{"salon_id": salonID}).
		Where(conditions).
		OrderBy("updated_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: Search - scan row: %v", ErrScanRow, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Search - rows error: %v", ErrScanRow, err)
	}

	return customers, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		c         domain.Customer
		email     sql.NullString
		notes     sql.NullString
		lastVisit sql.NullTime
	)

	err := row.Scan(
		&c.ID,
		&c.SalonID,
		&c.Phone,
		&c.FirstName,
		&c.LastName,
		&email,
		&c.MarketingOptIn,
		&notes,
		&lastVisit,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		c.Email = &email.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	if lastVisit.Valid {
		c.LastVisit = &lastVisit.Time
	}

	return &c, nil
}
