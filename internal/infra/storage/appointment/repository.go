package appointment

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
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	tableAppointments = "appointments"
	tableSlotSeats    = "appointment_slot_seats"
)

var appointmentColumns = []string{
	"id",
	"salon_id",
	"date",
	"time",
	"customer_id",
	"first_name",
	"last_name",
	"phone",
	"email",
	"tech",
	"message",
	"created_at",
}

// Repository репозиторий записей и счетчиков мест в слотах
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// dateArg передает дату в БД без часового пояса (колонка DATE)
func dateArg(t time.Time) string {
	return t.Format(domain.DateFormat)
}

// Create сохраняет запись. ID генерируется, если не задан.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableAppointments).
		Columns(
			"id",
			"salon_id",
			"date",
			"time",
			"customer_id",
			"first_name",
			"last_name",
			"phone",
			"email",
			"tech",
			"message",
		).
		Values(
			appt.ID,
			appt.SalonID,
			dateArg(appt.Date),
			appt.Time,
			appt.CustomerID,
			appt.FirstName,
			appt.LastName,
			appt.Phone,
			appt.Email,
			appt.Tech,
			appt.Message,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&appt.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// ListByDate возвращает записи салона на дату, отсортированные по времени
func (r *Repository) ListByDate(ctx context.Context, salonID uuid.UUID, date time.Time) ([]*domain.Appointment, error) {
	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"salon_id": salonID, "date": dateArg(date)}).
		OrderBy("time ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.list(ctx, "ListByDate", query, args)
}

// ListByCustomer возвращает историю записей клиента, сначала новые
func (r *Repository) ListByCustomer(ctx context.Context, salonID, customerID uuid.UUID) ([]*domain.Appointment, error) {
	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"salon_id": salonID, "customer_id": customerID}).
		OrderBy("date DESC", "time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	return r.list(ctx, "ListByCustomer", query, args)
}

// CountByTime строит карту "время -> количество записей" на дату
func (r *Repository) CountByTime(ctx context.Context, salonID uuid.UUID, date time.Time) (map[types.TimeString]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("time", "COUNT(*)").
		From(tableAppointments).
		Where(squirrel.Eq{"salon_id": salonID, "date": dateArg(date)}).
		GroupBy("time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountByTime - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByTime - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[types.TimeString]int)
	for rows.Next() {
		var (
			t     types.TimeString
			count int
		)
		if err := rows.Scan(&t, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByTime - scan row: %v", ErrScanRow, err)
		}
		counts[t] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByTime - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// CountBySlot возвращает текущее количество записей на конкретные дату и время
func (r *Repository) CountBySlot(ctx context.Context, salonID uuid.UUID, date time.Time, t types.TimeString) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableAppointments).
		Where(squirrel.Eq{"salon_id": salonID, "date": dateArg(date), "time": t}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ReserveSeat занимает место в слоте и возвращает новое количество занятых мест.
// Строка счетчика блокируется до конца транзакции, поэтому параллельные резервирования
// выполняются по очереди, а CHECK отклоняет переполнение.
func (r *Repository) ReserveSeat(ctx context.Context, salonID uuid.UUID, date time.Time, t types.TimeString) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableSlotSeats).
		Columns("salon_id", "date", "time", "booked").
		Values(salonID, dateArg(date), t, 1).
		Suffix("ON CONFLICT (salon_id, date, time) DO UPDATE SET booked = " + tableSlotSeats + ".booked + 1 RETURNING booked").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ReserveSeat - build upsert query: %v", ErrBuildQuery, err)
	}

	var booked int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booked)
	if isPgError(err, pgCheckViolation) {
		return 0, ErrSlotCapacityExceeded
	}
	if err != nil {
		return 0, fmt.Errorf("%w: ReserveSeat - execute upsert: %v", ErrExecQuery, err)
	}

	return booked, nil
}

// ReleaseSeat освобождает место в слоте (счетчик не уходит ниже нуля)
func (r *Repository) ReleaseSeat(ctx context.Context, salonID uuid.UUID, date time.Time, t types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableSlotSeats).
		Set("booked", squirrel.Expr("booked - 1")).
		Where(squirrel.Eq{"salon_id": salonID, "date": dateArg(date), "time": t}).
		Where(squirrel.Gt{"booked": 0}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseSeat - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseSeat - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет запись и возвращает удаленную строку (нужна для освобождения места)
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableAppointments).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(appointmentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return appt, nil
}

func (r *Repository) list(ctx context.Context, op, query string, args []interface{}) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt       domain.Appointment
		customerID uuid.NullUUID
		email      sql.NullString
	)

	err := row.Scan(
		&appt.ID,
		&appt.SalonID,
		&appt.Date,
		&appt.Time,
		&customerID,
		&appt.FirstName,
		&appt.LastName,
		&appt.Phone,
		&email,
		&appt.Tech,
		&appt.Message,
		&appt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerID.Valid {
		id := customerID.UUID
		appt.CustomerID = &id
	}
	if email.Valid {
		appt.Email = &email.String
	}

	return &appt, nil
}
