package customer

import (
	"database/sql"

	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// UpdateFields частичное обновление клиента: nil поле не изменяется.
// Для Email и Notes Valid=false означает очистку (NULL).
type UpdateFields struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	Email          *sql.NullString
	Notes          *sql.NullString
	MarketingOptIn *bool
}

// IsEmpty возвращает true, если не передано ни одного поля
func (f UpdateFields) IsEmpty() bool {
	return f.FirstName == nil && f.LastName == nil && f.Phone == nil &&
		f.Email == nil && f.Notes == nil && f.MarketingOptIn == nil
}
