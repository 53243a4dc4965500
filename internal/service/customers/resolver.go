package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	customerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/customer"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/phone"
)

// Resolve находит клиента по (salon, phone) или создает нового.
// Существующие данные дополняются: непустые отличающиеся значения имени, фамилии и email
// перезаписываются, пустые никогда не затирают сохраненные.
// Вызывается внутри транзакции бронирования; без нее открывает собственную.
func (s *Service) Resolve(ctx context.Context, req models.ResolveRequest) (*domain.Customer, error) {
	digits, err := phone.Normalize(req.Phone)
	if err != nil {
		return nil, ErrInvalidPhone
	}

	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := strings.TrimSpace(req.Email)

	var resolved *domain.Customer
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByPhone(txCtx, req.SalonID, digits)
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			created := &domain.Customer{
				SalonID:   req.SalonID,
				Phone:     digits,
				FirstName: domain.OrDefault(first, domain.PlaceholderFirstName),
				LastName:  domain.OrDefault(last, domain.PlaceholderLastName),
				Email:     nilIfEmpty(email),
			}
			inserted, err := s.repo.InsertIfAbsent(txCtx, created)
			if err != nil {
				return err
			}
			if inserted {
				s.logger.Info("Resolve: created customer id=%s", created.ID)
				resolved = created
				return nil
			}

			// параллельная запись успела создать клиента: берем его и дополняем
			existing, err = s.repo.GetByPhone(txCtx, req.SalonID, digits)
		}
		if err != nil {
			return err
		}

		fields := mergeFields(existing, first, last, email)
		if !fields.IsEmpty() {
			if err := s.repo.Update(txCtx, req.SalonID, existing.ID, fields); err != nil {
				return err
			}
			applyFields(existing, fields)
			s.logger.Info("Resolve: merged new details into customer id=%s", existing.ID)
		}

		resolved = existing
		return nil
	})
	if err != nil {
		s.logger.Error("Resolve: failed for salon=%s: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: Resolve: %v", ErrInternal, err)
	}

	return resolved, nil
}

// LookupByPhone возвращает данные постоянного клиента для предзаполнения формы
func (s *Service) LookupByPhone(ctx context.Context, salonID uuid.UUID, rawPhone string) (*models.LookupResult, error) {
	digits, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, ErrInvalidPhone
	}

	c, err := s.repo.GetByPhone(ctx, salonID, digits)
	if errors.Is(err, customerRepo.ErrCustomerNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		s.logger.Error("LookupByPhone: repository error: %v", err)
		return nil, fmt.Errorf("%w: LookupByPhone: %v", ErrInternal, err)
	}

	return &models.LookupResult{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}, nil
}

// AdvanceLastVisit сдвигает дату последнего визита вперед; более ранняя дата игнорируется
func (s *Service) AdvanceLastVisit(ctx context.Context, customerID uuid.UUID, visitAt time.Time) error {
	advanced, err := s.repo.AdvanceLastVisit(ctx, customerID, visitAt)
	if err != nil {
		s.logger.Error("AdvanceLastVisit: customer id=%s: %v", customerID, err)
		return fmt.Errorf("%w: AdvanceLastVisit: %v", ErrInternal, err)
	}
	if advanced {
		s.logger.Info("AdvanceLastVisit: customer id=%s last_visit=%s", customerID, visitAt.Format(time.RFC3339))
	}
	return nil
}

func mergeFields(existing *domain.Customer, first, last, email string) customerRepo.UpdateFields {
	var fields customerRepo.UpdateFields
	if first != "" && first != existing.FirstName {
		fields.FirstName = &first
	}
	if last != "" && last != existing.LastName {
		fields.LastName = &last
	}
	if email != "" && (existing.Email == nil || *existing.Email != email) {
		fields.Email = &sql.NullString{String: email, Valid: true}
	}
	return fields
}

func applyFields(c *domain.Customer, f customerRepo.UpdateFields) {
	if f.FirstName != nil {
		c.FirstName = *f.FirstName
	}
	if f.LastName != nil {
		c.LastName = *f.LastName
	}
	if f.Phone != nil {
		c.Phone = *f.Phone
	}
	if f.Email != nil {
		c.Email = nullToPtr(*f.Email)
	}
	if f.Notes != nil {
		c.Notes = nullToPtr(*f.Notes)
	}
	if f.MarketingOptIn != nil {
		c.MarketingOptIn = *f.MarketingOptIn
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullToPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
