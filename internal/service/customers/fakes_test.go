package customers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	customerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/customer"
)

// fakeRepo хранилище клиентов в памяти с уникальностью (salon_id, phone)
type fakeRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*domain.Customer
	updates   int
	// lostRace имитирует параллельную вставку: InsertIfAbsent создает "чужую" строку и возвращает false
	lostRace *domain.Customer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (f *fakeRepo) add(c *domain.Customer) *domain.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	f.customers[c.ID] = &cp
	return c
}

func (f *fakeRepo) findByPhone(salonID uuid.UUID, phone string) *domain.Customer {
	for _, c := range f.customers {
		if c.SalonID == salonID && c.Phone == phone {
			return c
		}
	}
	return nil
}

func (f *fakeRepo) GetByPhone(ctx context.Context, salonID uuid.UUID, phone string) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.findByPhone(salonID, phone)
	if c == nil {
		return nil, customerRepo.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, salonID, id uuid.UUID) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok || c.SalonID != salonID {
		return nil, customerRepo.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) InsertIfAbsent(ctx context.Context, c *domain.Customer) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lostRace != nil {
		winner := *f.lostRace
		f.customers[winner.ID] = &winner
		f.lostRace = nil
		return false, nil
	}
	if f.findByPhone(c.SalonID, c.Phone) != nil {
		return false, nil
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	f.customers[c.ID] = &cp
	return true, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing := f.findByPhone(c.SalonID, c.Phone); existing != nil {
		c.ID = existing.ID
	} else if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	f.customers[c.ID] = &cp
	return c, nil
}

func (f *fakeRepo) Update(ctx context.Context, salonID, id uuid.UUID, fields customerRepo.UpdateFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok || c.SalonID != salonID {
		return customerRepo.ErrCustomerNotFound
	}
	if fields.Phone != nil {
		if other := f.findByPhone(salonID, *fields.Phone); other != nil && other.ID != id {
			return customerRepo.ErrDuplicatePhone
		}
	}
	f.updates++
	applyFields(c, fields)
	return nil
}

func (f *fakeRepo) AdvanceLastVisit(ctx context.Context, id uuid.UUID, visitAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok || !c.VisitIsNewer(visitAt) {
		return false, nil
	}
	c.LastVisit = &visitAt
	return true, nil
}

func (f *fakeRepo) Delete(ctx context.Context, salonID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok || c.SalonID != salonID {
		return customerRepo.ErrCustomerNotFound
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeRepo) Search(ctx context.Context, salonID uuid.UUID, q string, limit uint64) ([]*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q = strings.ToLower(q)
	out := make([]*domain.Customer, 0)
	for _, c := range f.customers {
		if c.SalonID != salonID {
			continue
		}
		if strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(c.Phone, q) {
			cp := *c
			out = append(out, &cp)
		}
		if uint64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.customers)
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
