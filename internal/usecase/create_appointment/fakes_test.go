package create_appointment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	customerModels "github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notification"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var salonTZ = time.FixedZone("CST", -6*3600)

type slotKey struct {
	date string
	time types.TimeString
}

// fakeStore хранилище записей с атомарной проверкой вместимости, как у CHECK в БД
type fakeStore struct {
	mu           sync.Mutex
	seats        map[slotKey]int
	appointments []*domain.Appointment
	createErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{seats: make(map[slotKey]int)}
}

func key(date time.Time, t types.TimeString) slotKey {
	return slotKey{date: date.Format(domain.DateFormat), time: t}
}

func (s *fakeStore) CountBySlot(ctx context.Context, salonID uuid.UUID, date time.Time, t types.TimeString) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[key(date, t)], nil
}

func (s *fakeStore) ReserveSeat(ctx context.Context, salonID uuid.UUID, date time.Time, t types.TimeString) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(date, t)
	if s.seats[k] >= domain.SlotCapacity {
		return 0, fmt.Errorf("%w: ReserveSeat - check constraint", appointmentRepo.ErrSlotCapacityExceeded)
	}
	s.seats[k]++
	return s.seats[k], nil
}

func (s *fakeStore) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	stored := *appt
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	s.appointments = append(s.appointments, &stored)
	out := stored
	return &out, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

// fill занимает все места во времени
func (s *fakeStore) fill(date time.Time, t types.TimeString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats[key(date, t)] = domain.SlotCapacity
}

type fakeResolver struct {
	mu         sync.Mutex
	byPhone    map[string]*domain.Customer
	calls      int
	lastVisits map[uuid.UUID]time.Time
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		byPhone:    make(map[string]*domain.Customer),
		lastVisits: make(map[uuid.UUID]time.Time),
	}
}

func (r *fakeResolver) Resolve(ctx context.Context, req customerModels.ResolveRequest) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	c, ok := r.byPhone[req.Phone]
	if !ok {
		c = &domain.Customer{
			ID:        uuid.New(),
			SalonID:   req.SalonID,
			Phone:     req.Phone,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}
		r.byPhone[req.Phone] = c
	}
	if req.LastName != "" {
		c.LastName = req.LastName
	}
	out := *c
	return &out, nil
}

func (r *fakeResolver) AdvanceLastVisit(ctx context.Context, customerID uuid.UUID, visitAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.lastVisits[customerID]; !ok || visitAt.After(prev) {
		r.lastVisits[customerID] = visitAt
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (n *fakeNotifier) Notify(ctx context.Context, msg notification.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *fakeMetrics) ObserveAppointment(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }
