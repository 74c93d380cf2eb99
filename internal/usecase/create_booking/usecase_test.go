package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
	catalogRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/catalog"
)

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

type fakeBookingRepo struct {
	created   []*domain.Booking
	createErr error
}

func (r *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *b
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	r.created = append(r.created, &clone)
	return &clone, nil
}

type fakeCatalogRepo struct {
	locations map[string]*domain.Location
	services  map[string]*domain.Service
	staff     map[string]*domain.Staff
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		locations: map[string]*domain.Location{
			"loc-1": {ID: "loc-1", Name: "Downtown", Timezone: "UTC"},
		},
		services: map[string]*domain.Service{
			"svc-1": {ID: "svc-1", Name: "Haircut", Price: 25, DurationMinutes: 30, MaxCapacity: 1, IsActive: true, LocationIDs: []string{"loc-1"}},
			"svc-2": {ID: "svc-2", Name: "Group yoga", Price: 15, DurationMinutes: 60, MaxCapacity: 2, IsActive: true, LocationIDs: []string{"loc-1"}},
		},
		staff: map[string]*domain.Staff{
			"staff-1": {ID: "staff-1", FullName: "Dara Kim", LocationIDs: []string{"loc-1"}, ServiceIDs: []string{"svc-1", "svc-2"}},
			"staff-2": {ID: "staff-2", FullName: "Sokha Chan", LocationIDs: []string{"loc-1"}, ServiceIDs: []string{"svc-2"}},
			"staff-3": {ID: "staff-3", FullName: "Maly Sor", LocationIDs: []string{"loc-1"}, ServiceIDs: []string{"svc-2"}},
		},
	}
}

func (r *fakeCatalogRepo) GetLocation(_ context.Context, id string) (*domain.Location, error) {
	loc, ok := r.locations[id]
	if !ok {
		return nil, catalogRepo.ErrLocationNotFound
	}
	return loc, nil
}

func (r *fakeCatalogRepo) GetService(_ context.Context, id string) (*domain.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return svc, nil
}

func (r *fakeCatalogRepo) GetStaff(_ context.Context, id string) (*domain.Staff, error) {
	st, ok := r.staff[id]
	if !ok {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return st, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func fixedNow() time.Time {
	return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
}

func newTestUseCase(repo *fakeBookingRepo, index *availability.Index) *UseCase {
	uc := NewUseCase(repo, newFakeCatalogRepo(), index, fakeTxManager{}, nopLogger{}, 90, 180)
	uc.timeProvider = &fakeTimeProvider{now: fixedNow()}
	return uc
}

func validRequest() *Request {
	return &Request{
		LocationID:    "loc-1",
		ServiceID:     "svc-1",
		StaffID:       "staff-1",
		CustomerID:    "cust-1",
		StartTime:     fixedNow().Add(24 * time.Hour),
		PaymentMethod: string(domain.PaymentMethodPayLater),
	}
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	index := availability.NewIndex(time.Second)
	uc := newTestUseCase(repo, index)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.Equal(t, 25.0, resp.TotalPrice)
	assert.Equal(t, 0.0, resp.PaidAmount)
	assert.Equal(t, 1, resp.OccurrenceCount)
	// Конец вычислен из длительности услуги
	assert.Equal(t, resp.StartTime.Add(30*time.Minute), resp.EndTime)
	require.Len(t, repo.created, 1)

	// Слот сотрудника занят
	busy := domain.Interval{Start: resp.StartTime, End: resp.EndTime}
	assert.False(t, index.IsFree(availability.StaffKey("staff-1"), busy, 1, ""))
}

func TestExecute_WeeklySeriesReservesAllOccurrences(t *testing.T) {
	repo := &fakeBookingRepo{}
	index := availability.NewIndex(time.Second)
	uc := newTestUseCase(repo, index)

	req := validRequest()
	req.RecurrencePattern = string(domain.RecurrenceWeekly)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	// 90 дней горизонта вмещают 13 недельных вхождений
	assert.Equal(t, 13, resp.OccurrenceCount)

	nextWeek := domain.Interval{
		Start: resp.StartTime.Add(7 * 24 * time.Hour),
		End:   resp.EndTime.Add(7 * 24 * time.Hour),
	}
	assert.False(t, index.IsFree(availability.StaffKey("staff-1"), nextWeek, 1, ""))
}

func TestExecute_StaffConflictRejected(t *testing.T) {
	repo := &fakeBookingRepo{}
	index := availability.NewIndex(time.Second)
	uc := newTestUseCase(repo, index)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Тот же сотрудник, пересекающееся время, другой клиент
	req := validRequest()
	req.CustomerID = "cust-2"
	req.StartTime = req.StartTime.Add(15 * time.Minute)

	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, repo.created, 1, "конфликтная бронь не сохраняется")
}

func TestExecute_CapacityAllowsParallelBookings(t *testing.T) {
	repo := &fakeBookingRepo{}
	index := availability.NewIndex(time.Second)
	uc := newTestUseCase(repo, index)

	start := fixedNow().Add(24 * time.Hour)
	for i, staffID := range []string{"staff-1", "staff-2"} {
		req := validRequest()
		req.ServiceID = "svc-2"
		req.StaffID = staffID
		req.StartTime = start
		_, err := uc.Execute(context.Background(), req)
		require.NoError(t, err, "booking %d within capacity", i+1)
	}

	// Вместимость svc-2 равна 2: третья параллельная бронь отклоняется
	req := validRequest()
	req.ServiceID = "svc-2"
	req.StaffID = "staff-3"
	req.StartTime = start
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_PersistFailureReleasesReservations(t *testing.T) {
	repo := &fakeBookingRepo{createErr: errors.New("db down")}
	index := availability.NewIndex(time.Second)
	uc := newTestUseCase(repo, index)

	req := validRequest()
	_, err := uc.Execute(context.Background(), req)
	require.Error(t, err)

	// Резервации сняты - слот снова свободен
	busy := domain.Interval{Start: req.StartTime, End: req.StartTime.Add(30 * time.Minute)}
	assert.True(t, index.IsFree(availability.StaffKey("staff-1"), busy, 1, ""))
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"empty customer", func(r *Request) { r.CustomerID = "" }, ErrInvalidInput},
		{"start in past", func(r *Request) { r.StartTime = fixedNow().Add(-time.Hour) }, ErrStartInPast},
		{"beyond horizon", func(r *Request) { r.StartTime = fixedNow().AddDate(0, 0, 120) }, ErrDateTooFarInFuture},
		{"unknown payment method", func(r *Request) { r.PaymentMethod = "cash" }, ErrInvalidInput},
		{"unknown pattern", func(r *Request) { r.RecurrencePattern = "yearly" }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeBookingRepo{}, availability.NewIndex(time.Second))
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_CatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"unknown location", func(r *Request) { r.LocationID = "ghost" }, ErrLocationNotFound},
		{"unknown service", func(r *Request) { r.ServiceID = "ghost" }, ErrServiceNotFound},
		{"unknown staff", func(r *Request) { r.StaffID = "ghost" }, ErrStaffNotFound},
		{"staff not qualified", func(r *Request) { r.ServiceID = "svc-1"; r.StaffID = "staff-2" }, ErrStaffNotQualified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeBookingRepo{}, availability.NewIndex(time.Second))
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
