package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	appointmentRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/appointment"
	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
	"github.com/vaidhya-health/appointment-service/pkg/ptr"
)

// --- Фейки ---

type fakeAppointmentRepo struct {
	appointment *domain.Appointment
	list        []*domain.Appointment

	listedFilter domain.AppointmentFilter
	updateErr    error

	rejectedReason string
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.appointment == nil {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *f.appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	f.listedFilter = filter
	return f.list, nil
}

func (f *fakeAppointmentRepo) UpdateStatusIf(_ context.Context, _ int64, _ []domain.AppointmentStatus, to domain.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.appointment.Status = to
	return nil
}

func (f *fakeAppointmentRepo) SetRejected(_ context.Context, _ int64, reason string, _ []domain.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.rejectedReason = reason
	f.appointment.Status = domain.StatusRejected
	f.appointment.CancellationReason = &reason
	return nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) GetUser(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id, MobileNumber: "9000000001"}, nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, _, message string) error {
	f.sent = append(f.sent, message)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстуры ---

var testDateTime = time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

func pendingDoctorAppointment() *domain.Appointment {
	video := domain.ConsultationVideo
	return &domain.Appointment{
		ID:               101,
		Type:             domain.TypeDoctor,
		CustomerID:       1,
		DoctorID:         ptr.Ptr(int64(2)),
		DateTime:         testDateTime,
		ConsultationType: &video,
		Amount:           500,
		Currency:         "INR",
		Status:           domain.StatusPending,
	}
}

func newTestService(repo *fakeAppointmentRepo, notifier *fakeNotifier) *Service {
	return NewService(repo, fakeUserRepo{}, notifier, nopLogger{})
}

// --- Тесты ---

func TestGetByID(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{appointment: pendingDoctorAppointment()}, &fakeNotifier{})

	// Клиент и провайдер записи видят её, посторонний - нет
	resp, err := svc.GetByID(context.Background(), 101, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)

	_, err = svc.GetByID(context.Background(), 101, 2)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 101, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeNotifier{})

	_, err := svc.GetByID(context.Background(), 101, 1)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetCustomerAppointments(t *testing.T) {
	repo := &fakeAppointmentRepo{list: []*domain.Appointment{pendingDoctorAppointment()}}
	svc := newTestService(repo, &fakeNotifier{})

	resp, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 1,
		Type:       ptr.Ptr("doctor"),
		Status:     ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)

	require.NotNil(t, repo.listedFilter.CustomerID)
	assert.Equal(t, int64(1), *repo.listedFilter.CustomerID)
	require.NotNil(t, repo.listedFilter.Type)
	assert.Equal(t, domain.TypeDoctor, *repo.listedFilter.Type)
	require.NotNil(t, repo.listedFilter.Status)
	assert.Equal(t, domain.StatusPending, *repo.listedFilter.Status)
}

func TestGetCustomerAppointments_InvalidFilter(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeNotifier{})

	_, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 1,
		Type:       ptr.Ptr("dentist"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{
		CustomerID: 1,
		Status:     ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProviderAppointments_RoleDrivesType(t *testing.T) {
	tests := []struct {
		role     string
		wantType domain.AppointmentType
	}{
		{"doctor", domain.TypeDoctor},
		{"hospital", domain.TypeHospital},
		{"vendor", domain.TypeService},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			repo := &fakeAppointmentRepo{}
			svc := newTestService(repo, &fakeNotifier{})

			_, err := svc.GetProviderAppointments(context.Background(), &models.GetProviderAppointmentsRequest{
				ProviderID: 2,
				Role:       tt.role,
			})
			require.NoError(t, err)
			require.NotNil(t, repo.listedFilter.Type)
			assert.Equal(t, tt.wantType, *repo.listedFilter.Type)
		})
	}
}

func TestGetProviderAppointments_NonProviderRole(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeNotifier{})

	_, err := svc.GetProviderAppointments(context.Background(), &models.GetProviderAppointmentsRequest{
		ProviderID: 1,
		Role:       "customer",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRespond_Confirm(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: pendingDoctorAppointment()}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	resp, err := svc.Respond(context.Background(), 101, &models.RespondRequest{
		ProviderID: 2,
		Action:     "confirm",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	// Клиенту ушло уведомление о смене статуса
	assert.Len(t, notifier.sent, 1)
}

func TestRespond_RejectWithReason(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: pendingDoctorAppointment()}
	svc := newTestService(repo, &fakeNotifier{})

	resp, err := svc.Respond(context.Background(), 101, &models.RespondRequest{
		ProviderID: 2,
		Action:     "reject",
		Reason:     ptr.Ptr("Fully booked this week"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	assert.Equal(t, "Fully booked this week", repo.rejectedReason)
}

func TestRespond_RejectDefaultReason(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: pendingDoctorAppointment()}
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.Respond(context.Background(), 101, &models.RespondRequest{
		ProviderID: 2,
		Action:     "reject",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rejected by provider", repo.rejectedReason)
}

func TestRespond_WrongProvider(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{appointment: pendingDoctorAppointment()}, &fakeNotifier{})

	_, err := svc.Respond(context.Background(), 101, &models.RespondRequest{
		ProviderID: 999,
		Action:     "confirm",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRespond_InvalidAction(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{appointment: pendingDoctorAppointment()}, &fakeNotifier{})

	_, err := svc.Respond(context.Background(), 101, &models.RespondRequest{
		ProviderID: 2,
		Action:     "postpone",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRespond_FinalizedAppointment(t *testing.T) {
	appt := pendingDoctorAppointment()
	appt.Status = domain.StatusCompleted

	svc := newTestService(&fakeAppointmentRepo{appointment: appt}, &fakeNotifier{})

	_, err := svc.Respond(context.Background(), 101, &models.RespondRequest{
		ProviderID: 2,
		Action:     "confirm",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRespond_ConcurrentStatusChange(t *testing.T) {
	// Условное обновление проиграло конкурентной отмене
	repo := &fakeAppointmentRepo{
		appointment: pendingDoctorAppointment(),
		updateErr:   appointmentRepo.ErrStatusConflict,
	}

	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.Respond(context.Background(), 101, &models.RespondRequest{
		ProviderID: 2,
		Action:     "confirm",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
