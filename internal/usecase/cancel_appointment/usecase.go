package cancel_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	appointmentRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/appointment"
	"github.com/vaidhya-health/appointment-service/pkg/types"
)

// UseCase use case отмены записи и освобождения слота.
// Слот освобождается по ОРИГИНАЛЬНОМУ моменту записи: даже если провайдер
// с тех пор перекроил расписание, освобождение остается no-op без ошибки.
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	userRepo         UserRepository
	notifier         Notifier
	txManager        TransactionManager
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	userRepo UserRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute выполняет use case отмены записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: appointment=%d, user=%d", req.AppointmentID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем запись
	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CancelAppointment: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 3. Отменять может клиент записи или её провайдер
	if appointment.CustomerID != req.UserID && appointment.ProviderID() != req.UserID {
		uc.logger.Warn("CancelAppointment: access denied for user=%d to appointment id=%d",
			req.UserID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	// 4. Завершенные и отмененные записи не отменяются повторно
	if !appointment.CanBeCancelled() {
		uc.logger.Warn("CancelAppointment: appointment id=%d is already %s", req.AppointmentID, appointment.Status)
		return nil, ErrAlreadyFinalized
	}

	reason := "Cancelled"
	if req.Reason != nil && *req.Reason != "" {
		reason = *req.Reason
	} else if appointment.CustomerID == req.UserID {
		reason = "Cancelled by customer"
	} else {
		reason = "Cancelled by provider"
	}

	slotReleased := false

	// 5. Отмена и освобождение слота - атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.Cancel(txCtx, req.AppointmentID, reason); err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusConflict) {
				return ErrAlreadyFinalized
			}
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}

		// Освобождаем слот по оригинальному моменту записи
		if appointment.Type == domain.TypeDoctor {
			weekday := domain.WeekdayOf(appointment.DateTime)
			timeOfDay := types.NewTimeString(appointment.DateTime)

			if err := uc.availabilityRepo.ReleaseSlot(txCtx, appointment.ProviderID(), weekday, timeOfDay); err != nil {
				return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
			}
			slotReleased = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 6. Уведомляем клиента, ошибки уведомления не влияют на результат
	uc.notifyCustomer(ctx, appointment, reason)

	updated, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		uc.logger.Error("CancelAppointment: failed to reload appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelAppointment: appointment id=%d cancelled, slotReleased=%v", updated.ID, slotReleased)

	return &Response{
		ID:                 updated.ID,
		DisplayID:          updated.DisplayID(),
		Status:             string(updated.Status),
		CancellationReason: updated.CancellationReason,
		CancelledAt:        updated.CancelledAt,
		SlotReleased:       slotReleased,
	}, nil
}

// notifyCustomer отправляет клиенту SMS об отмене записи
func (uc *UseCase) notifyCustomer(ctx context.Context, appointment *domain.Appointment, reason string) {
	customer, err := uc.userRepo.GetUser(ctx, appointment.CustomerID)
	if err != nil {
		uc.logger.Warn("CancelAppointment: failed to load customer=%d for notification: %v",
			appointment.CustomerID, err)
		return
	}

	message := fmt.Sprintf("Your appointment %s has been cancelled: %s", appointment.DisplayID(), reason)
	if err := uc.notifier.Send(ctx, customer.MobileNumber, message); err != nil {
		uc.logger.Warn("CancelAppointment: failed to send SMS for appointment id=%d: %v", appointment.ID, err)
	}
}
