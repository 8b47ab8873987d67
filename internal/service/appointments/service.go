package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	appointmentRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/appointment"
	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
)

// Service сервис для работы с записями на прием
type Service struct {
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - запись видят только её клиент и её провайдер
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if appointment.CustomerID != userID && appointment.ProviderID() != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetCustomerAppointments получает историю записей клиента
// Опционально фильтрует по типу и статусу; latestOnly оставляет одну
// самую свежую запись
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, type=%v, status=%v",
		req.CustomerID, req.Type, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCustomerAppointments: invalid filter for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d",
		len(appointments), req.CustomerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetProviderAppointments получает записи провайдера
// Роль провайдера однозначно определяет тип записей
func (s *Service) GetProviderAppointments(ctx context.Context, req *models.GetProviderAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetProviderAppointments: fetching appointments for provider=%d, role=%s, status=%v",
		req.ProviderID, req.Role, req.Status)

	appointmentType, err := appointmentTypeForRole(domain.Role(req.Role))
	if err != nil {
		s.logger.Warn("GetProviderAppointments: invalid role=%s for provider=%d", req.Role, req.ProviderID)
		return nil, fmt.Errorf("%w: invalid provider role", ErrInvalidInput)
	}

	filter := domain.AppointmentFilter{
		ProviderID: &req.ProviderID,
		Type:       &appointmentType,
	}
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetProviderAppointments: invalid status=%s for provider=%d", *req.Status, req.ProviderID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderAppointments: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderAppointments: successfully fetched %d appointments for provider=%d",
		len(appointments), req.ProviderID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Respond обрабатывает ответ провайдера на запрос записи: подтверждение
// или отказ с причиной. Переход выполняется условным обновлением, так что
// параллельная отмена клиентом не может быть перезаписана.
func (s *Service) Respond(ctx context.Context, appointmentID int64, req *models.RespondRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Respond: provider=%d action=%s for appointment id=%d", req.ProviderID, req.Action, appointmentID)

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Respond: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Respond: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Respond - repository error: %v", ErrInternal, err)
	}

	// Отвечать может только провайдер, на которого оформлена запись
	if appointment.ProviderID() != req.ProviderID {
		s.logger.Warn("Respond: access denied for provider=%d to appointment id=%d", req.ProviderID, appointmentID)
		return nil, ErrAccessDenied
	}

	var target domain.AppointmentStatus
	switch req.Action {
	case "confirm":
		target = domain.StatusConfirmed
	case "reject":
		target = domain.StatusRejected
	default:
		s.logger.Warn("Respond: invalid action=%s for appointment id=%d", req.Action, appointmentID)
		return nil, fmt.Errorf("%w: action must be confirm or reject", ErrInvalidInput)
	}

	if !domain.CanTransition(appointment.Status, target) {
		s.logger.Warn("Respond: invalid transition %s -> %s for appointment id=%d",
			appointment.Status, target, appointmentID)
		return nil, ErrInvalidTransition
	}

	expected := domain.ActiveAppointmentStatuses
	if target == domain.StatusRejected {
		reason := "Rejected by provider"
		if req.Reason != nil && *req.Reason != "" {
			reason = *req.Reason
		}
		err = s.appointmentRepo.SetRejected(ctx, appointmentID, reason, expected)
	} else {
		err = s.appointmentRepo.UpdateStatusIf(ctx, appointmentID, expected, target)
	}
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			s.logger.Warn("Respond: concurrent status change for appointment id=%d", appointmentID)
			return nil, ErrInvalidTransition
		}
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Respond: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Respond - repository error: %v", ErrInternal, err)
	}

	s.notifyCustomer(ctx, appointment, target)

	updated, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		s.logger.Error("Respond: failed to reload appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Respond - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Respond: appointment id=%d is now %s", appointmentID, updated.Status)
	return models.FromDomainAppointment(updated), nil
}

// notifyCustomer отправляет клиенту SMS о смене статуса записи.
// Ошибки уведомления логируются и не влияют на результат операции.
func (s *Service) notifyCustomer(ctx context.Context, appointment *domain.Appointment, status domain.AppointmentStatus) {
	customer, err := s.userRepo.GetUser(ctx, appointment.CustomerID)
	if err != nil {
		s.logger.Warn("notifyCustomer: failed to load customer=%d: %v", appointment.CustomerID, err)
		return
	}

	message := fmt.Sprintf("Your appointment %s is now %s", appointment.DisplayID(), status)
	if err := s.notifier.Send(ctx, customer.MobileNumber, message); err != nil {
		s.logger.Warn("notifyCustomer: failed to send SMS for appointment id=%d: %v", appointment.ID, err)
	}
}

// appointmentTypeForRole сопоставляет роль провайдера типу записей
func appointmentTypeForRole(role domain.Role) (domain.AppointmentType, error) {
	switch role {
	case domain.RoleDoctor:
		return domain.TypeDoctor, nil
	case domain.RoleHospital:
		return domain.TypeHospital, nil
	case domain.RoleVendor:
		return domain.TypeService, nil
	default:
		return "", fmt.Errorf("role %s does not serve appointments", role)
	}
}
