package calls

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	appointmentRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/appointment"
	"github.com/vaidhya-health/appointment-service/internal/integrations/agora"
	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
)

// Service сервис call-сессий для видео и аудио консультаций.
// Детали звонка инициализируются лениво при первом обращении; UID
// участников генерируются один раз на запись и переиспользуются при
// каждом перевыпуске токенов.
type Service struct {
	appointmentRepo AppointmentRepository
	tokenBuilder    TokenBuilder
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса звонков
func NewService(
	appointmentRepo AppointmentRepository,
	tokenBuilder TokenBuilder,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		tokenBuilder:    tokenBuilder,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Initialize выдает участнику данные для подключения к каналу звонка.
// При первом вызове создает канал и UID сторон; повторные вызовы
// перевыпускают токены, сохраняя канал и UID.
func (s *Service) Initialize(ctx context.Context, appointmentID int64, userID int64) (*models.CallDetailsResponse, error) {
	s.logger.Info("Initialize: call init for appointment id=%d by user=%d", appointmentID, userID)

	appointment, err := s.loadForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	if appointment.ConsultationType == nil || !appointment.ConsultationType.IsCall() {
		s.logger.Warn("Initialize: appointment id=%d is not a call consultation", appointmentID)
		return nil, ErrNotACallAppointment
	}
	if appointment.Status != domain.StatusConfirmed && appointment.Status != domain.StatusUpcoming {
		s.logger.Warn("Initialize: appointment id=%d has status=%s, call not allowed", appointmentID, appointment.Status)
		return nil, ErrNotJoinable
	}

	now := s.timeProvider.Now()

	cd := appointment.CallDetails
	if cd == nil {
		cd = &domain.CallDetails{
			ChannelName: agora.NewChannelName(),
			CustomerUID: agora.NewUID(),
			ProviderUID: agora.NewUID(),
		}
	}

	customerToken, err := s.tokenBuilder.BuildToken(cd.ChannelName, cd.CustomerUID, now)
	if err != nil {
		s.logger.Error("Initialize: failed to build customer token for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Initialize - token error: %v", ErrInternal, err)
	}
	providerToken, err := s.tokenBuilder.BuildToken(cd.ChannelName, cd.ProviderUID, now)
	if err != nil {
		s.logger.Error("Initialize: failed to build provider token for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Initialize - token error: %v", ErrInternal, err)
	}
	cd.CustomerToken = customerToken
	cd.ProviderToken = providerToken

	if err := s.appointmentRepo.UpdateCallDetails(ctx, appointmentID, cd); err != nil {
		s.logger.Error("Initialize: failed to persist call details for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Initialize - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Initialize: call ready for appointment id=%d, channel=%s", appointmentID, cd.ChannelName)
	return models.FromDomainCallDetails(cd), nil
}

// Start отмечает фактическое начало звонка
func (s *Service) Start(ctx context.Context, appointmentID int64, userID int64) (*models.CallDetailsResponse, error) {
	s.logger.Info("Start: starting call for appointment id=%d by user=%d", appointmentID, userID)

	appointment, err := s.loadForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	cd := appointment.CallDetails
	if cd == nil {
		s.logger.Warn("Start: call for appointment id=%d was never initialized", appointmentID)
		return nil, ErrCallNotStarted
	}

	// Повторный старт не перетирает время начала
	if !cd.CallStarted {
		now := s.timeProvider.Now()
		cd.CallStarted = true
		cd.CallStartTime = &now

		if err := s.appointmentRepo.UpdateCallDetails(ctx, appointmentID, cd); err != nil {
			s.logger.Error("Start: failed to persist call details for appointment id=%d: %v", appointmentID, err)
			return nil, fmt.Errorf("%w: Start - repository error: %v", ErrInternal, err)
		}
	}

	return models.FromDomainCallDetails(cd), nil
}

// End фиксирует конец звонка и его длительность в секундах
func (s *Service) End(ctx context.Context, appointmentID int64, userID int64) (*models.CallDetailsResponse, error) {
	s.logger.Info("End: ending call for appointment id=%d by user=%d", appointmentID, userID)

	appointment, err := s.loadForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	cd := appointment.CallDetails
	if cd == nil || !cd.CallStarted || cd.CallStartTime == nil {
		s.logger.Warn("End: call for appointment id=%d was not started", appointmentID)
		return nil, ErrCallNotStarted
	}

	now := s.timeProvider.Now()
	duration := int(now.Sub(*cd.CallStartTime).Seconds())
	cd.CallEndTime = &now
	cd.CallDurationSeconds = &duration

	if err := s.appointmentRepo.UpdateCallDetails(ctx, appointmentID, cd); err != nil {
		s.logger.Error("End: failed to persist call details for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: End - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("End: call for appointment id=%d lasted %d seconds", appointmentID, duration)
	return models.FromDomainCallDetails(cd), nil
}

// loadForUser загружает запись и проверяет, что пользователь - её сторона
func (s *Service) loadForUser(ctx context.Context, appointmentID int64, userID int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("loadForUser: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("loadForUser: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if appointment.CustomerID != userID && appointment.ProviderID() != userID {
		s.logger.Warn("loadForUser: access denied for user=%d to appointment id=%d", userID, appointmentID)
		return nil, ErrAccessDenied
	}

	return appointment, nil
}
