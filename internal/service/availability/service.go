package availability

import (
	"context"
	"errors"
	"fmt"

	userRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/user"
	"github.com/vaidhya-health/appointment-service/internal/service/availability/models"
)

// Service сервис управления расписанием провайдера
type Service struct {
	availabilityRepo AvailabilityRepository
	userRepo         UserRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	availabilityRepo AvailabilityRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Get возвращает текущее расписание провайдера
func (s *Service) Get(ctx context.Context, providerID int64) (*models.AvailabilityResponse, error) {
	s.logger.Info("Get: fetching availability for provider=%d", providerID)

	if _, err := s.userRepo.GetDoctor(ctx, providerID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) || errors.Is(err, userRepo.ErrRoleMismatch) {
			s.logger.Warn("Get: doctor id=%d not found", providerID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("Get: failed to load doctor id=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: Get - failed to load doctor: %v", ErrInternal, err)
	}

	avail, err := s.availabilityRepo.GetByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("Get: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAvailability(providerID, avail), nil
}

// Update полностью заменяет расписание провайдера.
// Пересекающиеся слоты внутри дня отклоняются на записи; существующие
// бронирования при этом не трогаются - занятость переснятого слота
// восстанавливается только через отмену записи.
func (s *Service) Update(ctx context.Context, req *models.UpdateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Update: updating availability for provider=%d, days=%d, leavePeriods=%d",
		req.ProviderID, len(req.WorkingDays), len(req.UnavailablePeriods))

	// Расписанием владеют только врачи
	if _, err := s.userRepo.GetDoctor(ctx, req.ProviderID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) || errors.Is(err, userRepo.ErrRoleMismatch) {
			s.logger.Warn("Update: doctor id=%d not found", req.ProviderID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("Update: failed to load doctor id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Update - failed to load doctor: %v", ErrInternal, err)
	}

	avail, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Update: invalid request for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := avail.Validate(); err != nil {
		s.logger.Warn("Update: invalid schedule for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	// Замена трех таблиц расписания должна быть атомарной
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.availabilityRepo.Replace(ctx, req.ProviderID, avail)
	})
	if err != nil {
		s.logger.Error("Update: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully replaced availability for provider=%d", req.ProviderID)
	return models.FromDomainAvailability(req.ProviderID, avail), nil
}
