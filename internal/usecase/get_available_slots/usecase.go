package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	userRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/user"
)

// UseCase use case получения свободных слотов врача на дату.
// Чтение best-effort: список не резервирует слоты, реальная фиксация
// происходит только при подтверждении оплаты.
type UseCase struct {
	availabilityRepo AvailabilityRepository
	userRepo         UserRepository
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	userRepo UserRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%d, date=%s", req.ProviderID, req.Date.Format(domain.DateFormat))

	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := uc.userRepo.GetDoctor(ctx, req.ProviderID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) || errors.Is(err, userRepo.ErrRoleMismatch) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.ProviderID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	avail, err := uc.availabilityRepo.GetByProvider(ctx, req.ProviderID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability for doctor id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	day := domain.WeekdayOf(req.Date)
	resp := &Response{
		ProviderID: req.ProviderID,
		Date:       req.Date.Format(domain.DateFormat),
		Day:        string(day),
		Slots:      make([]SlotInfo, 0),
	}

	if avail.IsOnLeave(req.Date) {
		uc.logger.Info("GetAvailableSlots: doctor id=%d is on leave on %s", req.ProviderID, resp.Date)
		resp.OnLeave = true
		return resp, nil
	}

	wd, ok := avail.WorkingDayFor(day)
	if !ok || !wd.IsAvailable {
		uc.logger.Info("GetAvailableSlots: doctor id=%d does not work on %s", req.ProviderID, day)
		return resp, nil
	}

	resp.IsAvailable = true
	for _, slot := range avail.FreeSlotsOn(day) {
		resp.Slots = append(resp.Slots, SlotInfo{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		})
	}

	uc.logger.Info("GetAvailableSlots: doctor id=%d has %d free slots on %s", req.ProviderID, len(resp.Slots), resp.Date)
	return resp, nil
}
