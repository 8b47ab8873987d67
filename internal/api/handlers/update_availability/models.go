package update_availability

import (
	"github.com/vaidhya-health/appointment-service/internal/service/availability/models"
)

// UpdateAvailabilityRequest HTTP request model
type UpdateAvailabilityRequest struct {
	WorkingDays        []models.WorkingDayRequest  `json:"workingDays"`
	UnavailablePeriods []models.LeavePeriodRequest `json:"unavailablePeriods"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(providerID int64) *models.UpdateAvailabilityRequest {
	return &models.UpdateAvailabilityRequest{
		ProviderID:         providerID,
		WorkingDays:        r.WorkingDays,
		UnavailablePeriods: r.UnavailablePeriods,
	}
}
