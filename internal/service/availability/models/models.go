package models

import (
	"errors"
	"time"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/pkg/types"
)

var (
	// ErrInvalidDate возвращается при некорректной дате периода отпуска
	ErrInvalidDate = errors.New("invalid leave period date")
)

// Request модели

// SlotRequest объявленный интервал приема
type SlotRequest struct {
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "09:30"
}

// WorkingDayRequest день недели в расписании
type WorkingDayRequest struct {
	Day         string        `json:"day"` // "Monday".."Sunday"
	IsAvailable bool          `json:"isAvailable"`
	Slots       []SlotRequest `json:"slots"`
}

// LeavePeriodRequest период отсутствия провайдера
type LeavePeriodRequest struct {
	StartDate string `json:"startDate"` // "2025-10-15"
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// UpdateAvailabilityRequest запрос на полную замену расписания
type UpdateAvailabilityRequest struct {
	ProviderID         int64                `json:"providerId"`
	WorkingDays        []WorkingDayRequest  `json:"workingDays"`
	UnavailablePeriods []LeavePeriodRequest `json:"unavailablePeriods"`
}

// ToDomain конвертирует request в domain модель расписания.
// Флаги занятости при замене расписания всегда сбрасываются -
// занятость живет только в закоммиченных бронированиях.
func (r *UpdateAvailabilityRequest) ToDomain() (*domain.WeeklyAvailability, error) {
	avail := &domain.WeeklyAvailability{
		WorkingDays:        make([]domain.WorkingDay, 0, len(r.WorkingDays)),
		UnavailablePeriods: make([]domain.LeavePeriod, 0, len(r.UnavailablePeriods)),
	}

	for _, wd := range r.WorkingDays {
		day := domain.WorkingDay{
			Day:         domain.Weekday(wd.Day),
			IsAvailable: wd.IsAvailable,
			Slots:       make([]domain.Slot, 0, len(wd.Slots)),
		}
		for _, s := range wd.Slots {
			day.Slots = append(day.Slots, domain.Slot{
				StartTime: types.TimeString(s.StartTime),
				EndTime:   types.TimeString(s.EndTime),
			})
		}
		avail.WorkingDays = append(avail.WorkingDays, day)
	}

	for _, p := range r.UnavailablePeriods {
		start, err := time.Parse(domain.DateFormat, p.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		end, err := time.Parse(domain.DateFormat, p.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		avail.UnavailablePeriods = append(avail.UnavailablePeriods, domain.LeavePeriod{
			StartDate: start,
			EndDate:   end,
			Reason:    p.Reason,
		})
	}

	return avail, nil
}

// Response модели

// SlotResponse объявленный интервал приема
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsBooked  bool   `json:"isBooked"`
}

// WorkingDayResponse день недели в расписании
type WorkingDayResponse struct {
	Day         string         `json:"day"`
	IsAvailable bool           `json:"isAvailable"`
	Slots       []SlotResponse `json:"slots"`
}

// LeavePeriodResponse период отсутствия провайдера
type LeavePeriodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// AvailabilityResponse расписание провайдера
type AvailabilityResponse struct {
	ProviderID         int64                 `json:"providerId"`
	WorkingDays        []WorkingDayResponse  `json:"workingDays"`
	UnavailablePeriods []LeavePeriodResponse `json:"unavailablePeriods"`
}

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(providerID int64, avail *domain.WeeklyAvailability) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		ProviderID:         providerID,
		WorkingDays:        make([]WorkingDayResponse, 0, len(avail.WorkingDays)),
		UnavailablePeriods: make([]LeavePeriodResponse, 0, len(avail.UnavailablePeriods)),
	}

	for _, wd := range avail.WorkingDays {
		day := WorkingDayResponse{
			Day:         string(wd.Day),
			IsAvailable: wd.IsAvailable,
			Slots:       make([]SlotResponse, 0, len(wd.Slots)),
		}
		for _, s := range wd.Slots {
			day.Slots = append(day.Slots, SlotResponse{
				StartTime: s.StartTime.String(),
				EndTime:   s.EndTime.String(),
				IsBooked:  s.IsBooked,
			})
		}
		resp.WorkingDays = append(resp.WorkingDays, day)
	}

	for _, p := range avail.UnavailablePeriods {
		resp.UnavailablePeriods = append(resp.UnavailablePeriods, LeavePeriodResponse{
			StartDate: p.StartDate.Format(domain.DateFormat),
			EndDate:   p.EndDate.Format(domain.DateFormat),
			Reason:    p.Reason,
		})
	}

	return resp
}
