package get_available_slots

import (
	availableSlots "github.com/vaidhya-health/appointment-service/internal/usecase/get_available_slots"
)

// SlotResponse свободный интервал расписания
type SlotResponse struct {
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "09:30"
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ProviderID  int64          `json:"providerId"`
	Date        string         `json:"date"` // YYYY-MM-DD
	Day         string         `json:"day"`
	IsAvailable bool           `json:"isAvailable"`
	OnLeave     bool           `json:"onLeave"`
	Slots       []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *availableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	return &AvailableSlotsResponse{
		ProviderID:  resp.ProviderID,
		Date:        resp.Date,
		Day:         resp.Day,
		IsAvailable: resp.IsAvailable,
		OnLeave:     resp.OnLeave,
		Slots:       slots,
	}
}
