package get_available_slots

import "time"

// Request модель запроса свободных слотов врача на дату
type Request struct {
	ProviderID int64     // ID врача
	Date       time.Time // Дата приема
}

// SlotInfo свободный интервал расписания
type SlotInfo struct {
	StartTime string // "09:00"
	EndTime   string // "09:30"
}

// Response модель ответа со свободными слотами
type Response struct {
	ProviderID  int64      // ID врача
	Date        string     // Дата в формате YYYY-MM-DD
	Day         string     // День недели
	IsAvailable bool       // Принимает ли врач в этот день
	OnLeave     bool       // Попадает ли дата в период отпуска
	Slots       []SlotInfo // Свободные слоты; пустой список, если приема нет
}
