package cancel_appointment

import "time"

// Request модель запроса на отмену записи
type Request struct {
	AppointmentID int64   // ID записи
	UserID        int64   // Кто отменяет: клиент или провайдер записи
	Reason        *string // Причина отмены (опционально)
}

// Response модель ответа с отмененной записью
type Response struct {
	ID                 int64      // ID записи
	DisplayID          string     // Короткий идентификатор
	Status             string     // Статус после отмены
	CancellationReason *string    // Причина отмены
	CancelledAt        *time.Time // Время отмены
	SlotReleased       bool       // Освобожден ли слот расписания
}
