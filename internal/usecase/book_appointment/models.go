package book_appointment

import (
	"time"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

// PatientDetails данные пациента, для кого оформляется запись
type PatientDetails struct {
	Name                   string  // Имя пациента
	Age                    *int    // Возраст (опционально)
	Gender                 *string // Пол (опционально)
	Phone                  *string // Телефон (опционально)
	Email                  *string // Email (опционально)
	RelationshipToCustomer string  // Отношение к клиенту, по умолчанию "self"
	MedicalHistory         *string // Анамнез (опционально)
	Allergies              *string // Аллергии (опционально)
	CurrentMedications     *string // Текущие препараты (опционально)
}

// Request модель запроса на создание записи
type Request struct {
	CustomerID       int64           // ID клиента
	Type             string          // Тип записи: doctor | hospital | service
	ProviderID       int64           // ID провайдера (врач, больница или вендор)
	DateTime         time.Time       // Момент приема
	ConsultationType *string         // Модальность (только для врачей)
	ServiceName      *string         // Название услуги (больницы и вендоры)
	Department       *string         // Отделение (только для больниц)
	Notes            *string         // Заметки (опционально)
	PatientDetails   *PatientDetails // Данные пациента (требуются для врачей)
}

// Response модель ответа с созданной записью и платежным заказом
type Response struct {
	ID               int64     // ID созданной записи
	DisplayID        string    // Короткий идентификатор для клиента
	Type             string    // Тип записи
	CustomerID       int64     // ID клиента
	ProviderID       int64     // ID провайдера
	DateTime         time.Time // Момент приема
	ConsultationType *string   // Модальность
	Amount           float64   // Зафиксированная цена в рупиях
	Currency         string    // Валюта
	Status           string    // Статус записи

	// Платежный заказ; пустой OrderID означает, что оплата не требуется
	PaymentOrderID string // ID заказа в платежном шлюзе
	AmountPaise    int64  // Сумма заказа в пайсах

	BookedAt  time.Time // Время оформления
	CreatedAt time.Time // Время создания
}

// buildResponse конвертирует domain модель в ответ usecase
func buildResponse(a *domain.Appointment, orderID string) *Response {
	resp := &Response{
		ID:             a.ID,
		DisplayID:      a.DisplayID(),
		Type:           string(a.Type),
		CustomerID:     a.CustomerID,
		ProviderID:     a.ProviderID(),
		DateTime:       a.DateTime,
		Amount:         a.Amount,
		Currency:       a.Currency,
		Status:         string(a.Status),
		PaymentOrderID: orderID,
		AmountPaise:    a.AmountMinorUnits(),
		BookedAt:       a.BookedAt,
		CreatedAt:      a.CreatedAt,
	}
	if a.ConsultationType != nil {
		ct := string(*a.ConsultationType)
		resp.ConsultationType = &ct
	}
	return resp
}
