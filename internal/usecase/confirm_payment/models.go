package confirm_payment

import (
	"time"
)

// Request модель запроса подтверждения оплаты
type Request struct {
	AppointmentID int64  // ID записи
	CustomerID    int64  // ID клиента, подтверждающего оплату
	OrderID       string // ID платежного заказа
	PaymentID     string // ID платежа в шлюзе
	Signature     string // Подпись платежа
}

// Response модель ответа с подтвержденной записью
type Response struct {
	ID        int64     // ID записи
	DisplayID string    // Короткий идентификатор
	Status    string    // Статус после подтверждения
	IsPaid    bool      // Флаг оплаты
	PaymentID string    // ID платежа
	DateTime  time.Time // Момент приема
	Amount    float64   // Зафиксированная цена
	Currency  string    // Валюта
}
