package create_appointment

import (
	"time"

	bookAppointment "github.com/vaidhya-health/appointment-service/internal/usecase/book_appointment"
)

// PatientDetailsRequest данные пациента в HTTP запросе
type PatientDetailsRequest struct {
	Name                   string  `json:"name"`
	Age                    *int    `json:"age,omitempty"`
	Gender                 *string `json:"gender,omitempty"`
	Phone                  *string `json:"phone,omitempty"`
	Email                  *string `json:"email,omitempty"`
	RelationshipToCustomer string  `json:"relationshipToCustomer,omitempty"`
	MedicalHistory         *string `json:"medicalHistory,omitempty"`
	Allergies              *string `json:"allergies,omitempty"`
	CurrentMedications     *string `json:"currentMedications,omitempty"`
}

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	Type             string                 `json:"type"` // doctor | hospital | service
	ProviderID       int64                  `json:"providerId"`
	DateTime         string                 `json:"dateTime"` // RFC 3339
	ConsultationType *string                `json:"consultationType,omitempty"`
	ServiceName      *string                `json:"serviceName,omitempty"`
	Department       *string                `json:"department,omitempty"`
	Notes            *string                `json:"notes,omitempty"`
	PatientDetails   *PatientDetailsRequest `json:"patientDetails,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID               int64   `json:"id"`
	DisplayID        string  `json:"displayId"`
	Type             string  `json:"type"`
	CustomerID       int64   `json:"customerId"`
	ProviderID       int64   `json:"providerId"`
	DateTime         string  `json:"dateTime"`
	ConsultationType *string `json:"consultationType,omitempty"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	PaymentOrderID   string  `json:"paymentOrderId"`
	AmountPaise      int64   `json:"amountPaise"`
	BookedAt         string  `json:"bookedAt"`
	CreatedAt        string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (*bookAppointment.Request, error) {
	dateTime, err := time.Parse(time.RFC3339, r.DateTime)
	if err != nil {
		return nil, err
	}

	req := &bookAppointment.Request{
		CustomerID:       customerID,
		Type:             r.Type,
		ProviderID:       r.ProviderID,
		DateTime:         dateTime,
		ConsultationType: r.ConsultationType,
		ServiceName:      r.ServiceName,
		Department:       r.Department,
		Notes:            r.Notes,
	}
	if r.PatientDetails != nil {
		req.PatientDetails = &bookAppointment.PatientDetails{
			Name:                   r.PatientDetails.Name,
			Age:                    r.PatientDetails.Age,
			Gender:                 r.PatientDetails.Gender,
			Phone:                  r.PatientDetails.Phone,
			Email:                  r.PatientDetails.Email,
			RelationshipToCustomer: r.PatientDetails.RelationshipToCustomer,
			MedicalHistory:         r.PatientDetails.MedicalHistory,
			Allergies:              r.PatientDetails.Allergies,
			CurrentMedications:     r.PatientDetails.CurrentMedications,
		}
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:               resp.ID,
		DisplayID:        resp.DisplayID,
		Type:             resp.Type,
		CustomerID:       resp.CustomerID,
		ProviderID:       resp.ProviderID,
		DateTime:         resp.DateTime.Format(time.RFC3339),
		ConsultationType: resp.ConsultationType,
		Amount:           resp.Amount,
		Currency:         resp.Currency,
		Status:           resp.Status,
		PaymentOrderID:   resp.PaymentOrderID,
		AmountPaise:      resp.AmountPaise,
		BookedAt:         resp.BookedAt.Format(time.RFC3339),
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}
}
