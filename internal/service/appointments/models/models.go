package models

import (
	"errors"
	"time"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidType возвращается при некорректном типе записи
	ErrInvalidType = errors.New("invalid appointment type")
)

// Request модели

// GetCustomerAppointmentsRequest запрос записей клиента
type GetCustomerAppointmentsRequest struct {
	CustomerID int64   `json:"customerId"`
	Type       *string `json:"type,omitempty"`
	Status     *string `json:"status,omitempty"`
	LatestOnly bool    `json:"latestOnly,omitempty"`
}

// GetProviderAppointmentsRequest запрос записей провайдера
type GetProviderAppointmentsRequest struct {
	ProviderID int64   `json:"providerId"`
	Role       string  `json:"role"`
	Status     *string `json:"status,omitempty"`
}

// RespondRequest ответ провайдера на запрос записи
type RespondRequest struct {
	ProviderID int64   `json:"providerId"`
	Action     string  `json:"action"` // "confirm" | "reject"
	Reason     *string `json:"reason,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCustomerAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		CustomerID: &r.CustomerID,
	}
	if r.Type != nil {
		t, err := ToDomainAppointmentType(*r.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = &t
	}
	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if r.LatestOnly {
		filter.Limit = 1
	}
	return filter, nil
}

// Response модели

// PatientDetailsResponse данные пациента
type PatientDetailsResponse struct {
	Name                   string  `json:"name"`
	Age                    *int    `json:"age,omitempty"`
	Gender                 *string `json:"gender,omitempty"`
	Phone                  *string `json:"phone,omitempty"`
	Email                  *string `json:"email,omitempty"`
	RelationshipToCustomer string  `json:"relationshipToCustomer"`
	MedicalHistory         *string `json:"medicalHistory,omitempty"`
	Allergies              *string `json:"allergies,omitempty"`
	CurrentMedications     *string `json:"currentMedications,omitempty"`
}

// CallDetailsResponse состояние call-сессии
type CallDetailsResponse struct {
	ChannelName         string  `json:"channelName"`
	CustomerUID         uint32  `json:"customerUid"`
	ProviderUID         uint32  `json:"providerUid"`
	CustomerToken       string  `json:"customerToken"`
	ProviderToken       string  `json:"providerToken"`
	CallStarted         bool    `json:"callStarted"`
	CallStartTime       *string `json:"callStartTime,omitempty"` // ISO 8601 format
	CallEndTime         *string `json:"callEndTime,omitempty"`   // ISO 8601 format
	CallDurationSeconds *int    `json:"callDurationSeconds,omitempty"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID               int64   `json:"id"`
	DisplayID        string  `json:"displayId"`
	Type             string  `json:"type"`
	CustomerID       int64   `json:"customerId"`
	DoctorID         *int64  `json:"doctorId,omitempty"`
	HospitalID       *int64  `json:"hospitalId,omitempty"`
	VendorID         *int64  `json:"vendorId,omitempty"`
	DateTime         string  `json:"dateTime"` // ISO 8601 format
	ConsultationType *string `json:"consultationType,omitempty"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	Notes            *string `json:"notes,omitempty"`

	IsPaid         bool    `json:"isPaid"`
	PaymentOrderID *string `json:"paymentOrderId,omitempty"`
	PaymentID      *string `json:"paymentId,omitempty"`

	// Денормализованные витринные снапшоты
	Specialty       *string `json:"specialty,omitempty"`
	ClinicName      *string `json:"clinicName,omitempty"`
	ClinicAddress   *string `json:"clinicAddress,omitempty"`
	Department      *string `json:"department,omitempty"`
	HospitalService *string `json:"hospitalService,omitempty"`
	HospitalAddress *string `json:"hospitalAddress,omitempty"`
	ServiceType     *string `json:"serviceType,omitempty"`
	ServiceName     *string `json:"serviceName,omitempty"`
	VendorAddress   *string `json:"vendorAddress,omitempty"`

	PatientDetails *PatientDetailsResponse `json:"patientDetails,omitempty"`
	CallDetails    *CallDetailsResponse    `json:"callDetails,omitempty"`

	BookedAt           time.Time `json:"bookedAt"`
	CancelledAt        *string   `json:"cancelledAt,omitempty"` // ISO 8601 format
	CancellationReason *string   `json:"cancellationReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	switch status {
	case domain.StatusPending, domain.StatusUpcoming, domain.StatusConfirmed,
		domain.StatusRejected, domain.StatusCompleted, domain.StatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ToDomainAppointmentType конвертирует строку в domain тип записи
func ToDomainAppointmentType(s string) (domain.AppointmentType, error) {
	t := domain.AppointmentType(s)
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.ID,
		DisplayID:       a.DisplayID(),
		Type:            string(a.Type),
		CustomerID:      a.CustomerID,
		DoctorID:        a.DoctorID,
		HospitalID:      a.HospitalID,
		VendorID:        a.VendorID,
		DateTime:        a.DateTime.Format(time.RFC3339),
		Amount:          a.Amount,
		Currency:        a.Currency,
		Status:          string(a.Status),
		Notes:           a.Notes,
		IsPaid:          a.IsPaid,
		PaymentOrderID:  a.PaymentOrderID,
		PaymentID:       a.PaymentID,
		Specialty:       a.Specialty,
		ClinicName:      a.ClinicName,
		ClinicAddress:   a.ClinicAddress,
		Department:      a.Department,
		HospitalService: a.HospitalService,
		HospitalAddress: a.HospitalAddress,
		ServiceType:     a.ServiceType,
		ServiceName:     a.ServiceName,
		VendorAddress:   a.VendorAddress,
		BookedAt:        a.BookedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,

		CancellationReason: a.CancellationReason,
	}

	if a.ConsultationType != nil {
		ct := string(*a.ConsultationType)
		resp.ConsultationType = &ct
	}
	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}
	if a.PatientDetails != nil {
		resp.PatientDetails = &PatientDetailsResponse{
			Name:                   a.PatientDetails.Name,
			Age:                    a.PatientDetails.Age,
			Gender:                 a.PatientDetails.Gender,
			Phone:                  a.PatientDetails.Phone,
			Email:                  a.PatientDetails.Email,
			RelationshipToCustomer: a.PatientDetails.RelationshipToCustomer,
			MedicalHistory:         a.PatientDetails.MedicalHistory,
			Allergies:              a.PatientDetails.Allergies,
			CurrentMedications:     a.PatientDetails.CurrentMedications,
		}
	}
	if a.CallDetails != nil {
		resp.CallDetails = FromDomainCallDetails(a.CallDetails)
	}

	return resp
}

// FromDomainCallDetails конвертирует данные call-сессии в DTO
func FromDomainCallDetails(cd *domain.CallDetails) *CallDetailsResponse {
	if cd == nil {
		return nil
	}

	resp := &CallDetailsResponse{
		ChannelName:         cd.ChannelName,
		CustomerUID:         cd.CustomerUID,
		ProviderUID:         cd.ProviderUID,
		CustomerToken:       cd.CustomerToken,
		ProviderToken:       cd.ProviderToken,
		CallStarted:         cd.CallStarted,
		CallDurationSeconds: cd.CallDurationSeconds,
	}
	if cd.CallStartTime != nil {
		start := cd.CallStartTime.Format(time.RFC3339)
		resp.CallStartTime = &start
	}
	if cd.CallEndTime != nil {
		end := cd.CallEndTime.Format(time.RFC3339)
		resp.CallEndTime = &end
	}
	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
