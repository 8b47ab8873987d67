package domain

import (
	"errors"
	"fmt"
	"time"
)

// AppointmentType variant tag determining which provider reference is set
type AppointmentType string

const (
	TypeDoctor   AppointmentType = "doctor"
	TypeHospital AppointmentType = "hospital"
	TypeService  AppointmentType = "service"
)

// IsValid reports whether the type is one of the known variants
func (t AppointmentType) IsValid() bool {
	return t == TypeDoctor || t == TypeHospital || t == TypeService
}

// ConsultationType the modality selected at booking.
// Only meaningful for doctor appointments; nil for the other types.
type ConsultationType string

const (
	ConsultationVideo     ConsultationType = "video"
	ConsultationAudio     ConsultationType = "audio"
	ConsultationInPerson  ConsultationType = "in-person"
	ConsultationHomeVisit ConsultationType = "homeVisit"
)

// ServiceType the catalog entry kind a consultation type maps to
type ServiceType string

const (
	ServiceClinicalVisit     ServiceType = "Clinical Visit"
	ServiceHomeVisit         ServiceType = "Home Visit"
	ServiceVideoConsultation ServiceType = "Video Consultation"
	ServiceVoiceConsultation ServiceType = "Voice Consultation"
)

// ServiceTypeForConsultation maps the requested modality to the catalog
// entry that prices it
func ServiceTypeForConsultation(ct ConsultationType) (ServiceType, bool) {
	switch ct {
	case ConsultationVideo:
		return ServiceVideoConsultation, true
	case ConsultationAudio:
		return ServiceVoiceConsultation, true
	case ConsultationInPerson:
		return ServiceClinicalVisit, true
	case ConsultationHomeVisit:
		return ServiceHomeVisit, true
	default:
		return "", false
	}
}

// IsCall reports whether the modality is a remote call session
func (c ConsultationType) IsCall() bool {
	return c == ConsultationVideo || c == ConsultationAudio
}

// AppointmentStatus state machine value of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusUpcoming  AppointmentStatus = "upcoming"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsTerminal reports whether no transition may leave the status
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// IsFinalized reports whether the appointment can no longer be cancelled
func (s AppointmentStatus) IsFinalized() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ErrInvalidTransition returned when a status change violates the state machine
var ErrInvalidTransition = errors.New("domain: invalid appointment status transition")

// CanTransition encodes the legal appointment status transitions:
//
//	pending  -> upcoming | confirmed | rejected | cancelled
//	upcoming -> confirmed | rejected | completed | cancelled
//	confirmed-> confirmed | rejected | completed | cancelled
//
// completed and cancelled accept nothing. rejected may still be cancelled
// for audit symmetry with the provider-initiated path.
func CanTransition(from, to AppointmentStatus) bool {
	switch to {
	case StatusUpcoming:
		return from == StatusPending
	case StatusConfirmed:
		return from == StatusPending || from == StatusUpcoming || from == StatusConfirmed
	case StatusRejected:
		return from == StatusPending || from == StatusUpcoming || from == StatusConfirmed
	case StatusCompleted:
		return from == StatusUpcoming || from == StatusConfirmed
	case StatusCancelled:
		return !from.IsFinalized()
	default:
		return false
	}
}

// PatientDetails who the appointment is actually for. Required for doctor
// appointments; the relationship defaults to "self".
type PatientDetails struct {
	Name                   string
	Age                    *int
	Gender                 *string
	Phone                  *string
	Email                  *string
	RelationshipToCustomer string
	MedicalHistory         *string
	Allergies              *string
	CurrentMedications     *string
}

// CallDetails video/audio session state, populated lazily on first
// initialization. Participant UIDs are generated once per appointment
// and reused for every token refresh.
type CallDetails struct {
	ChannelName         string
	CustomerUID         uint32
	ProviderUID         uint32
	CustomerToken       string
	ProviderToken       string
	CallStarted         bool
	CallStartTime       *time.Time
	CallEndTime         *time.Time
	CallDurationSeconds *int
}

// Appointment the central entity. Price, currency and display fields are
// snapshotted at booking time and never recomputed from provider state.
type Appointment struct {
	ID         int64
	Type       AppointmentType
	CustomerID int64

	// Exactly one of these is set, matching Type
	DoctorID   *int64
	HospitalID *int64
	VendorID   *int64

	DateTime         time.Time
	ConsultationType *ConsultationType
	Amount           float64
	Currency         string
	Status           AppointmentStatus
	Notes            *string

	IsPaid         bool
	PaymentOrderID *string
	PaymentID      *string

	BookedAt           time.Time
	CancelledAt        *time.Time
	CancellationReason *string

	// Doctor appointment snapshot fields
	Specialty     *string
	ClinicName    *string
	ClinicAddress *string

	// Hospital appointment snapshot fields
	Department      *string
	HospitalService *string
	HospitalAddress *string

	// Service appointment snapshot fields
	ServiceType   *string
	ServiceName   *string
	VendorAddress *string

	PatientDetails *PatientDetails
	CallDetails    *CallDetails

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayID short human-facing identifier derived from the row id
func (a *Appointment) DisplayID() string {
	return fmt.Sprintf("appt_%06d", a.ID%1000000)
}

// ProviderID returns the provider reference matching the variant tag
func (a *Appointment) ProviderID() int64 {
	switch a.Type {
	case TypeDoctor:
		if a.DoctorID != nil {
			return *a.DoctorID
		}
	case TypeHospital:
		if a.HospitalID != nil {
			return *a.HospitalID
		}
	case TypeService:
		if a.VendorID != nil {
			return *a.VendorID
		}
	}
	return 0
}

// ErrProviderRefMismatch returned when the provider reference does not
// match the variant tag at creation
var ErrProviderRefMismatch = errors.New("domain: exactly one provider reference matching the appointment type must be set")

// ValidateProviderRef enforces the exactly-one-foreign-key invariant
func (a *Appointment) ValidateProviderRef() error {
	set := 0
	if a.DoctorID != nil {
		set++
	}
	if a.HospitalID != nil {
		set++
	}
	if a.VendorID != nil {
		set++
	}
	if set != 1 {
		return ErrProviderRefMismatch
	}

	switch a.Type {
	case TypeDoctor:
		if a.DoctorID == nil {
			return ErrProviderRefMismatch
		}
	case TypeHospital:
		if a.HospitalID == nil {
			return ErrProviderRefMismatch
		}
	case TypeService:
		if a.VendorID == nil {
			return ErrProviderRefMismatch
		}
	default:
		return ErrProviderRefMismatch
	}
	return nil
}

// InitialStatus in-person doctor appointments auto-confirm at creation;
// everything else starts pending
func (a *Appointment) InitialStatus() AppointmentStatus {
	if a.Type == TypeDoctor && a.ConsultationType != nil && *a.ConsultationType == ConsultationInPerson {
		return StatusConfirmed
	}
	return StatusPending
}

// PaidStatus the status payment confirmation transitions to
func (a *Appointment) PaidStatus() AppointmentStatus {
	if a.ConsultationType != nil && *a.ConsultationType == ConsultationInPerson {
		return StatusConfirmed
	}
	return StatusUpcoming
}

// CanBeCancelled reports whether the cancellation engine may act on it
func (a *Appointment) CanBeCancelled() bool {
	return !a.Status.IsFinalized()
}

// AmountMinorUnits the locked price in paise, as the payment collaborator expects
func (a *Appointment) AmountMinorUnits() int64 {
	return int64(a.Amount*PaisePerRupee + 0.5)
}

// AppointmentFilter flexible listing filter for customer and provider views
type AppointmentFilter struct {
	CustomerID *int64
	ProviderID *int64
	Type       *AppointmentType
	Status     *AppointmentStatus
	Limit      int
}
