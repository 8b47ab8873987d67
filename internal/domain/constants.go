package domain

// Date format used in API payloads and leave period boundaries
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Money is handled in major units (rupees) in the domain and converted
// to minor units (paise) only at the payment boundary.
const (
	DefaultCurrency = "INR"
	PaisePerRupee   = 100
)

// Commission defaults applied when a transaction ledger row is created
const (
	DefaultCommissionPercent = 10
)

// Provider subscription terms
const (
	SubscriptionAmount = 2000 // INR per year
	SubscriptionYears  = 1
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxSlotsPerDay              = 48
)

// Call session defaults
const (
	CallTokenTTLSeconds = 3600
)

// ActiveAppointmentStatuses statuses a conditional status update may
// start from: the appointment is still live and occupies its slot
var ActiveAppointmentStatuses = []AppointmentStatus{
	StatusPending,
	StatusUpcoming,
	StatusConfirmed,
}
