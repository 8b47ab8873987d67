package domain

import "time"

// Role discriminates the user hierarchy. A single users table holds the
// common fields; role-specific data lives in dedicated structs embedding User.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDoctor   Role = "doctor"
	RoleHospital Role = "hospital"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// IsProvider returns true for roles that serve appointments
func (r Role) IsProvider() bool {
	return r == RoleDoctor || r == RoleHospital || r == RoleVendor
}

// User common fields shared by every role
type User struct {
	ID           int64
	Role         Role
	Name         string
	MobileNumber string
	Email        string
	Address      *string
	City         *string
	State        *string
	PostalCode   *string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Customer a user who books appointments
type Customer struct {
	User
	PreferredLanguage string
}

// ProviderProfile fields shared by doctor, hospital and vendor variants
type ProviderProfile struct {
	User
	Services           []CatalogService
	SubscriptionActive bool
	SubscriptionExpiry *time.Time
}

// HasActiveSubscription reports whether the provider may be booked and
// may manage its listings at the given instant
func (p *ProviderProfile) HasActiveSubscription(now time.Time) bool {
	return p.SubscriptionActive && p.SubscriptionExpiry != nil && p.SubscriptionExpiry.After(now)
}

// Doctor provider variant with a weekly slot schedule
type Doctor struct {
	ProviderProfile
	Specialty    string
	ClinicName   *string
	Availability WeeklyAvailability
}

// Hospital provider variant offering named departmental services
type Hospital struct {
	ProviderProfile
	FacilityDetails string
}

// Vendor provider variant offering named home services
type Vendor struct {
	ProviderProfile
	ServiceTypes []string
}

// CatalogService a priced entry in a provider's service catalog.
// For doctors ServiceType is one of the consultation service names;
// for hospitals and vendors Name identifies the service.
type CatalogService struct {
	ID              int64
	ProviderID      int64
	ServiceType     ServiceType
	Name            string
	Price           float64
	Currency        string
	DurationMinutes int
	IsActive        bool
}

// FindActiveByType returns the first active catalog entry of the given type
func FindActiveByType(services []CatalogService, serviceType ServiceType) (*CatalogService, bool) {
	for i := range services {
		if services[i].ServiceType == serviceType && services[i].IsActive {
			return &services[i], true
		}
	}
	return nil, false
}

// FindActiveByName returns the first active catalog entry with the given name
func FindActiveByName(services []CatalogService, name string) (*CatalogService, bool) {
	for i := range services {
		if services[i].Name == name && services[i].IsActive {
			return &services[i], true
		}
	}
	return nil, false
}
