package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/pkg/dbmetrics"
	"github.com/vaidhya-health/appointment-service/pkg/psqlbuilder"
)

// Repository репозиторий для работы с пользователями всех ролей.
// Одна таблица users с дискриминатором role; поля, специфичные для
// провайдеров, хранятся в nullable-колонках.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var userColumns = []string{
	"id",
	"role",
	"name",
	"mobile_number",
	"email",
	"address",
	"city",
	"state",
	"postal_code",
	"is_verified",
	"preferred_language",
	"specialty",
	"clinic_name",
	"facility_details",
	"service_types",
	"subscription_active",
	"subscription_expiry",
	"created_at",
	"updated_at",
}

type userRow struct {
	user domain.User

	preferredLanguage  sql.NullString
	specialty          sql.NullString
	clinicName         sql.NullString
	facilityDetails    sql.NullString
	serviceTypes       pq.StringArray
	subscriptionActive bool
	subscriptionExpiry sql.NullTime
}

func (r *Repository) getRow(ctx context.Context, id int64) (*userRow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getRow - build select query: %v", ErrBuildQuery, err)
	}

	var row userRow
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&row.user.ID,
		&row.user.Role,
		&row.user.Name,
		&row.user.MobileNumber,
		&row.user.Email,
		&row.user.Address,
		&row.user.City,
		&row.user.State,
		&row.user.PostalCode,
		&row.user.IsVerified,
		&row.preferredLanguage,
		&row.specialty,
		&row.clinicName,
		&row.facilityDetails,
		&row.serviceTypes,
		&row.subscriptionActive,
		&row.subscriptionExpiry,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getRow - scan user: %v", ErrScanRow, err)
	}

	row.user.CreatedAt = createdAt.Time
	row.user.UpdatedAt = updatedAt.Time

	return &row, nil
}

func (r *Repository) getServices(ctx context.Context, providerID int64) ([]domain.CatalogService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"service_type",
		"name",
		"price",
		"currency",
		"duration_minutes",
		"is_active",
	).
		From("provider_services").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.CatalogService, 0)
	for rows.Next() {
		var s domain.CatalogService
		if err := rows.Scan(
			&s.ID,
			&s.ProviderID,
			&s.ServiceType,
			&s.Name,
			&s.Price,
			&s.Currency,
			&s.DurationMinutes,
			&s.IsActive,
		); err != nil {
			return nil, fmt.Errorf("%w: getServices - scan service: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

func (r *Repository) providerProfile(row *userRow, services []domain.CatalogService) domain.ProviderProfile {
	profile := domain.ProviderProfile{
		User:               row.user,
		Services:           services,
		SubscriptionActive: row.subscriptionActive,
	}
	if row.subscriptionExpiry.Valid {
		expiry := row.subscriptionExpiry.Time
		profile.SubscriptionExpiry = &expiry
	}
	return profile
}

// GetUser получает базовую запись пользователя любой роли
func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row, err := r.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	user := row.user
	return &user, nil
}

// GetCustomer получает пользователя с ролью customer
func (r *Repository) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	row, err := r.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.user.Role != domain.RoleCustomer {
		return nil, ErrRoleMismatch
	}

	customer := &domain.Customer{User: row.user}
	if row.preferredLanguage.Valid {
		customer.PreferredLanguage = row.preferredLanguage.String
	}
	return customer, nil
}

// GetDoctor получает врача вместе с каталогом услуг.
// Расписание загружается отдельно репозиторием availability.
func (r *Repository) GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error) {
	row, err := r.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.user.Role != domain.RoleDoctor {
		return nil, ErrRoleMismatch
	}

	services, err := r.getServices(ctx, id)
	if err != nil {
		return nil, err
	}

	doctor := &domain.Doctor{
		ProviderProfile: r.providerProfile(row, services),
	}
	if row.specialty.Valid {
		doctor.Specialty = row.specialty.String
	}
	if row.clinicName.Valid {
		name := row.clinicName.String
		doctor.ClinicName = &name
	}
	return doctor, nil
}

// GetHospital получает больницу вместе с каталогом услуг
func (r *Repository) GetHospital(ctx context.Context, id int64) (*domain.Hospital, error) {
	row, err := r.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.user.Role != domain.RoleHospital {
		return nil, ErrRoleMismatch
	}

	services, err := r.getServices(ctx, id)
	if err != nil {
		return nil, err
	}

	hospital := &domain.Hospital{
		ProviderProfile: r.providerProfile(row, services),
	}
	if row.facilityDetails.Valid {
		hospital.FacilityDetails = row.facilityDetails.String
	}
	return hospital, nil
}

// GetVendor получает вендора услуг вместе с каталогом
func (r *Repository) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	row, err := r.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.user.Role != domain.RoleVendor {
		return nil, ErrRoleMismatch
	}

	services, err := r.getServices(ctx, id)
	if err != nil {
		return nil, err
	}

	vendor := &domain.Vendor{
		ProviderProfile: r.providerProfile(row, services),
		ServiceTypes:    []string(row.serviceTypes),
	}
	return vendor, nil
}

// ActivateSubscription включает подписку провайдера до указанной даты
func (r *Repository) ActivateSubscription(ctx context.Context, userID int64, expiry time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		Set("subscription_active", true).
		Set("subscription_expiry", expiry).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ActivateSubscription - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ActivateSubscription - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ActivateSubscription - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// HasActiveSubscription проверяет, что подписка провайдера активна на
// указанный момент времени. Используется middleware провайдерских операций.
func (r *Repository) HasActiveSubscription(ctx context.Context, userID int64, at time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("subscription_active", "subscription_expiry").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveSubscription - build select query: %v", ErrBuildQuery, err)
	}

	var (
		active sql.NullBool
		expiry sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&active, &expiry)
	if err == sql.ErrNoRows {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveSubscription - scan row: %v", ErrScanRow, err)
	}

	return active.Bool && expiry.Valid && expiry.Time.After(at), nil
}
