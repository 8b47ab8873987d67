package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/pkg/dbmetrics"
	"github.com/vaidhya-health/appointment-service/pkg/psqlbuilder"
)

// Repository репозиторий для работы с записями на прием.
// Записи никогда не удаляются физически - терминальные статусы и
// audit-поля хранят полную историю.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var appointmentColumns = []string{
	"id",
	"type",
	"customer_id",
	"doctor_id",
	"hospital_id",
	"vendor_id",
	"date_time",
	"consultation_type",
	"amount",
	"currency",
	"status",
	"notes",
	"is_paid",
	"payment_order_id",
	"payment_id",
	"booked_at",
	"cancelled_at",
	"cancellation_reason",
	"specialty",
	"clinic_name",
	"clinic_address",
	"department",
	"hospital_service",
	"hospital_address",
	"service_type",
	"service_name",
	"vendor_address",
	"patient_name",
	"patient_age",
	"patient_gender",
	"patient_phone",
	"patient_email",
	"patient_relationship",
	"patient_medical_history",
	"patient_allergies",
	"patient_medications",
	"call_channel_name",
	"call_customer_uid",
	"call_provider_uid",
	"call_customer_token",
	"call_provider_token",
	"call_started",
	"call_start_time",
	"call_end_time",
	"call_duration_seconds",
	"created_at",
	"updated_at",
}

// Create создает запись на прием со статусом, выставленным вызывающей
// стороной, и снапшотом цены/витринных полей
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		patientName, patientGender, patientPhone, patientEmail      *string
		patientRelationship                                         *string
		patientMedicalHistory, patientAllergies, patientMedications *string
		patientAge                                                  *int
	)
	if a.PatientDetails != nil {
		patientName = &a.PatientDetails.Name
		patientAge = a.PatientDetails.Age
		patientGender = a.PatientDetails.Gender
		patientPhone = a.PatientDetails.Phone
		patientEmail = a.PatientDetails.Email
		patientRelationship = &a.PatientDetails.RelationshipToCustomer
		patientMedicalHistory = a.PatientDetails.MedicalHistory
		patientAllergies = a.PatientDetails.Allergies
		patientMedications = a.PatientDetails.CurrentMedications
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"type",
			"customer_id",
			"doctor_id",
			"hospital_id",
			"vendor_id",
			"date_time",
			"consultation_type",
			"amount",
			"currency",
			"status",
			"notes",
			"is_paid",
			"payment_order_id",
			"specialty",
			"clinic_name",
			"clinic_address",
			"department",
			"hospital_service",
			"hospital_address",
			"service_type",
			"service_name",
			"vendor_address",
			"patient_name",
			"patient_age",
			"patient_gender",
			"patient_phone",
			"patient_email",
			"patient_relationship",
			"patient_medical_history",
			"patient_allergies",
			"patient_medications",
		).
		Values(
			a.Type,
			a.CustomerID,
			a.DoctorID,
			a.HospitalID,
			a.VendorID,
			a.DateTime,
			a.ConsultationType,
			a.Amount,
			a.Currency,
			a.Status,
			a.Notes,
			a.IsPaid,
			a.PaymentOrderID,
			a.Specialty,
			a.ClinicName,
			a.ClinicAddress,
			a.Department,
			a.HospitalService,
			a.HospitalAddress,
			a.ServiceType,
			a.ServiceName,
			a.VendorAddress,
			patientName,
			patientAge,
			patientGender,
			patientPhone,
			patientEmail,
			patientRelationship,
			patientMedicalHistory,
			patientAllergies,
			patientMedications,
		).
		Suffix("RETURNING id, booked_at, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var bookedAt, createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&bookedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.BookedAt = bookedAt.Time
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции подтверждения/отмены блокируем строку, чтобы
	// гонка confirm/cancel на одной записи сериализовалась
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := r.scanAppointments(rows)
	if err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, ErrAppointmentNotFound
	}

	return appointments[0], nil
}

// List получает записи по гибкому фильтру, сортировка от новых к старым
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		OrderBy("date_time DESC")

	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Type != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.ProviderID != nil {
		// Провайдер ищется по type-согласованному внешнему ключу
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"doctor_id": *filter.ProviderID},
			squirrel.Eq{"hospital_id": *filter.ProviderID},
			squirrel.Eq{"vendor_id": *filter.ProviderID},
		})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// UpdateStatusIf выполняет условный переход статуса: строка обновляется
// только если ее текущий статус входит в expected. Это атомарная проверка
// state machine на уровне БД.
func (r *Repository) UpdateStatusIf(ctx context.Context, id int64, expected []domain.AppointmentStatus, to domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	expectedStrings := make([]string, len(expected))
	for i, s := range expected {
		expectedStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": expectedStrings}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.classifyConflict(ctx, id)
	}

	return nil
}

// MarkPaid фиксирует успешное подтверждение оплаты: статус, флаг isPaid и
// ссылку на платеж одним условным обновлением
func (r *Repository) MarkPaid(ctx context.Context, id int64, paymentID string, expected []domain.AppointmentStatus, to domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	expectedStrings := make([]string, len(expected))
	for i, s := range expected {
		expectedStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", to).
		Set("is_paid", true).
		Set("payment_id", paymentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": expectedStrings}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.classifyConflict(ctx, id)
	}

	return nil
}

// Cancel переводит запись в cancelled с причиной и отметкой времени.
// Условие на статус не дает отменить завершенную или уже отмененную запись.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": []string{
			string(domain.StatusCompleted),
			string(domain.StatusCancelled),
		}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.classifyConflict(ctx, id)
	}

	return nil
}

// SetRejected переводит запись в rejected с причиной отказа провайдера
func (r *Repository) SetRejected(ctx context.Context, id int64, reason string, expected []domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	expectedStrings := make([]string, len(expected))
	for i, s := range expected {
		expectedStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusRejected).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": expectedStrings}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetRejected - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetRejected - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetRejected - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.classifyConflict(ctx, id)
	}

	return nil
}

// UpdateCallDetails сохраняет состояние call-сессии
func (r *Repository) UpdateCallDetails(ctx context.Context, id int64, cd *domain.CallDetails) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("call_channel_name", cd.ChannelName).
		Set("call_customer_uid", cd.CustomerUID).
		Set("call_provider_uid", cd.ProviderUID).
		Set("call_customer_token", cd.CustomerToken).
		Set("call_provider_token", cd.ProviderToken).
		Set("call_started", cd.CallStarted).
		Set("call_start_time", cd.CallStartTime).
		Set("call_end_time", cd.CallEndTime).
		Set("call_duration_seconds", cd.CallDurationSeconds).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCallDetails - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateCallDetails - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateCallDetails - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// classifyConflict различает "запись не найдена" и "статус не совпал"
func (r *Repository) classifyConflict(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: classifyConflict - build exists query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return fmt.Errorf("%w: classifyConflict - scan exists: %v", ErrScanRow, err)
	}
	if count == 0 {
		return ErrAppointmentNotFound
	}

	return ErrStatusConflict
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var a domain.Appointment
		var consultationType sql.NullString
		var bookedAt, createdAt, updatedAt sql.NullTime

		var (
			patientName, patientGender, patientPhone, patientEmail      sql.NullString
			patientRelationship                                         sql.NullString
			patientMedicalHistory, patientAllergies, patientMedications sql.NullString
			patientAge                                                  sql.NullInt64
		)

		var (
			callChannel, callCustomerToken, callProviderToken sql.NullString
			callCustomerUID, callProviderUID                  sql.NullInt64
			callStarted                                       sql.NullBool
			callStartTime, callEndTime                        sql.NullTime
			callDuration                                      sql.NullInt64
		)

		err := rows.Scan(
			&a.ID,
			&a.Type,
			&a.CustomerID,
			&a.DoctorID,
			&a.HospitalID,
			&a.VendorID,
			&a.DateTime,
			&consultationType,
			&a.Amount,
			&a.Currency,
			&a.Status,
			&a.Notes,
			&a.IsPaid,
			&a.PaymentOrderID,
			&a.PaymentID,
			&bookedAt,
			&a.CancelledAt,
			&a.CancellationReason,
			&a.Specialty,
			&a.ClinicName,
			&a.ClinicAddress,
			&a.Department,
			&a.HospitalService,
			&a.HospitalAddress,
			&a.ServiceType,
			&a.ServiceName,
			&a.VendorAddress,
			&patientName,
			&patientAge,
			&patientGender,
			&patientPhone,
			&patientEmail,
			&patientRelationship,
			&patientMedicalHistory,
			&patientAllergies,
			&patientMedications,
			&callChannel,
			&callCustomerUID,
			&callProviderUID,
			&callCustomerToken,
			&callProviderToken,
			&callStarted,
			&callStartTime,
			&callEndTime,
			&callDuration,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		if consultationType.Valid {
			ct := domain.ConsultationType(consultationType.String)
			a.ConsultationType = &ct
		}

		a.BookedAt = bookedAt.Time
		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time

		if patientName.Valid {
			pd := &domain.PatientDetails{
				Name:                   patientName.String,
				RelationshipToCustomer: patientRelationship.String,
			}
			if patientAge.Valid {
				age := int(patientAge.Int64)
				pd.Age = &age
			}
			pd.Gender = nullableString(patientGender)
			pd.Phone = nullableString(patientPhone)
			pd.Email = nullableString(patientEmail)
			pd.MedicalHistory = nullableString(patientMedicalHistory)
			pd.Allergies = nullableString(patientAllergies)
			pd.CurrentMedications = nullableString(patientMedications)
			a.PatientDetails = pd
		}

		if callChannel.Valid {
			cd := &domain.CallDetails{
				ChannelName:   callChannel.String,
				CustomerUID:   uint32(callCustomerUID.Int64),
				ProviderUID:   uint32(callProviderUID.Int64),
				CustomerToken: callCustomerToken.String,
				ProviderToken: callProviderToken.String,
				CallStarted:   callStarted.Bool,
			}
			if callStartTime.Valid {
				t := callStartTime.Time
				cd.CallStartTime = &t
			}
			if callEndTime.Valid {
				t := callEndTime.Time
				cd.CallEndTime = &t
			}
			if callDuration.Valid {
				d := int(callDuration.Int64)
				cd.CallDurationSeconds = &d
			}
			a.CallDetails = cd
		}

		appointments = append(appointments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
