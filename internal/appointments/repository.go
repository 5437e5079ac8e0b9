package appointments

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/upcharify/admin-api/pkg/listquery"
)

const appointmentColumns = `ap.id, ap.patient_id,
	p.first_name || ' ' || p.last_name AS patient_name,
	ap.doctor_id, d.first_name || ' ' || d.last_name AS doctor_name,
	ap.hospital_id, h.name AS hospital_name,
	ap.type, ap.status, ap.scheduled_at, ap.duration_minutes,
	ap.reason, ap.symptoms, ap.diagnosis, ap.prescription, ap.notes,
	ap.cancel_reason, ap.fee, ap.payment_status, ap.created_at, ap.updated_at`

const appointmentFrom = `appointments ap
	JOIN users p ON p.id = ap.patient_id
	JOIN doctors d ON d.id = ap.doctor_id
	JOIN hospitals h ON h.id = ap.hospital_id`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of appointments matching the filter state, plus the
// total count. Date filters are inclusive day bounds on scheduled_at.
func (r *Repository) List(ctx context.Context, st *listquery.State) ([]Appointment, int, error) {
	where := []string{"1=1"}
	var args []any

	if v := st.Get("search"); v != "" {
		args = append(args, "%"+v+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(p.first_name ILIKE $%d OR p.last_name ILIKE $%d OR d.last_name ILIKE $%d)", n, n, n))
	}
	if v := st.Get("status"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("ap.status = $%d", len(args)))
	}
	if v := st.Get("type"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("ap.type = $%d", len(args)))
	}
	if v := st.Get("doctorId"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("ap.doctor_id = $%d", len(args)))
	}
	if v := st.Get("hospitalId"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("ap.hospital_id = $%d", len(args)))
	}
	if v := st.Get("patientId"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("ap.patient_id = $%d", len(args)))
	}
	if v := st.Get("dateFrom"); v != "" {
		if day, err := time.Parse("2006-01-02", v); err == nil {
			args = append(args, day)
			where = append(where, fmt.Sprintf("ap.scheduled_at >= $%d", len(args)))
		}
	}
	if v := st.Get("dateTo"); v != "" {
		if day, err := time.Parse("2006-01-02", v); err == nil {
			args = append(args, day.AddDate(0, 0, 1))
			where = append(where, fmt.Sprintf("ap.scheduled_at < $%d", len(args)))
		}
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", appointmentFrom, cond), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("appointments: count: %w", err)
	}

	args = append(args, st.Limit(), st.Offset())
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s
		ORDER BY ap.scheduled_at DESC LIMIT $%d OFFSET $%d`,
		appointmentColumns, appointmentFrom, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		ap, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ap)
	}
	return out, total, rows.Err()
}

// Get returns an appointment by id, or nil when absent.
func (r *Repository) Get(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE ap.id = $1`, appointmentColumns, appointmentFrom), id)
	ap, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *Repository) Create(ctx context.Context, ap *Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, hospital_id, type,
		    status, scheduled_at, duration_minutes, reason, symptoms, fee,
		    payment_status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)`,
		ap.ID, ap.PatientID, ap.DoctorID, ap.HospitalID, ap.Type,
		ap.Status, ap.ScheduledAt, ap.DurationMinutes, ap.Reason, ap.Symptoms,
		ap.Fee, ap.PaymentStatus, ap.CreatedAt)
	if err != nil {
		return fmt.Errorf("appointments: create: %w", err)
	}
	return nil
}

// Update rewrites the bookable fields. Status changes go through the
// transition endpoints instead.
func (r *Repository) Update(ctx context.Context, ap *Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET type=$2, scheduled_at=$3, duration_minutes=$4,
		    reason=$5, symptoms=$6, fee=$7,
		    payment_status=COALESCE(NULLIF($8, ''), payment_status), updated_at=$9
		WHERE id = $1`,
		ap.ID, ap.Type, ap.ScheduledAt, ap.DurationMinutes,
		ap.Reason, ap.Symptoms, ap.Fee, ap.PaymentStatus, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("appointments: update: %w", err)
	}
	return requireRow(res, "appointments: update")
}

// Delete removes an appointment outright. Cancellation is the normal path;
// this is for records created in error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete: %w", err)
	}
	return requireRow(res, "appointments: delete")
}

// SetStatus moves an appointment to a new status, guarded by the caller
// having checked the transition.
func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("appointments: set status: %w", err)
	}
	return requireRow(res, "appointments: set status")
}

// Cancel records the cancellation reason along with the status flip.
func (r *Repository) Cancel(ctx context.Context, id, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $2, cancel_reason = $3, updated_at = $4 WHERE id = $1`,
		id, StatusCancelled, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("appointments: cancel: %w", err)
	}
	return requireRow(res, "appointments: cancel")
}

// Complete stores the clinical outcome along with the status flip.
func (r *Repository) Complete(ctx context.Context, id, notes, diagnosis, prescription string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $2, notes = $3, diagnosis = $4, prescription = $5, updated_at = $6 WHERE id = $1`,
		id, StatusCompleted, notes, diagnosis, prescription, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("appointments: complete: %w", err)
	}
	return requireRow(res, "appointments: complete")
}

// Reschedule moves the slot and flips the status in one statement.
func (r *Repository) Reschedule(ctx context.Context, id string, at time.Time, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $2, scheduled_at = $3, reason = COALESCE(NULLIF($4, ''), reason), updated_at = $5
		 WHERE id = $1`,
		id, StatusRescheduled, at, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("appointments: reschedule: %w", err)
	}
	return requireRow(res, "appointments: reschedule")
}

// ErrNotFound is returned by writes that matched no row.
var ErrNotFound = sql.ErrNoRows

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row scanner) (Appointment, error) {
	var (
		ap           Appointment
		reason       sql.NullString
		symptoms     sql.NullString
		diagnosis    sql.NullString
		prescription sql.NullString
		notes        sql.NullString
		cancelReason sql.NullString
	)
	err := row.Scan(&ap.ID, &ap.PatientID, &ap.PatientName,
		&ap.DoctorID, &ap.DoctorName, &ap.HospitalID, &ap.HospitalName,
		&ap.Type, &ap.Status, &ap.ScheduledAt, &ap.DurationMinutes,
		&reason, &symptoms, &diagnosis, &prescription, &notes, &cancelReason,
		&ap.Fee, &ap.PaymentStatus, &ap.CreatedAt, &ap.UpdatedAt)
	if err != nil {
		return Appointment{}, err
	}
	ap.Reason = reason.String
	ap.Symptoms = symptoms.String
	ap.Diagnosis = diagnosis.String
	ap.Prescription = prescription.String
	ap.Notes = notes.String
	ap.CancelReason = cancelReason.String
	return ap, nil
}
