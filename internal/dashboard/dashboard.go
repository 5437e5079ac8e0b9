// Package dashboard aggregates the platform-wide counters shown on the admin
// home screen. The numbers come straight from SQL and are cached as one blob,
// so a stats read normally costs a single redis round trip.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Resource is the cache/metrics name for this entity.
const Resource = "dashboard"

// Stats is the aggregate snapshot behind GET /dashboard/stats.
type Stats struct {
	TotalHospitals  int `json:"totalHospitals"`
	ActiveHospitals int `json:"activeHospitals"`

	TotalDoctors    int `json:"totalDoctors"`
	VerifiedDoctors int `json:"verifiedDoctors"`

	TotalUsers    int `json:"totalUsers"`
	TotalPatients int `json:"totalPatients"`

	TotalAppointments    int            `json:"totalAppointments"`
	AppointmentsToday    int            `json:"appointmentsToday"`
	AppointmentsByStatus map[string]int `json:"appointmentsByStatus"`
	AppointmentsPerMonth []MonthCount   `json:"appointmentsPerMonth"`

	RecentAppointments []RecentAppointment `json:"recentAppointments"`

	RevenueThisMonth float64 `json:"revenueThisMonth"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// MonthCount is one bucket of the appointment time-series, keyed "2006-01".
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// RecentAppointment is a slim row for the dashboard's latest-bookings list.
type RecentAppointment struct {
	ID           string    `json:"id"`
	PatientName  string    `json:"patientName"`
	DoctorName   string    `json:"doctorName"`
	HospitalName string    `json:"hospitalName"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	ScheduledAt  time.Time `json:"scheduledAt"`
}

// recentLimit caps the latest-bookings list.
const recentLimit = 5

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Stats computes the full snapshot. now anchors the "today" and "this month"
// windows, in UTC.
func (r *Repository) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	now = now.UTC()
	s := &Stats{
		AppointmentsByStatus: map[string]int{},
		GeneratedAt:          now,
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active')
		FROM hospitals WHERE deleted_at IS NULL`).
		Scan(&s.TotalHospitals, &s.ActiveHospitals)
	if err != nil {
		return nil, fmt.Errorf("dashboard: hospitals: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE verified)
		FROM doctors WHERE deleted_at IS NULL`).
		Scan(&s.TotalDoctors, &s.VerifiedDoctors)
	if err != nil {
		return nil, fmt.Errorf("dashboard: doctors: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE role = 'patient')
		FROM users WHERE deleted_at IS NULL`).
		Scan(&s.TotalUsers, &s.TotalPatients)
	if err != nil {
		return nil, fmt.Errorf("dashboard: users: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE scheduled_at >= $1 AND scheduled_at < $2),
		       COALESCE(SUM(fee) FILTER (WHERE status = 'completed' AND scheduled_at >= $3), 0)
		FROM appointments`,
		today, today.AddDate(0, 0, 1), monthStart).
		Scan(&s.TotalAppointments, &s.AppointmentsToday, &s.RevenueThisMonth)
	if err != nil {
		return nil, fmt.Errorf("dashboard: appointments: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("dashboard: appointment statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("dashboard: scan status: %w", err)
		}
		s.AppointmentsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dashboard: appointment statuses: %w", err)
	}

	if err := r.monthlySeries(ctx, s, monthStart); err != nil {
		return nil, err
	}
	if err := r.recentAppointments(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// monthlySeries fills the trailing twelve-month appointment counts, current
// month included. Empty months simply have no bucket.
func (r *Repository) monthlySeries(ctx context.Context, s *Stats, monthStart time.Time) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(date_trunc('month', scheduled_at), 'YYYY-MM'), COUNT(*)
		FROM appointments
		WHERE scheduled_at >= $1 AND scheduled_at < $2
		GROUP BY date_trunc('month', scheduled_at)
		ORDER BY 1`,
		monthStart.AddDate(0, -11, 0), monthStart.AddDate(0, 1, 0))
	if err != nil {
		return fmt.Errorf("dashboard: monthly series: %w", err)
	}
	defer rows.Close()

	s.AppointmentsPerMonth = []MonthCount{}
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return fmt.Errorf("dashboard: scan month: %w", err)
		}
		s.AppointmentsPerMonth = append(s.AppointmentsPerMonth, mc)
	}
	return rows.Err()
}

func (r *Repository) recentAppointments(ctx context.Context, s *Stats) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ap.id,
		       p.first_name || ' ' || p.last_name,
		       d.first_name || ' ' || d.last_name,
		       h.name, ap.type, ap.status, ap.scheduled_at
		FROM appointments ap
		JOIN users p ON p.id = ap.patient_id
		JOIN doctors d ON d.id = ap.doctor_id
		JOIN hospitals h ON h.id = ap.hospital_id
		ORDER BY ap.created_at DESC
		LIMIT $1`, recentLimit)
	if err != nil {
		return fmt.Errorf("dashboard: recent appointments: %w", err)
	}
	defer rows.Close()

	s.RecentAppointments = []RecentAppointment{}
	for rows.Next() {
		var ra RecentAppointment
		err := rows.Scan(&ra.ID, &ra.PatientName, &ra.DoctorName,
			&ra.HospitalName, &ra.Type, &ra.Status, &ra.ScheduledAt)
		if err != nil {
			return fmt.Errorf("dashboard: scan recent: %w", err)
		}
		s.RecentAppointments = append(s.RecentAppointments, ra)
	}
	return rows.Err()
}
