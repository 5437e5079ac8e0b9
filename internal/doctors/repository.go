package doctors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/upcharify/admin-api/pkg/listquery"
)

const doctorColumns = `id, user_id, first_name, last_name, email, phone, gender,
	specialization, qualification, experience_years, license_number,
	consultation_fee, bio, avatar_url, status, verified, rating, review_count,
	created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of non-deleted doctors matching the filter state,
// plus the total count. The hospitalId filter matches through the assignment
// table.
func (r *Repository) List(ctx context.Context, st *listquery.State) ([]Doctor, int, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any

	if v := st.Get("search"); v != "" {
		args = append(args, "%"+v+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if v := st.Get("specialization"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("specialization = $%d", len(args)))
	}
	if v := st.Get("hospitalId"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM doctor_hospital_assignments dha WHERE dha.doctor_id = doctors.id AND dha.hospital_id = $%d AND dha.left_at IS NULL)",
			len(args)))
	}
	if v := st.Get("status"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if st.IsSet("verified") {
		args = append(args, st.GetBool("verified"))
		where = append(where, fmt.Sprintf("verified = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM doctors WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("doctors: count: %w", err)
	}

	args = append(args, st.Limit(), st.Offset())
	query := fmt.Sprintf(`SELECT %s FROM doctors WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		doctorColumns, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("doctors: list: %w", err)
	}
	defer rows.Close()

	out := []Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// Get returns a doctor with its hospital assignments, or nil when absent.
func (r *Repository) Get(ctx context.Context, id string) (*Doctor, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM doctors WHERE id = $1 AND deleted_at IS NULL`, doctorColumns), id)
	d, err := scanDoctor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	assignments, err := r.HospitalsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Hospitals = assignments
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, d *Doctor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO doctors (id, user_id, first_name, last_name, email, phone,
		    gender, specialization, qualification, experience_years,
		    license_number, consultation_fee, bio, avatar_url, status, verified,
		    rating, review_count, created_at, updated_at)
		VALUES ($1,NULLIF($2,''),$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$19)`,
		d.ID, d.UserID, d.FirstName, d.LastName, d.Email, d.Phone, d.Gender,
		d.Specialization, d.Qualification, d.ExperienceYears, d.LicenseNumber,
		d.ConsultationFee, d.Bio, d.AvatarURL, d.Status, d.Verified, d.Rating,
		d.ReviewCount, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("doctors: create: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, d *Doctor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE doctors SET user_id=NULLIF($2,''), first_name=$3, last_name=$4,
		    email=$5, phone=$6, gender=$7, specialization=$8, qualification=$9,
		    experience_years=$10, license_number=$11, consultation_fee=$12,
		    bio=$13, avatar_url=$14, updated_at=$15
		WHERE id = $1 AND deleted_at IS NULL`,
		d.ID, d.UserID, d.FirstName, d.LastName, d.Email, d.Phone,
		d.Gender, d.Specialization, d.Qualification, d.ExperienceYears,
		d.LicenseNumber, d.ConsultationFee, d.Bio, d.AvatarURL,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("doctors: update: %w", err)
	}
	return requireRow(res, "doctors: update")
}

// SoftDelete marks a doctor deleted without dropping the row.
func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE doctors SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("doctors: delete: %w", err)
	}
	return requireRow(res, "doctors: delete")
}

func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE doctors SET status = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("doctors: set status: %w", err)
	}
	return requireRow(res, "doctors: set status")
}

func (r *Repository) SetVerified(ctx context.Context, id string, verified bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE doctors SET verified = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, verified, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("doctors: set verified: %w", err)
	}
	return requireRow(res, "doctors: set verified")
}

// Assign links a doctor to a hospital. Re-assigning the same pair updates the
// terms in place and reopens a link that was previously left.
func (r *Repository) Assign(ctx context.Context, a *HospitalAssignment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO doctor_hospital_assignments (id, doctor_id, hospital_id,
		    commission_rate, is_primary, status, department, consultation_fee,
		    available_days, start_time, end_time, joined_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (doctor_id, hospital_id) DO UPDATE SET
		    commission_rate=EXCLUDED.commission_rate,
		    is_primary=EXCLUDED.is_primary,
		    status=EXCLUDED.status,
		    department=EXCLUDED.department,
		    consultation_fee=EXCLUDED.consultation_fee,
		    available_days=EXCLUDED.available_days,
		    start_time=EXCLUDED.start_time, end_time=EXCLUDED.end_time,
		    left_at=NULL`,
		a.ID, a.DoctorID, a.HospitalID,
		a.CommissionRate, a.Primary, a.Status,
		a.Department, a.ConsultationFee, pq.Array(a.AvailableDays),
		a.StartTime, a.EndTime, a.JoinedAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("doctors: assign: %w", err)
	}
	return nil
}

// HospitalsFor lists a doctor's open assignments, primary first, with
// hospital names resolved. Links the doctor has left are skipped.
func (r *Repository) HospitalsFor(ctx context.Context, doctorID string) ([]HospitalAssignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.doctor_id, a.hospital_id, h.name, a.commission_rate,
		    a.is_primary, a.status, a.department, a.consultation_fee,
		    a.available_days, a.start_time, a.end_time, a.joined_at, a.left_at,
		    a.created_at
		FROM doctor_hospital_assignments a
		JOIN hospitals h ON h.id = a.hospital_id
		WHERE a.doctor_id = $1 AND a.left_at IS NULL
		ORDER BY a.is_primary DESC, a.created_at DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("doctors: hospitals: %w", err)
	}
	defer rows.Close()

	out := []HospitalAssignment{}
	for rows.Next() {
		var (
			a          HospitalAssignment
			department sql.NullString
			start      sql.NullString
			end        sql.NullString
			joined     sql.NullTime
			left       sql.NullTime
		)
		err := rows.Scan(&a.ID, &a.DoctorID, &a.HospitalID, &a.HospitalName,
			&a.CommissionRate, &a.Primary, &a.Status,
			&department, &a.ConsultationFee, pq.Array(&a.AvailableDays),
			&start, &end, &joined, &left, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("doctors: scan assignment: %w", err)
		}
		a.Department = department.String
		a.StartTime = start.String
		a.EndTime = end.String
		if joined.Valid {
			t := joined.Time
			a.JoinedAt = &t
		}
		if left.Valid {
			t := left.Time
			a.LeftAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Unassign closes one doctor-hospital link by assignment id. The row stays
// for commission history; the link just stops being active.
func (r *Repository) Unassign(ctx context.Context, assignmentID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE doctor_hospital_assignments SET status = $2, left_at = $3
		WHERE id = $1 AND left_at IS NULL`,
		assignmentID, AssignmentInactive, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("doctors: unassign: %w", err)
	}
	return requireRow(res, "doctors: unassign")
}

// ErrNotFound is returned by writes that matched no live row.
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

func scanDoctor(row scanner) (Doctor, error) {
	var (
		d             Doctor
		userID        sql.NullString
		gender        sql.NullString
		qualification sql.NullString
		bio           sql.NullString
		avatar        sql.NullString
	)
	err := row.Scan(&d.ID, &userID, &d.FirstName, &d.LastName, &d.Email, &d.Phone,
		&gender, &d.Specialization, &qualification, &d.ExperienceYears,
		&d.LicenseNumber, &d.ConsultationFee, &bio, &avatar, &d.Status,
		&d.Verified, &d.Rating, &d.ReviewCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Doctor{}, err
	}
	d.UserID = userID.String
	d.Gender = gender.String
	d.Qualification = qualification.String
	d.Bio = bio.String
	d.AvatarURL = avatar.String
	return d, nil
}
