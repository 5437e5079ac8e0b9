package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/upcharify/admin-api/pkg/listquery"
)

const userColumns = `u.id, u.first_name, u.last_name, u.email, u.phone, u.date_of_birth,
	u.gender, u.blood_group, u.avatar_url, u.role, u.status, u.email_verified,
	u.phone_verified, u.created_at, u.updated_at,
	a.hospital_id, a.department_id, a.employee_id, a.specialization, a.license_number,
	a.nursing_license_number, a.pharmacy_license_number, a.shift, a.consultation_fee,
	a.joined_at`

const userFrom = `users u LEFT JOIN user_hospital_assignments a ON a.user_id = u.id`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of non-deleted users matching the filter state, plus
// the total count.
func (r *Repository) List(ctx context.Context, st *listquery.State) ([]User, int, error) {
	where := []string{"u.deleted_at IS NULL"}
	var args []any

	if v := st.Get("search"); v != "" {
		args = append(args, "%"+v+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)", n, n, n))
	}
	if v := st.Get("role"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if v := st.Get("status"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("u.status = $%d", len(args)))
	}
	if st.IsSet("verified") {
		args = append(args, st.GetBool("verified"))
		where = append(where, fmt.Sprintf("u.email_verified = $%d", len(args)))
	}
	if v := st.Get("hospitalId"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("a.hospital_id = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", userFrom, cond), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users: count: %w", err)
	}

	args = append(args, st.Limit(), st.Offset())
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s
		ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, userFrom, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Get returns a user by id, or nil when absent or soft-deleted.
func (r *Repository) Get(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE u.id = $1 AND u.deleted_at IS NULL`, userColumns, userFrom), id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Credentials is the slice of a user the auth flow needs.
type Credentials struct {
	ID            string
	Role          string
	Status        string
	PasswordHash  string
	EmailVerified bool
}

// GetCredentials looks up the login material for an email, nil when unknown.
func (r *Repository) GetCredentials(ctx context.Context, email string) (*Credentials, error) {
	var c Credentials
	err := r.db.QueryRowContext(ctx, `
		SELECT id, role, status, password_hash, email_verified
		FROM users WHERE email = $1 AND deleted_at IS NULL`, email).
		Scan(&c.ID, &c.Role, &c.Status, &c.PasswordHash, &c.EmailVerified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: credentials: %w", err)
	}
	return &c, nil
}

// Create inserts the user and, when present, its hospital assignment in one
// transaction.
func (r *Repository) Create(ctx context.Context, u *User, passwordHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("users: begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, phone, password_hash,
		    date_of_birth, gender, blood_group, avatar_url, role, status,
		    email_verified, phone_verified, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone, passwordHash,
		u.DateOfBirth, u.Gender, u.BloodGroup, u.AvatarURL, u.Role, u.Status,
		u.EmailVerified, u.PhoneVerified, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("users: create: %w", err)
	}

	if u.HospitalAssignment != nil {
		if err := upsertAssignment(ctx, tx, u.ID, u.HospitalAssignment); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("users: commit create: %w", err)
	}
	return nil
}

// Update rewrites the user's profile fields and replaces its assignment.
func (r *Repository) Update(ctx context.Context, u *User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("users: begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET first_name=$2, last_name=$3, email=$4, phone=$5,
		    date_of_birth=$6, gender=$7, blood_group=$8, avatar_url=$9, role=$10,
		    updated_at=$11
		WHERE id = $1 AND deleted_at IS NULL`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone,
		u.DateOfBirth, u.Gender, u.BloodGroup, u.AvatarURL, u.Role,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_hospital_assignments WHERE user_id = $1`, u.ID); err != nil {
		return fmt.Errorf("users: clear assignment: %w", err)
	}
	if u.HospitalAssignment != nil {
		if err := upsertAssignment(ctx, tx, u.ID, u.HospitalAssignment); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("users: commit update: %w", err)
	}
	return nil
}

// SoftDelete marks a user deleted without dropping the row.
func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	return requireRow(res, "users: delete")
}

// SetStatus moves a user to a new lifecycle status.
func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("users: set status: %w", err)
	}
	return requireRow(res, "users: set status")
}

// SetEmailVerified marks the account's email as verified.
func (r *Repository) SetEmailVerified(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("users: verify email: %w", err)
	}
	return requireRow(res, "users: verify email")
}

// SetPassword replaces the stored password hash.
func (r *Repository) SetPassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("users: set password: %w", err)
	}
	return requireRow(res, "users: set password")
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

func upsertAssignment(ctx context.Context, tx *sql.Tx, userID string, a *HospitalAssignment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_hospital_assignments (user_id, hospital_id, department_id,
		    employee_id, specialization, license_number, nursing_license_number,
		    pharmacy_license_number, shift, consultation_fee, joined_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (user_id) DO UPDATE SET
		    hospital_id=EXCLUDED.hospital_id, department_id=EXCLUDED.department_id,
		    employee_id=EXCLUDED.employee_id, specialization=EXCLUDED.specialization,
		    license_number=EXCLUDED.license_number,
		    nursing_license_number=EXCLUDED.nursing_license_number,
		    pharmacy_license_number=EXCLUDED.pharmacy_license_number,
		    shift=EXCLUDED.shift, consultation_fee=EXCLUDED.consultation_fee,
		    joined_at=EXCLUDED.joined_at`,
		userID, a.HospitalID, nullable(a.DepartmentID), nullable(a.EmployeeID),
		nullable(a.Specialization), nullable(a.LicenseNumber),
		nullable(a.NursingLicenseNumber), nullable(a.PharmacyLicenseNumber),
		nullable(a.Shift), a.ConsultationFee, a.JoinedAt)
	if err != nil {
		return fmt.Errorf("users: upsert assignment: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (User, error) {
	var (
		u          User
		dob        sql.NullTime
		gender     sql.NullString
		bloodGroup sql.NullString
		avatar     sql.NullString

		hospitalID     sql.NullString
		departmentID   sql.NullString
		employeeID     sql.NullString
		specialization sql.NullString
		license        sql.NullString
		nursingLicense sql.NullString
		pharmLicense   sql.NullString
		shift          sql.NullString
		fee            sql.NullFloat64
		joinedAt       sql.NullTime
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &dob,
		&gender, &bloodGroup, &avatar, &u.Role, &u.Status, &u.EmailVerified,
		&u.PhoneVerified, &u.CreatedAt, &u.UpdatedAt,
		&hospitalID, &departmentID, &employeeID, &specialization, &license,
		&nursingLicense, &pharmLicense, &shift, &fee, &joinedAt)
	if err != nil {
		return User{}, err
	}
	if dob.Valid {
		u.DateOfBirth = &dob.Time
	}
	u.Gender = gender.String
	u.BloodGroup = bloodGroup.String
	u.AvatarURL = avatar.String

	if hospitalID.Valid {
		a := &HospitalAssignment{
			HospitalID:            hospitalID.String,
			DepartmentID:          departmentID.String,
			EmployeeID:            employeeID.String,
			Specialization:        specialization.String,
			LicenseNumber:         license.String,
			NursingLicenseNumber:  nursingLicense.String,
			PharmacyLicenseNumber: pharmLicense.String,
			Shift:                 shift.String,
			ConsultationFee:       fee.Float64,
		}
		if joinedAt.Valid {
			a.JoinedAt = &joinedAt.Time
		}
		u.HospitalAssignment = a
	}
	return u, nil
}
