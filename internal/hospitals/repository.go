package hospitals

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/upcharify/admin-api/pkg/listquery"
)

const hospitalColumns = `id, name, type, email, phone, website, address, city, state, country,
	pincode, latitude, longitude, total_beds, available_beds, emergency_service,
	ambulance_service, facilities, status, verified, rating, review_count,
	commission_rate, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of non-deleted hospitals matching the filter state,
// plus the total row count for the pager.
func (r *Repository) List(ctx context.Context, st *listquery.State) ([]Hospital, int, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any

	if v := st.Get("search"); v != "" {
		args = append(args, "%"+v+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR city ILIKE $%d)", n, n))
	}
	if v := st.Get("city"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("city = $%d", len(args)))
	}
	if v := st.Get("state"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("state = $%d", len(args)))
	}
	if v := st.Get("status"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if v := st.Get("type"); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if st.IsSet("verified") {
		args = append(args, st.GetBool("verified"))
		where = append(where, fmt.Sprintf("verified = $%d", len(args)))
	}
	if st.IsSet("emergencyService") {
		args = append(args, st.GetBool("emergencyService"))
		where = append(where, fmt.Sprintf("emergency_service = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hospitals WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("hospitals: count: %w", err)
	}

	args = append(args, st.Limit(), st.Offset())
	query := fmt.Sprintf(`SELECT %s FROM hospitals WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		hospitalColumns, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("hospitals: list: %w", err)
	}
	defer rows.Close()

	out := []Hospital{}
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, rows.Err()
}

// Get returns a hospital by id, or nil when absent or soft-deleted.
func (r *Repository) Get(ctx context.Context, id string) (*Hospital, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM hospitals WHERE id = $1 AND deleted_at IS NULL`, hospitalColumns), id)
	h, err := scanHospital(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *Repository) Create(ctx context.Context, h *Hospital) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hospitals (id, name, type, email, phone, website, address, city, state,
		    country, pincode, latitude, longitude, total_beds, available_beds,
		    emergency_service, ambulance_service, facilities, status, verified, rating,
		    review_count, commission_rate, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$24)`,
		h.ID, h.Name, h.Type, h.Email, h.Phone, h.Website, h.Address, h.City, h.State,
		h.Country, h.Pincode, h.Latitude, h.Longitude, h.TotalBeds, h.AvailableBeds,
		h.EmergencyService, h.AmbulanceService, pq.Array(h.Facilities), h.Status,
		h.Verified, h.Rating, h.ReviewCount, h.CommissionRate, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("hospitals: create: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, h *Hospital) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE hospitals SET name=$2, type=$3, email=$4, phone=$5, website=$6, address=$7,
		    city=$8, state=$9, country=$10, pincode=$11, latitude=$12, longitude=$13,
		    total_beds=$14, available_beds=$15, emergency_service=$16, ambulance_service=$17,
		    facilities=$18, commission_rate=$19, updated_at=$20
		WHERE id = $1 AND deleted_at IS NULL`,
		h.ID, h.Name, h.Type, h.Email, h.Phone, h.Website, h.Address, h.City, h.State,
		h.Country, h.Pincode, h.Latitude, h.Longitude, h.TotalBeds, h.AvailableBeds,
		h.EmergencyService, h.AmbulanceService, pq.Array(h.Facilities), h.CommissionRate,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("hospitals: update: %w", err)
	}
	return requireRow(res, "hospitals: update")
}

// SoftDelete marks a hospital deleted without dropping the row.
func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE hospitals SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("hospitals: delete: %w", err)
	}
	return requireRow(res, "hospitals: delete")
}

// SetStatus moves a hospital to a new lifecycle status.
func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE hospitals SET status = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("hospitals: set status: %w", err)
	}
	return requireRow(res, "hospitals: set status")
}

// SetVerified flips the verification flag.
func (r *Repository) SetVerified(ctx context.Context, id string, verified bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE hospitals SET verified = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, verified, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("hospitals: set verified: %w", err)
	}
	return requireRow(res, "hospitals: set verified")
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

func scanHospital(row scanner) (Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Type, &h.Email, &h.Phone, &h.Website, &h.Address,
		&h.City, &h.State, &h.Country, &h.Pincode, &h.Latitude, &h.Longitude,
		&h.TotalBeds, &h.AvailableBeds, &h.EmergencyService, &h.AmbulanceService,
		pq.Array(&h.Facilities), &h.Status, &h.Verified, &h.Rating, &h.ReviewCount,
		&h.CommissionRate, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return Hospital{}, err
	}
	if h.Facilities == nil {
		h.Facilities = []string{}
	}
	return h, nil
}
