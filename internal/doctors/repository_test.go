package doctors

import (
	"context"
	"database/sql/driver"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var doctorRowColumns = []string{
	"id", "user_id", "first_name", "last_name", "email", "phone", "gender",
	"specialization", "qualification", "experience_years", "license_number",
	"consultation_fee", "bio", "avatar_url", "status", "verified", "rating",
	"review_count", "created_at", "updated_at",
}

func doctorRow(id, lastName string) []driver.Value {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, nil, "Ravi", lastName, id + "@example.com", "+919812345678", "male",
		"cardiology", "MBBS, MD", 12, "MCI-4410",
		750.0, nil, nil, StatusActive, true, 4.6,
		88, now, now,
	}
}

var assignmentRowColumns = []string{
	"id", "doctor_id", "hospital_id", "name", "commission_rate", "is_primary",
	"status", "department", "consultation_fee", "available_days", "start_time",
	"end_time", "joined_at", "left_at", "created_at",
}

func TestListFiltersByHospitalThroughAssignments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	st := ListSchema(10).Parse(url.Values{
		"specialization": {"cardiology"},
		"hospitalId":     {"h1"},
		"verified":       {"true"},
	})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM doctors")).
		WithArgs("cardiology", "h1", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows := sqlmock.NewRows(doctorRowColumns).
		AddRow(doctorRow("d1", "Iyer")...).
		AddRow(doctorRow("d2", "Rao")...)
	mock.ExpectQuery("SELECT (.+) FROM doctors WHERE deleted_at IS NULL").
		WithArgs("cardiology", "h1", true, 10, 0).
		WillReturnRows(rows)

	items, total, err := repo.List(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "cardiology", items[0].Specialization)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLoadsAssignments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM doctors WHERE id =").
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(doctorRowColumns).AddRow(doctorRow("d1", "Iyer")...))
	mock.ExpectQuery("SELECT (.+) FROM doctor_hospital_assignments a").
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(assignmentRowColumns).
			AddRow("a1", "d1", "h1", "City Care", 12.5, true,
				AssignmentActive, "cardiology", 900.0, "{monday,wednesday}",
				"09:00", "13:00", now, nil, now))

	d, err := repo.Get(context.Background(), "d1")
	require.NoError(t, err)
	require.NotNil(t, d)
	require.Len(t, d.Hospitals, 1)
	assert.Equal(t, "City Care", d.Hospitals[0].HospitalName)
	assert.Equal(t, 12.5, d.Hospitals[0].CommissionRate)
	assert.True(t, d.Hospitals[0].Primary)
	assert.Equal(t, AssignmentActive, d.Hospitals[0].Status)
	assert.Equal(t, []string{"monday", "wednesday"}, d.Hospitals[0].AvailableDays)
	assert.Equal(t, "09:00", d.Hospitals[0].StartTime)
	require.NotNil(t, d.Hospitals[0].JoinedAt)
	assert.Nil(t, d.Hospitals[0].LeftAt)
}

func TestGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM doctors WHERE id =").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(doctorRowColumns))

	d, err := repo.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestAssignUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO doctor_hospital_assignments").
		WithArgs("a1", "d1", "h1", 15.0, true, AssignmentActive,
			"cardiology", 900.0, sqlmock.AnyArg(), "09:00", "13:00",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	a := &HospitalAssignment{
		ID:              "a1",
		DoctorID:        "d1",
		HospitalID:      "h1",
		CommissionRate:  15.0,
		Primary:         true,
		Status:          AssignmentActive,
		Department:      "cardiology",
		ConsultationFee: 900.0,
		AvailableDays:   []string{"monday"},
		StartTime:       "09:00",
		EndTime:         "13:00",
		JoinedAt:        &now,
		CreatedAt:       now,
	}
	require.NoError(t, repo.Assign(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignMarksLeft(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectExec("UPDATE doctor_hospital_assignments SET status").
		WithArgs("a1", AssignmentInactive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Unassign(context.Background(), "a1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectExec("UPDATE doctor_hospital_assignments SET status").
		WithArgs("ghost", AssignmentInactive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Equal(t, ErrNotFound, repo.Unassign(context.Background(), "ghost"))
}

func TestSetVerified(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectExec("UPDATE doctors SET verified").
		WithArgs("d1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetVerified(context.Background(), "d1", true))
	require.NoError(t, mock.ExpectationsWereMet())
}
