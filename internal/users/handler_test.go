package users

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upcharify/admin-api/internal/querycache"
	"github.com/upcharify/admin-api/internal/validate"
)

type envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Message string                `json:"message"`
	Errors  []validate.FieldError `json:"errors"`
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewHandler(HandlerConfig{
		Repo:         NewRepository(db),
		Cache:        querycache.New(rdb, time.Minute, nil),
		DefaultLimit: 10,
	})
	return h, mock
}

func expectList(mock sqlmock.Sqlmock, total, limit, offset int, rowSets ...[]driver.Value) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users u")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(total))
	rows := sqlmock.NewRows(userRowColumns)
	for _, set := range rowSets {
		rows.AddRow(set...)
	}
	mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN user_hospital_assignments").
		WithArgs(limit, offset).
		WillReturnRows(rows)
}

func TestListEnvelopeAndCaching(t *testing.T) {
	h, mock := newTestHandler(t)
	expectList(mock, 23, 10, 0,
		patientRow("u1", "a@example.com"), doctorRow("u2", "b@example.com"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.True(t, env.Success)
	var resp ListResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Len(t, resp.Users, 2)
	assert.Equal(t, 23, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	require.NotNil(t, resp.Users[1].HospitalAssignment)

	// Replay hits the cache: no further DB expectations.
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStaffWithoutAssignmentRejected(t *testing.T) {
	h, _ := newTestHandler(t)

	body := strings.NewReader(`{
		"firstName":"Ravi","lastName":"Iyer","email":"ravi@example.com",
		"phone":"+919812345678","role":"doctor","password":"s3cret-pass"
	}`)
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/", body))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.True(t, validate.Has(env.Errors, "hospitalAssignment.hospitalId"))
}

func TestCreateRequiresPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	body := strings.NewReader(`{
		"firstName":"Asha","lastName":"Verma","email":"asha@example.com",
		"phone":"+919876543210","role":"patient"
	}`)
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/", body))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.True(t, validate.Has(env.Errors, "password"))
}

func TestCreateLegacyAssignmentPayload(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_hospital_assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := strings.NewReader(`{
		"firstName":"Ravi","lastName":"Iyer","email":"ravi@example.com",
		"phone":"+919812345678","role":"doctor","password":"s3cret-pass",
		"hospitalAssignments":{
			"doctor":{"hospitalId":"h1","specialization":"cardiology","licenseNumber":"MCI-4410"}
		}
	}`)
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	var created User
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, StatusPendingVerification, created.Status)
	require.NotNil(t, created.HospitalAssignment)
	assert.Equal(t, "h1", created.HospitalAssignment.HospitalID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvalidatesListCache(t *testing.T) {
	h, mock := newTestHandler(t)

	expectList(mock, 1, 10, 0, patientRow("u1", "a@example.com"))
	h.List(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := strings.NewReader(`{
		"firstName":"Asha","lastName":"Verma","email":"asha@example.com",
		"phone":"+919876543210","role":"patient","password":"s3cret-pass"
	}`)
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	expectList(mock, 2, 10, 0,
		patientRow("u1", "a@example.com"), patientRow("u3", "asha@example.com"))
	h.List(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN user_hospital_assignments").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	router := h.Routes()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ghost", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, "user not found", env.Message)
}

func TestUpdateStatusThroughRouter(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec("UPDATE users SET status").
		WithArgs("u1", StatusSuspended, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN user_hospital_assignments").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(patientRow("u1", "a@example.com")...))

	router := h.Routes()
	body := strings.NewReader(`{"status":"suspended","reason":"abuse report"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/u1/status", body))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyEmailThroughRouter(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec("UPDATE users SET email_verified").
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	router := h.Routes()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/u1/verify", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
