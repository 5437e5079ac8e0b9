package adminclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, opts ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL, Tokens: StaticToken("test-token")}
	for _, opt := range opts {
		opt(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func ok(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func fail(w http.ResponseWriter, status int, message string, errs ...FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": false, "message": message}
	if len(errs) > 0 {
		body["errors"] = errs
	}
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		ok(w, Hospital{ID: "h1", Name: "City Care"})
	}))

	h, err := c.Hospitals.Get(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/api/v1/admin/hospital/h1", gotPath)
	assert.Equal(t, "City Care", h.Name)
}

func TestClientUnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok(w, Doctor{ID: "d1", FirstName: "Asha", Specialization: "cardiology", Verified: true})
	}))

	d, err := c.Doctors.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", d.FirstName)
	assert.True(t, d.Verified)
}

func TestClientNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "hospital not found")
	}))

	_, err := c.Hospitals.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.StatusCode)
	assert.Equal(t, "hospital not found", ae.Message)
}

func TestClientValidationErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusUnprocessableEntity, "validation failed",
			FieldError{Path: "email", Message: "email is required"},
			FieldError{Path: "phone", Message: "phone is invalid"},
		)
	}))

	_, err := c.Hospitals.Create(context.Background(), HospitalParams{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	require.Len(t, ae.Errors, 2)
	assert.Equal(t, "email", ae.Errors[0].Path)
}

func TestClientOnUnauthorizedHook(t *testing.T) {
	fired := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusUnauthorized, "invalid or expired token")
	}), func(cfg *Config) {
		cfg.OnUnauthorized = func() { fired = true }
	})

	_, err := c.Users.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, fired)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.StatusCode)
}

func TestClientLoginWithoutToken(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		ok(w, TokenPair{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 900})
	}), func(cfg *Config) {
		cfg.Tokens = nil
	})

	pair, err := c.Auth.Login(context.Background(), "admin@upcharify.com", "secret123")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "admin@upcharify.com", gotBody["email"])
	assert.Equal(t, "rt", pair.RefreshToken)
	assert.Equal(t, 900, pair.ExpiresIn)
}
