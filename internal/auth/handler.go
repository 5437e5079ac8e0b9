package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/upcharify/admin-api/internal/api/respond"
	"github.com/upcharify/admin-api/internal/http/middleware"
	"github.com/upcharify/admin-api/internal/users"
	"github.com/upcharify/admin-api/internal/validate"
	"github.com/upcharify/admin-api/pkg/logging"
)

// Handler serves the /auth endpoints: password login with rotated refresh
// tokens, self-registration, and the forgot/reset and verify-email flows.
type Handler struct {
	users  *users.Repository
	tokens *TokenStore
	logger *logging.Logger

	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

type HandlerConfig struct {
	Users  *users.Repository
	Tokens *TokenStore
	Logger *logging.Logger

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.ResetTTL == 0 {
		cfg.ResetTTL = time.Hour
	}
	return &Handler{
		users:      cfg.Users,
		tokens:     cfg.Tokens,
		logger:     cfg.Logger,
		secret:     cfg.JWTSecret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		resetTTL:   cfg.ResetTTL,
	}
}

// Routes mounts the auth endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/refresh-token", h.Refresh)
	r.Post("/logout", h.Logout)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)
	r.Post("/verify-email", h.VerifyEmail)
	return r
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	creds, err := h.users.GetCredentials(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("credential lookup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	if creds == nil ||
		bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)) != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if creds.Status == users.StatusSuspended || creds.Status == users.StatusInactive {
		respond.Error(w, http.StatusForbidden, "account is "+creds.Status)
		return
	}

	pair, err := h.issueTokens(r, creds.ID, creds.Role)
	if err != nil {
		h.logger.Error("token issue failed", "userId", creds.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	respond.JSON(w, http.StatusOK, pair)
}

// POST /auth/register
//
// Self-registration only creates patient-side accounts. Staff accounts come
// through the super-admin user endpoints.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req users.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.Role == "" {
		req.Role = users.RolePatient
	}
	req.Normalize()

	errs := req.Validate()
	if users.IsStaffRole(req.Role) || req.Role == users.RoleSuperAdmin || req.Role == users.RoleAdmin {
		errs = append(errs, validate.FieldError{Path: "role", Message: "role cannot self-register"})
	}
	if req.Password == "" {
		errs = append(errs, validate.FieldError{Path: "password", Message: "password is required"})
	} else if len(req.Password) < 8 {
		errs = append(errs, validate.FieldError{Path: "password", Message: "password must be at least 8 characters"})
	}
	if len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	now := time.Now().UTC()
	u := users.User{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Gender:    req.Gender,
		Role:      req.Role,
		Status:    users.StatusPendingVerification,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.users.Create(r.Context(), &u, string(hash)); err != nil {
		h.logger.Error("registration failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	if token, err := NewOpaqueToken(); err == nil {
		if err := h.tokens.SaveVerify(r.Context(), token, u.ID, h.refreshTTL); err != nil {
			h.logger.Warn("verify token save failed", "userId", u.ID, "error", err)
		} else {
			// Mail delivery is handled out of band; the token lands in the
			// outbox via logs for now.
			h.logger.Info("verification token issued", "userId", u.ID)
		}
	}

	respond.JSON(w, http.StatusCreated, u)
}

// POST /auth/refresh-token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	userID, err := h.tokens.ConsumeRefresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("refresh consume failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	if userID == "" {
		respond.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("refresh user load failed", "userId", userID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	if u == nil || u.Status == users.StatusSuspended {
		respond.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := h.issueTokens(r, u.ID, u.Role)
	if err != nil {
		h.logger.Error("token issue failed", "userId", u.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	respond.JSON(w, http.StatusOK, pair)
}

// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.RefreshToken != "" {
		if err := h.tokens.RevokeRefresh(r.Context(), req.RefreshToken); err != nil {
			h.logger.Warn("refresh revoke failed", "error", err)
		}
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

// POST /auth/forgot-password
//
// Always answers 200 so the endpoint cannot be used to probe for accounts.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	creds, err := h.users.GetCredentials(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("forgot-password lookup failed", "error", err)
	}
	if creds != nil {
		if token, err := NewOpaqueToken(); err == nil {
			if err := h.tokens.SaveReset(r.Context(), token, creds.ID, h.resetTTL); err != nil {
				h.logger.Warn("reset token save failed", "userId", creds.ID, "error", err)
			} else {
				h.logger.Info("reset token issued", "userId", creds.ID)
			}
		}
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"message": "if the account exists, a reset link has been sent",
	})
}

// POST /auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	userID, err := h.tokens.ConsumeReset(r.Context(), req.Token)
	if err != nil {
		h.logger.Error("reset consume failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "reset failed")
		return
	}
	if userID == "" {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "reset failed")
		return
	}
	if err := h.users.SetPassword(r.Context(), userID, string(hash)); err != nil {
		h.logger.Error("password update failed", "userId", userID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "reset failed")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"passwordReset": true})
}

// POST /auth/verify-email
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	userID, err := h.tokens.ConsumeVerify(r.Context(), req.Token)
	if err != nil {
		h.logger.Error("verify consume failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "verification failed")
		return
	}
	if userID == "" {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired verification token")
		return
	}
	if err := h.users.SetEmailVerified(r.Context(), userID); err != nil {
		h.logger.Error("verify update failed", "userId", userID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "verification failed")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"emailVerified": true})
}

// issueTokens mints a signed access token and a fresh opaque refresh token.
func (h *Handler) issueTokens(r *http.Request, userID, role string) (TokenPair, error) {
	now := time.Now().UTC()
	claims := middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.accessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := NewOpaqueToken()
	if err != nil {
		return TokenPair{}, err
	}
	if err := h.tokens.SaveRefresh(r.Context(), refresh, userID, h.refreshTTL); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(h.accessTTL.Seconds()),
	}, nil
}
