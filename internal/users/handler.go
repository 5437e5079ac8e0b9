package users

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/upcharify/admin-api/internal/api/respond"
	"github.com/upcharify/admin-api/internal/audit"
	"github.com/upcharify/admin-api/internal/http/middleware"
	"github.com/upcharify/admin-api/internal/observability/metrics"
	"github.com/upcharify/admin-api/internal/querycache"
	"github.com/upcharify/admin-api/internal/validate"
	"github.com/upcharify/admin-api/pkg/listquery"
	"github.com/upcharify/admin-api/pkg/logging"
)

// Handler serves the /super-admin/users endpoints.
type Handler struct {
	repo    *Repository
	cache   *querycache.Store
	audit   *audit.Recorder
	metrics *metrics.APIMetrics
	logger  *logging.Logger
	schema  *listquery.Schema
}

// HandlerConfig wires the user handler's dependencies. Cache, Audit and
// Metrics are optional.
type HandlerConfig struct {
	Repo         *Repository
	Cache        *querycache.Store
	Audit        *audit.Recorder
	Metrics      *metrics.APIMetrics
	Logger       *logging.Logger
	DefaultLimit int
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		repo:    cfg.Repo,
		cache:   cfg.Cache,
		audit:   cfg.Audit,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		schema:  ListSchema(cfg.DefaultLimit),
	}
}

// Routes mounts the user resource tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/status", h.UpdateStatus)
		r.Post("/verify", h.VerifyEmail)
	})
	return r
}

// GET /super-admin/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	st := h.schema.Parse(r.URL.Query())
	key := st.Key()

	if h.cache != nil {
		var cached ListResponse
		hit, err := h.cache.Get(r.Context(), Resource, key, &cached)
		if err != nil {
			h.logger.Warn("user list cache read failed", "error", err)
		}
		h.metrics.ObserveCacheLookup(Resource, hit)
		if hit {
			respond.JSON(w, http.StatusOK, cached)
			return
		}
	}

	items, total, err := h.repo.List(r.Context(), st)
	if err != nil {
		h.logger.Error("user list failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	resp := ListResponse{
		Users:      items,
		Pagination: respond.NewPagination(total, st.Page(), st.Limit()),
	}
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), Resource, key, resp); err != nil {
			h.logger.Warn("user list cache write failed", "error", err)
		}
	}
	respond.JSON(w, http.StatusOK, resp)
}

// POST /super-admin/users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	req.Normalize()

	errs := req.Validate()
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
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := req.toUser()
	user.ID = uuid.NewString()
	user.Status = StatusPendingVerification
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := h.repo.Create(r.Context(), &user, string(hash)); err != nil {
		h.logger.Error("user create failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.invalidate(r)
	h.record(r, user.ID, "create", "")
	respond.JSON(w, http.StatusCreated, user)
}

// GET /super-admin/users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("user get failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		respond.NotFound(w, "user")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// PUT /super-admin/users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	user := req.toUser()
	user.ID = id

	if err := h.repo.Update(r.Context(), &user); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "user")
			return
		}
		h.logger.Error("user update failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	h.invalidate(r)
	h.record(r, id, "update", "")
	updated, err := h.repo.Get(r.Context(), id)
	if err != nil || updated == nil {
		respond.JSON(w, http.StatusOK, user)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// DELETE /super-admin/users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.SoftDelete(r.Context(), id); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "user")
			return
		}
		h.logger.Error("user delete failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	h.invalidate(r)
	h.record(r, id, "delete", "")
	respond.JSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// POST /super-admin/users/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.repo.SetStatus(r.Context(), id, req.Status); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "user")
			return
		}
		h.logger.Error("user status change failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to change user status")
		return
	}

	h.invalidate(r)
	h.record(r, id, "status:"+req.Status, req.Reason)
	updated, err := h.repo.Get(r.Context(), id)
	if err != nil || updated == nil {
		respond.JSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// POST /super-admin/users/{id}/verify
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.SetEmailVerified(r.Context(), id); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "user")
			return
		}
		h.logger.Error("user verify failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to verify user")
		return
	}
	h.invalidate(r)
	h.record(r, id, "verify", "")
	respond.JSON(w, http.StatusOK, map[string]any{"id": id, "emailVerified": true})
}

func (req UpsertUserRequest) toUser() User {
	u := User{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		Gender:             req.Gender,
		BloodGroup:         req.BloodGroup,
		AvatarURL:          req.AvatarURL,
		Role:               req.Role,
		HospitalAssignment: req.HospitalAssignment,
	}
	if req.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", req.DateOfBirth); err == nil {
			u.DateOfBirth = &dob
		}
	}
	return u
}

func (h *Handler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context(), Resource); err != nil {
		h.logger.Warn("user cache invalidation failed", "error", err)
	}
	h.metrics.ObserveInvalidation(Resource)
}

func (h *Handler) record(r *http.Request, id, action, detail string) {
	actor := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		actor = claims.UserID
	}
	h.audit.Record(r.Context(), audit.Entry{
		Resource: Resource,
		EntityID: id,
		Action:   action,
		ActorID:  actor,
		Detail:   detail,
	})
}
