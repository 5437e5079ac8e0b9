package doctors

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/upcharify/admin-api/internal/api/respond"
	"github.com/upcharify/admin-api/internal/audit"
	"github.com/upcharify/admin-api/internal/http/middleware"
	"github.com/upcharify/admin-api/internal/observability/metrics"
	"github.com/upcharify/admin-api/internal/querycache"
	"github.com/upcharify/admin-api/pkg/listquery"
	"github.com/upcharify/admin-api/pkg/logging"
)

// Handler serves the /super-admin/doctors endpoints.
type Handler struct {
	repo    *Repository
	cache   *querycache.Store
	audit   *audit.Recorder
	metrics *metrics.APIMetrics
	logger  *logging.Logger
	schema  *listquery.Schema
}

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

// Routes mounts the doctor resource tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/assign", h.Assign)
	r.Delete("/assign/{assignmentId}", h.Unassign)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/status", h.UpdateStatus)
		r.Post("/verify", h.Verify)
		r.Get("/hospitals", h.Hospitals)
	})
	return r
}

// GET /super-admin/doctors
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	st := h.schema.Parse(r.URL.Query())
	key := st.Key()

	if h.cache != nil {
		var cached ListResponse
		hit, err := h.cache.Get(r.Context(), Resource, key, &cached)
		if err != nil {
			h.logger.Warn("doctor list cache read failed", "error", err)
		}
		h.metrics.ObserveCacheLookup(Resource, hit)
		if hit {
			respond.JSON(w, http.StatusOK, cached)
			return
		}
	}

	items, total, err := h.repo.List(r.Context(), st)
	if err != nil {
		h.logger.Error("doctor list failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list doctors")
		return
	}

	resp := ListResponse{
		Doctors:    items,
		Pagination: respond.NewPagination(total, st.Page(), st.Limit()),
	}
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), Resource, key, resp); err != nil {
			h.logger.Warn("doctor list cache write failed", "error", err)
		}
	}
	respond.JSON(w, http.StatusOK, resp)
}

// POST /super-admin/doctors
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	d := req.toDoctor()
	d.ID = uuid.NewString()
	d.Status = StatusPending
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := h.repo.Create(r.Context(), &d); err != nil {
		h.logger.Error("doctor create failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create doctor")
		return
	}

	h.invalidate(r)
	h.record(r, d.ID, "create", "")
	respond.JSON(w, http.StatusCreated, d)
}

// GET /super-admin/doctors/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("doctor get failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load doctor")
		return
	}
	if d == nil {
		respond.NotFound(w, "doctor")
		return
	}
	respond.JSON(w, http.StatusOK, d)
}

// PUT /super-admin/doctors/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpsertDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	d := req.toDoctor()
	d.ID = id

	if err := h.repo.Update(r.Context(), &d); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "doctor")
			return
		}
		h.logger.Error("doctor update failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update doctor")
		return
	}

	h.invalidate(r)
	h.record(r, id, "update", "")
	updated, err := h.repo.Get(r.Context(), id)
	if err != nil || updated == nil {
		respond.JSON(w, http.StatusOK, d)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// DELETE /super-admin/doctors/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.SoftDelete(r.Context(), id); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "doctor")
			return
		}
		h.logger.Error("doctor delete failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete doctor")
		return
	}
	h.invalidate(r)
	h.record(r, id, "delete", "")
	respond.JSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// POST /super-admin/doctors/{id}/status
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
			respond.NotFound(w, "doctor")
			return
		}
		h.logger.Error("doctor status change failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to change doctor status")
		return
	}

	h.invalidate(r)
	h.record(r, id, "status:"+req.Status, req.Reason)
	respond.JSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

// POST /super-admin/doctors/{id}/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.SetVerified(r.Context(), id, true); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "doctor")
			return
		}
		h.logger.Error("doctor verify failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to verify doctor")
		return
	}
	h.invalidate(r)
	h.record(r, id, "verify", "")
	respond.JSON(w, http.StatusOK, map[string]any{"id": id, "verified": true})
}

// POST /super-admin/doctors/assign
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	now := time.Now().UTC()
	a := HospitalAssignment{
		ID:              uuid.NewString(),
		DoctorID:        req.DoctorID,
		HospitalID:      req.HospitalID,
		CommissionRate:  req.CommissionRate,
		Primary:         req.Primary,
		Status:          req.Status,
		Department:      req.Department,
		ConsultationFee: req.ConsultationFee,
		AvailableDays:   req.AvailableDays,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		JoinedAt:        &now,
		CreatedAt:       now,
	}
	if a.Status == "" {
		a.Status = AssignmentActive
	}
	if err := h.repo.Assign(r.Context(), &a); err != nil {
		h.logger.Error("doctor assign failed", "doctorId", req.DoctorID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to assign doctor")
		return
	}

	h.invalidate(r)
	h.record(r, req.DoctorID, "assign", req.HospitalID)
	respond.JSON(w, http.StatusCreated, a)
}

// GET /super-admin/doctors/{id}/hospitals
func (h *Handler) Hospitals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	assignments, err := h.repo.HospitalsFor(r.Context(), id)
	if err != nil {
		h.logger.Error("doctor hospitals failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load doctor hospitals")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"hospitals": assignments})
}

// DELETE /super-admin/doctors/assign/{assignmentId}
func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentId")
	if err := h.repo.Unassign(r.Context(), assignmentID); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "assignment")
			return
		}
		h.logger.Error("doctor unassign failed", "assignmentId", assignmentID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to remove assignment")
		return
	}
	h.invalidate(r)
	h.record(r, assignmentID, "unassign", "")
	respond.JSON(w, http.StatusOK, map[string]any{"id": assignmentID, "removed": true})
}

func (req UpsertDoctorRequest) toDoctor() Doctor {
	return Doctor{
		UserID:          req.UserID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Gender:          req.Gender,
		Specialization:  req.Specialization,
		Qualification:   req.Qualification,
		ExperienceYears: req.ExperienceYears,
		LicenseNumber:   req.LicenseNumber,
		ConsultationFee: req.ConsultationFee,
		Bio:             req.Bio,
		AvatarURL:       req.AvatarURL,
	}
}

func (h *Handler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context(), Resource); err != nil {
		h.logger.Warn("doctor cache invalidation failed", "error", err)
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
