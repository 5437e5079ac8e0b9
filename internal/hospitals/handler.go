package hospitals

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

// Handler serves the /admin/hospital endpoints.
type Handler struct {
	repo    *Repository
	cache   *querycache.Store
	audit   *audit.Recorder
	metrics *metrics.APIMetrics
	logger  *logging.Logger
	schema  *listquery.Schema
}

// HandlerConfig wires the hospital handler's dependencies. Cache, Audit and
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

// Routes mounts the hospital resource tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/status", h.UpdateStatus)
		r.Post("/verify", h.Verify)
	})
	return r
}

// GET /admin/hospital
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	st := h.schema.Parse(r.URL.Query())
	key := st.Key()

	if h.cache != nil {
		var cached ListResponse
		hit, err := h.cache.Get(r.Context(), Resource, key, &cached)
		if err != nil {
			h.logger.Warn("hospital list cache read failed", "error", err)
		}
		h.metrics.ObserveCacheLookup(Resource, hit)
		if hit {
			respond.JSON(w, http.StatusOK, cached)
			return
		}
	}

	items, total, err := h.repo.List(r.Context(), st)
	if err != nil {
		h.logger.Error("hospital list failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list hospitals")
		return
	}

	resp := ListResponse{
		Hospitals:  items,
		Pagination: respond.NewPagination(total, st.Page(), st.Limit()),
	}
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), Resource, key, resp); err != nil {
			h.logger.Warn("hospital list cache write failed", "error", err)
		}
	}
	respond.JSON(w, http.StatusOK, resp)
}

// POST /admin/hospital
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	now := time.Now().UTC()
	hospital := Hospital{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Type:             req.Type,
		Email:            req.Email,
		Phone:            req.Phone,
		Website:          req.Website,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		Pincode:          req.Pincode,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		TotalBeds:        req.TotalBeds,
		AvailableBeds:    req.AvailableBeds,
		EmergencyService: req.EmergencyService,
		AmbulanceService: req.AmbulanceService,
		Facilities:       req.Facilities,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
		CommissionRate:   req.CommissionRate,
	}
	if hospital.Facilities == nil {
		hospital.Facilities = []string{}
	}

	if err := h.repo.Create(r.Context(), &hospital); err != nil {
		h.logger.Error("hospital create failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create hospital")
		return
	}

	h.invalidate(r)
	h.record(r, hospital.ID, "create", "")
	respond.JSON(w, http.StatusCreated, hospital)
}

// GET /admin/hospital/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hospital, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("hospital get failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load hospital")
		return
	}
	if hospital == nil {
		respond.NotFound(w, "hospital")
		return
	}
	respond.JSON(w, http.StatusOK, hospital)
}

// PUT /admin/hospital/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpsertHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	hospital := Hospital{
		ID:               id,
		Name:             req.Name,
		Type:             req.Type,
		Email:            req.Email,
		Phone:            req.Phone,
		Website:          req.Website,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		Pincode:          req.Pincode,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		TotalBeds:        req.TotalBeds,
		AvailableBeds:    req.AvailableBeds,
		EmergencyService: req.EmergencyService,
		AmbulanceService: req.AmbulanceService,
		Facilities:       req.Facilities,
		CommissionRate:   req.CommissionRate,
	}

	if err := h.repo.Update(r.Context(), &hospital); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "hospital")
			return
		}
		h.logger.Error("hospital update failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update hospital")
		return
	}

	h.invalidate(r)
	h.record(r, id, "update", "")
	updated, err := h.repo.Get(r.Context(), id)
	if err != nil || updated == nil {
		respond.JSON(w, http.StatusOK, hospital)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// DELETE /admin/hospital/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.SoftDelete(r.Context(), id); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "hospital")
			return
		}
		h.logger.Error("hospital delete failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete hospital")
		return
	}
	h.invalidate(r)
	h.record(r, id, "delete", "")
	respond.JSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// POST /admin/hospital/{id}/status
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
			respond.NotFound(w, "hospital")
			return
		}
		h.logger.Error("hospital status change failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to change hospital status")
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

// POST /admin/hospital/{id}/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.SetVerified(r.Context(), id, true); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "hospital")
			return
		}
		h.logger.Error("hospital verify failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to verify hospital")
		return
	}

	h.invalidate(r)
	h.record(r, id, "verify", "")
	updated, err := h.repo.Get(r.Context(), id)
	if err != nil || updated == nil {
		respond.JSON(w, http.StatusOK, map[string]any{"id": id, "verified": true})
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *Handler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context(), Resource); err != nil {
		h.logger.Warn("hospital cache invalidation failed", "error", err)
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
