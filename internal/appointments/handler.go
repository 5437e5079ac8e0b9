package appointments

import (
	"encoding/json"
	"fmt"
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

// Handler serves the /super-admin/appointments endpoints.
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

// Routes mounts the appointment resource tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/confirm", h.Confirm)
		r.Post("/cancel", h.Cancel)
		r.Post("/start", h.Start)
		r.Post("/complete", h.Complete)
		r.Post("/no-show", h.NoShow)
		r.Post("/reschedule", h.Reschedule)
	})
	return r
}

// GET /super-admin/appointments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	st := h.schema.Parse(r.URL.Query())
	key := st.Key()

	if h.cache != nil {
		var cached ListResponse
		hit, err := h.cache.Get(r.Context(), Resource, key, &cached)
		if err != nil {
			h.logger.Warn("appointment list cache read failed", "error", err)
		}
		h.metrics.ObserveCacheLookup(Resource, hit)
		if hit {
			respond.JSON(w, http.StatusOK, cached)
			return
		}
	}

	items, total, err := h.repo.List(r.Context(), st)
	if err != nil {
		h.logger.Error("appointment list failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}

	resp := ListResponse{
		Appointments: items,
		Pagination:   respond.NewPagination(total, st.Page(), st.Limit()),
	}
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), Resource, key, resp); err != nil {
			h.logger.Warn("appointment list cache write failed", "error", err)
		}
	}
	respond.JSON(w, http.StatusOK, resp)
}

// POST /super-admin/appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)
	now := time.Now().UTC()
	ap := Appointment{
		ID:              uuid.NewString(),
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		HospitalID:      req.HospitalID,
		Type:            req.Type,
		Status:          StatusScheduled,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
		Fee:             req.Fee,
		PaymentStatus:   req.PaymentStatus,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if ap.DurationMinutes == 0 {
		ap.DurationMinutes = 30
	}
	if ap.PaymentStatus == "" {
		ap.PaymentStatus = PaymentPending
	}

	if err := h.repo.Create(r.Context(), &ap); err != nil {
		h.logger.Error("appointment create failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	h.invalidate(r)
	h.record(r, ap.ID, "create", "")
	respond.JSON(w, http.StatusCreated, ap)
}

// GET /super-admin/appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ap, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("appointment get failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load appointment")
		return
	}
	if ap == nil {
		respond.NotFound(w, "appointment")
		return
	}
	respond.JSON(w, http.StatusOK, ap)
}

// PUT /super-admin/appointments/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)
	ap := Appointment{
		ID:              id,
		Type:            req.Type,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
		Fee:             req.Fee,
		PaymentStatus:   req.PaymentStatus,
	}
	if ap.DurationMinutes == 0 {
		ap.DurationMinutes = 30
	}

	if err := h.repo.Update(r.Context(), &ap); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "appointment")
			return
		}
		h.logger.Error("appointment update failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}

	h.invalidate(r)
	h.record(r, id, "update", "")
	updated, err := h.repo.Get(r.Context(), id)
	if err != nil || updated == nil {
		respond.JSON(w, http.StatusOK, map[string]string{"id": id})
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// DELETE /super-admin/appointments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "appointment")
			return
		}
		h.logger.Error("appointment delete failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}
	h.invalidate(r)
	h.record(r, id, "delete", "")
	respond.JSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// POST /super-admin/appointments/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusConfirmed, func(id string) error {
		return h.repo.SetStatus(r.Context(), id, StatusConfirmed)
	})
}

// POST /super-admin/appointments/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}
	h.transition(w, r, StatusCancelled, func(id string) error {
		return h.repo.Cancel(r.Context(), id, req.Reason)
	})
}

// POST /super-admin/appointments/{id}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusInProgress, func(id string) error {
		return h.repo.SetStatus(r.Context(), id, StatusInProgress)
	})
}

// POST /super-admin/appointments/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
	}
	h.transition(w, r, StatusCompleted, func(id string) error {
		return h.repo.Complete(r.Context(), id, req.Notes, req.Diagnosis, req.Prescription)
	})
}

// POST /super-admin/appointments/{id}/no-show
func (h *Handler) NoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusNoShow, func(id string) error {
		return h.repo.SetStatus(r.Context(), id, StatusNoShow)
	})
}

// POST /super-admin/appointments/{id}/reschedule
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}
	at, _ := time.Parse(time.RFC3339, req.ScheduledAt)
	h.transition(w, r, StatusRescheduled, func(id string) error {
		return h.repo.Reschedule(r.Context(), id, at, req.Reason)
	})
}

// transition loads the appointment, checks the status graph, runs the write
// and returns the refreshed record.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, to string, write func(id string) error) {
	id := chi.URLParam(r, "id")

	ap, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("appointment load failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load appointment")
		return
	}
	if ap == nil {
		respond.NotFound(w, "appointment")
		return
	}
	if !CanTransition(ap.Status, to) {
		respond.Error(w, http.StatusConflict,
			fmt.Sprintf("cannot move appointment from %s to %s", ap.Status, to))
		return
	}

	if err := write(id); err != nil {
		if err == ErrNotFound {
			respond.NotFound(w, "appointment")
			return
		}
		h.logger.Error("appointment transition failed", "id", id, "to", to, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}

	h.invalidate(r)
	h.record(r, id, "status:"+to, "")
	updated, err := h.repo.Get(r.Context(), id)
	if err != nil || updated == nil {
		respond.JSON(w, http.StatusOK, map[string]string{"id": id, "status": to})
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *Handler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context(), Resource); err != nil {
		h.logger.Warn("appointment cache invalidation failed", "error", err)
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
