package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/upcharify/admin-api/internal/api/respond"
	"github.com/upcharify/admin-api/internal/audit"
	"github.com/upcharify/admin-api/internal/observability/metrics"
	"github.com/upcharify/admin-api/internal/querycache"
	"github.com/upcharify/admin-api/pkg/logging"
)

// Handler serves the /super-admin/dashboard endpoints.
type Handler struct {
	repo    *Repository
	cache   *querycache.Store
	audit   *audit.Recorder
	metrics *metrics.APIMetrics
	logger  *logging.Logger
	now     func() time.Time
}

type HandlerConfig struct {
	Repo    *Repository
	Cache   *querycache.Store
	Audit   *audit.Recorder
	Metrics *metrics.APIMetrics
	Logger  *logging.Logger

	// Now is overridable for tests.
	Now func() time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		repo:    cfg.Repo,
		cache:   cfg.Cache,
		audit:   cfg.Audit,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
}

// Routes mounts the dashboard tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.Stats)
	r.Get("/activity", h.Activity)
	return r
}

// GET /super-admin/dashboard/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	const key = "stats"

	if h.cache != nil {
		var cached Stats
		hit, err := h.cache.Get(r.Context(), Resource, key, &cached)
		if err != nil {
			h.logger.Warn("dashboard cache read failed", "error", err)
		}
		h.metrics.ObserveCacheLookup(Resource, hit)
		if hit {
			respond.JSON(w, http.StatusOK, cached)
			return
		}
	}

	stats, err := h.repo.Stats(r.Context(), h.now())
	if err != nil {
		h.logger.Error("dashboard stats failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to compute dashboard stats")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), Resource, key, stats); err != nil {
			h.logger.Warn("dashboard cache write failed", "error", err)
		}
	}
	respond.JSON(w, http.StatusOK, stats)
}

// GET /super-admin/dashboard/activity
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.audit.Latest(r.Context(), limit)
	if err != nil {
		h.logger.Error("dashboard activity failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load recent activity")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"activity": entries})
}
