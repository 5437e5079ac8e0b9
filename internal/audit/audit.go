// Package audit keeps an append-only trail of admin actions: every status
// transition, verification and delete lands here with the acting user.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/upcharify/admin-api/pkg/logging"
)

type db interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Entry is one recorded admin action.
type Entry struct {
	ID        string    `json:"id"`
	Resource  string    `json:"resource"`
	EntityID  string    `json:"entityId"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actorId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recorder writes audit entries. A nil Recorder is safe and records nothing,
// and a write failure never fails the admin action itself.
type Recorder struct {
	db     db
	logger *logging.Logger
}

func NewRecorder(db db, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{db: db, logger: logger}
}

// Record persists one entry, filling id and timestamp when absent.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.db == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_log (id, resource, entity_id, action, actor_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Resource, e.EntityID, e.Action, e.ActorID, e.Detail, e.CreatedAt)
	if err != nil {
		r.logger.Error("audit write failed",
			"resource", e.Resource,
			"entity_id", e.EntityID,
			"action", e.Action,
			"error", err,
		)
	}
}

// Latest returns the newest entries across all resources, for the dashboard
// activity feed.
func (r *Recorder) Latest(ctx context.Context, limit int) ([]Entry, error) {
	if r == nil || r.db == nil {
		return []Entry{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, resource, entity_id, action, actor_id, detail, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Resource, &e.EntityID, &e.Action, &e.ActorID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Recent returns the latest entries for an entity, newest first.
func (r *Recorder) Recent(ctx context.Context, resource, entityID string, limit int) ([]Entry, error) {
	if r == nil || r.db == nil {
		return []Entry{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, resource, entity_id, action, actor_id, detail, created_at
		FROM audit_log WHERE resource = $1 AND entity_id = $2
		ORDER BY created_at DESC LIMIT $3`, resource, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Resource, &e.EntityID, &e.Action, &e.ActorID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
