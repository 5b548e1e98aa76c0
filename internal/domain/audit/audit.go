package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nomina/internal/requestctx"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record writes an audit event. Fire-and-forget: a failed write is
// logged and never propagated into the operation being audited.
func (s *Service) Record(ctx context.Context, action, entityType, entityID, actorID string, metadata any) {
	var metadataJSON []byte
	if metadata != nil {
		payload, err := json.Marshal(metadata)
		if err != nil {
			slog.Warn("audit metadata marshal failed", "action", action, "err", err)
		} else {
			metadataJSON = payload
		}
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, action, entity_type, entity_id, request_id, metadata)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, nullIfEmpty(actorID), action, entityType, entityID, requestctx.GetRequestID(ctx), metadataJSON)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}

func (s *Service) List(ctx context.Context, entityType string, limit, offset int) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(actor_id::text, ''), action, entity_type, entity_id, COALESCE(request_id, ''), metadata, created_at
    FROM audit_events
    WHERE ($1 = '' OR entity_type = $1)
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, entityType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.Metadata, &evt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
