package gormrepo

import (
	"context"
	"encoding/json"

	"forager/internal/adapter/repo/gorm/model"
	"forager/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, sessionID string, events []ports.GameEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.GameEvent, 0, len(events))
	for _, e := range events {
		var payload []byte
		if len(e.Payload) > 0 {
			payload, _ = json.Marshal(e.Payload)
		}
		rows = append(rows, model.GameEvent{
			SessionID:  sessionID,
			Type:       e.Type,
			Message:    e.Message,
			Severity:   e.Severity,
			Wave:       int32(e.Wave),
			SimTimeMs:  e.SimTimeMs,
			OccurredAt: e.OccurredAt,
			Payload:    payload,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// ListBySessionID returns the newest limit events in the order they were appended.
func (r EventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.GameEvent, error) {
	rows := []model.GameEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.GameEvent{SessionID: sessionID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.GameEvent, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, ports.GameEvent{
			Type:       row.Type,
			Message:    row.Message,
			Severity:   row.Severity,
			Wave:       int(row.Wave),
			SimTimeMs:  row.SimTimeMs,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
