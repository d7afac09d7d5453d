package gormrepo

import (
	"context"
	"errors"
	"time"

	"forager/internal/adapter/repo/gorm/model"
	"forager/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

type GameSessionRepo struct {
	db *gorm.DB
}

func NewGameSessionRepo(db *gorm.DB) GameSessionRepo {
	return GameSessionRepo{db: db}
}

// EnsureActive creates the session row or reopens a closed one.
func (r GameSessionRepo) EnsureActive(ctx context.Context, sessionID, playerID string, startedAt time.Time) error {
	m := model.GameSession{
		SessionID: sessionID,
		PlayerID:  playerID,
		Status:    SessionStatusActive,
		StartedAt: startedAt,
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":   SessionStatusActive,
			"cause":    "",
			"ended_at": nil,
		}),
	}).Create(&m).Error
}

func (r GameSessionRepo) Close(ctx context.Context, sessionID, cause string, wave, score int, endedAt time.Time) error {
	updates := map[string]any{
		"status":   SessionStatusClosed,
		"cause":    cause,
		"wave":     int32(wave),
		"score":    int32(score),
		"ended_at": endedAt,
	}
	res := getDBFromCtx(ctx, r.db).
		Model(&model.GameSession{}).
		Where(&model.GameSession{SessionID: sessionID}).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r GameSessionRepo) Get(ctx context.Context, sessionID string) (ports.GameSessionRecord, error) {
	var m model.GameSession
	if err := getDBFromCtx(ctx, r.db).Where("session_id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.GameSessionRecord{}, ports.ErrNotFound
		}
		return ports.GameSessionRecord{}, err
	}
	return ports.GameSessionRecord{
		SessionID: m.SessionID,
		PlayerID:  m.PlayerID,
		Status:    m.Status,
		Cause:     m.Cause,
		Wave:      int(m.Wave),
		Score:     int(m.Score),
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
	}, nil
}
