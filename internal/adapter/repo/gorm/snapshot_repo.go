package gormrepo

import (
	"context"
	"errors"

	"forager/internal/adapter/repo/gorm/model"
	"forager/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepo {
	return SnapshotRepo{db: db}
}

func (r SnapshotRepo) GetBySessionID(ctx context.Context, sessionID string) (ports.SnapshotRecord, error) {
	var m model.GameSnapshot
	if err := getDBFromCtx(ctx, r.db).Where("session_id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SnapshotRecord{}, ports.ErrNotFound
		}
		return ports.SnapshotRecord{}, err
	}
	return toSnapshotRecord(m), nil
}

func (r SnapshotRepo) SaveWithVersion(ctx context.Context, rec ports.SnapshotRecord, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		m := model.GameSnapshot{
			SessionID: rec.SessionID,
			PlayerID:  rec.PlayerID,
			Wave:      int32(rec.Wave),
			Score:     int32(rec.Score),
			Blob:      rec.Blob,
			Version:   rec.Version,
			SavedAt:   rec.SavedAt,
		}
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"wave":     int32(rec.Wave),
		"score":    int32(rec.Score),
		"blob":     rec.Blob,
		"version":  rec.Version,
		"saved_at": rec.SavedAt,
	}
	res := db.Model(&model.GameSnapshot{}).
		Where("session_id = ? AND version = ?", rec.SessionID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r SnapshotRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]ports.SnapshotRecord, error) {
	rows := []model.GameSnapshot{}
	query := getDBFromCtx(ctx, r.db).
		Omit("blob").
		Where(&model.GameSnapshot{PlayerID: playerID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "saved_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.SnapshotRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toSnapshotRecord(m))
	}
	return out, nil
}

func toSnapshotRecord(m model.GameSnapshot) ports.SnapshotRecord {
	return ports.SnapshotRecord{
		SessionID: m.SessionID,
		PlayerID:  m.PlayerID,
		Wave:      int(m.Wave),
		Score:     int(m.Score),
		Blob:      m.Blob,
		Version:   m.Version,
		SavedAt:   m.SavedAt,
	}
}
