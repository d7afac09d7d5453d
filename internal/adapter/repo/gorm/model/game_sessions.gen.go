package model

import "time"

const TableNameGameSession = "game_sessions"

// GameSession mapped from table <game_sessions>
type GameSession struct {
	SessionID string     `gorm:"column:session_id;primaryKey" json:"session_id"`
	PlayerID  string     `gorm:"column:player_id;not null" json:"player_id"`
	Status    string     `gorm:"column:status;not null" json:"status"`
	Cause     string     `gorm:"column:cause;not null" json:"cause"`
	Wave      int32      `gorm:"column:wave;not null" json:"wave"`
	Score     int32      `gorm:"column:score;not null" json:"score"`
	StartedAt time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	EndedAt   *time.Time `gorm:"column:ended_at" json:"ended_at"`
}

// TableName GameSession's table name
func (*GameSession) TableName() string {
	return TableNameGameSession
}
