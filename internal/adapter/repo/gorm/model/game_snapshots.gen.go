package model

import "time"

const TableNameGameSnapshot = "game_snapshots"

// GameSnapshot mapped from table <game_snapshots>
type GameSnapshot struct {
	SessionID string    `gorm:"column:session_id;primaryKey" json:"session_id"`
	PlayerID  string    `gorm:"column:player_id;not null" json:"player_id"`
	Wave      int32     `gorm:"column:wave;not null" json:"wave"`
	Score     int32     `gorm:"column:score;not null" json:"score"`
	Blob      []byte    `gorm:"column:blob;not null" json:"blob"`
	Version   int64     `gorm:"column:version;not null" json:"version"`
	SavedAt   time.Time `gorm:"column:saved_at;not null" json:"saved_at"`
}

// TableName GameSnapshot's table name
func (*GameSnapshot) TableName() string {
	return TableNameGameSnapshot
}
