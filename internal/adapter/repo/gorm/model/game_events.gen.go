package model

import "time"

const TableNameGameEvent = "game_events"

// GameEvent mapped from table <game_events>
type GameEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	SessionID  string    `gorm:"column:session_id;not null" json:"session_id"`
	Type       string    `gorm:"column:type;not null" json:"type"`
	Message    string    `gorm:"column:message;not null" json:"message"`
	Severity   string    `gorm:"column:severity;not null" json:"severity"`
	Wave       int32     `gorm:"column:wave;not null" json:"wave"`
	SimTimeMs  float64   `gorm:"column:sim_time_ms;not null" json:"sim_time_ms"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
	Payload    []byte    `gorm:"column:payload" json:"payload"`
}

// TableName GameEvent's table name
func (*GameEvent) TableName() string {
	return TableNameGameEvent
}
