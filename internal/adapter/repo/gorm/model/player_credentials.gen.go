package model

import "time"

const TableNamePlayerCredential = "player_credentials"

// PlayerCredential mapped from table <player_credentials>
type PlayerCredential struct {
	PlayerID  string    `gorm:"column:player_id;primaryKey" json:"player_id"`
	KeySalt   []byte    `gorm:"column:key_salt;not null" json:"key_salt"`
	KeyHash   []byte    `gorm:"column:key_hash;not null" json:"key_hash"`
	Status    string    `gorm:"column:status;not null" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName PlayerCredential's table name
func (*PlayerCredential) TableName() string {
	return TableNamePlayerCredential
}
