package models

import (
	"time"
)

// Player 玩家表，每个聊天用户最多一条记录
type Player struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	PlayerID          string    `gorm:"column:player_id;uniqueIndex;size:64;not null" json:"player_id"`
	CurrentHP         int       `gorm:"column:current_hp;not null" json:"current_hp"`
	MaxHP             int       `gorm:"column:max_hp;not null" json:"max_hp"`
	Damage            int       `gorm:"column:damage;not null" json:"damage"`
	CurrentLocationID *uint     `gorm:"column:current_location_id" json:"current_location_id,omitempty"` // 为空表示尚未进入任何地点
	PassedLocations   string    `gorm:"column:passed_locations;type:text;not null;default:''" json:"passed_locations"` // 逗号分隔的地点ID
	CurrentBossHP     int       `gorm:"column:current_boss_hp;not null;default:0" json:"current_boss_hp"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Player) TableName() string {
	return "players"
}
