package models

// Location 地点表（种子数据写入后不再修改）
type Location struct {
	LocationID   uint   `gorm:"column:location_id;primaryKey;autoIncrement" json:"location_id" yaml:"id"`
	LocationName string `gorm:"column:location_name;uniqueIndex;size:64;not null" json:"location_name" yaml:"name"`
	BossName     string `gorm:"column:boss_name;size:64;not null" json:"boss_name" yaml:"boss_name"`
	BossHP       int    `gorm:"column:boss_hp;not null" json:"boss_hp" yaml:"boss_hp"`
	BossDmg      int    `gorm:"column:boss_dmg;not null" json:"boss_dmg" yaml:"boss_dmg"`
	HPBonus      int    `gorm:"column:hp_bonus;not null;default:0" json:"hp_bonus" yaml:"hp_bonus"`
	DmgBonus     int    `gorm:"column:dmg_bonus;not null;default:0" json:"dmg_bonus" yaml:"dmg_bonus"`
}

// TableName 指定表名
func (Location) TableName() string {
	return "locations"
}
