package repository

import (
	"fmt"
	"sync/atomic"

	"github.com/wfunc/dungeon-bot/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// SetupTestDB 创建迁移好的内存数据库，供各包测试使用
func SetupTestDB() *gorm.DB {
	// 每个测试使用独立的共享缓存内存库，连接池内的连接看到同一份数据
	name := fmt.Sprintf("file:dungeon_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Location{}, &models.Player{}); err != nil {
		panic(err)
	}

	return db
}

// TestLocations 测试用地点数据
func TestLocations() []*models.Location {
	return []*models.Location{
		{LocationName: "森林", BossName: "灰狼王", BossHP: 40, BossDmg: 8, HPBonus: 20, DmgBonus: 5},
		{LocationName: "沼泽", BossName: "泥沼巨蛙", BossHP: 60, BossDmg: 12, HPBonus: 25, DmgBonus: 5},
		{LocationName: "洞穴", BossName: "独眼巨人", BossHP: 90, BossDmg: 16, HPBonus: 30, DmgBonus: 10},
	}
}

// SetupSeededTestDB 创建已写入测试地点的内存数据库
func SetupSeededTestDB() *gorm.DB {
	db := SetupTestDB()
	if err := db.Create(TestLocations()).Error; err != nil {
		panic(err)
	}
	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}
