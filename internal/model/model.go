package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名迁移表结构，空 key 迁移全部
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "Entry":
		return db.AutoMigrate(&Entry{})
	case "":
		return db.AutoMigrate(&Entry{})
	}
	return nil
}
