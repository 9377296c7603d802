package models

import (
	"devconnect/config"

	"github.com/sirupsen/logrus"
)

// Migrate 自动迁移所有表结构
func Migrate() {
	err := config.DB.AutoMigrate(
		&User{},
		&Group{},
		&GroupMember{},
		&Conversation{},
		&Message{},
	)
	if err != nil {
		logrus.Fatalf("Database migration failed: %v", err)
	}
}
