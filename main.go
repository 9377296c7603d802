package main

import (
	"devconnect/config"
	"devconnect/models"
	"devconnect/routes"
	"devconnect/services"

	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置和日志
	config.Load()
	config.InitLogger()
	// 初始化数据库
	config.InitDB()
	// 自动迁移
	models.Migrate()

	log := logrus.StandardLogger()

	// 组装聊天核心
	users := services.NewUserDirectory(config.DB)
	groups := services.NewGroupDirectory(config.DB)
	store := services.NewConversationStore(config.DB)
	presence := services.NewPresenceRegistry(users, log)
	rooms := services.NewRoomRouter(groups, log)
	dispatcher := services.NewMessageDispatcher(store, users, groups, rooms, log)
	hub := services.NewHub(presence, rooms, dispatcher, log, config.PingInterval(), config.PongTimeout())

	// 注册路由
	r := routes.RegisterRoutes(routes.Deps{
		Hub:    hub,
		Store:  store,
		Users:  users,
		Groups: groups,
	})

	// 启动服务
	if err := r.Run(":" + config.ServerPort()); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
