package routes

import (
	"devconnect/controllers"
	"devconnect/middlewares"
	"devconnect/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps 路由依赖的服务对象
type Deps struct {
	Hub    *services.Hub
	Store  services.ConversationStore
	Users  services.UserDirectory
	Groups services.GroupDirectory
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(d Deps) *gin.Engine {

	r := gin.Default()
	// 配置跨域中间件
	corsConfig := cors.Config{
		AllowOrigins:     []string{"*"},                                       // 允许的域名，可以是前端地址
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}, // 允许的 HTTP 方法
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"}, // 允许的请求头
		AllowCredentials: true,                                                // 是否允许发送 cookies
	}

	// 使用 CORS 中间件
	r.Use(cors.New(corsConfig))
	r.GET("/ws", controllers.WSController(d.Hub))
	protected := r.Group("/api")

	// 注册路由

	protected.POST("/register", controllers.Register) // 绑定注册接口
	protected.POST("/login", controllers.Login)       // 绑定登录接口

	{
		protected.Use(middlewares.TokenAuthMiddleware())
		protected.GET("/userinfo", controllers.GetUserInfo)
		protected.GET("/conversation", controllers.GetConversations)
		protected.GET("/chat/:targetUserId", controllers.GetChatHistory(d.Store, d.Users))
		protected.GET("/group-chat/:groupId", controllers.GetGroupChatHistory(d.Store, d.Groups))
		protected.POST("/groups", controllers.CreateGroup)
		protected.GET("/groups", controllers.GetMyGroups)
		protected.POST("/groups/:groupId/members", controllers.AddGroupMember)
	}

	return r
}
