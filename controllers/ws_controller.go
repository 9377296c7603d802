package controllers

import (
	"net/http"

	"devconnect/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSController 升级连接并启动读写循环
func WSController(hub *services.Hub) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("Websocket upgrade failed")
			return
		}

		client := services.NewClient(conn)
		hub.Register(client)

		go client.WritePump()
		go client.StartHeartbeat(hub)
		go client.ReadPump(hub)
	}
}
