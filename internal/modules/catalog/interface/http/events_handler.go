package http

import (
	"net/http"
	"time"

	"MCPCatalog/pkg/util/myjwt"
	"MCPCatalog/pkg/ws"
	"MCPCatalog/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type EventsHandler struct {
	hub *ws.Hub
}

func NewEventsHandler(hub *ws.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connect GET /admin/events?token=...
// 浏览器 WebSocket 不能带自定义 Header，令牌走 query，这里手动校验
func (h *EventsHandler) Connect(c *gin.Context) {
	claims, err := myjwt.ParseToken(c.Query("token"))
	if err != nil || claims.Role != myjwt.RoleAdmin {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(claims.Subject, conn)
	h.hub.Register(client)
	defer h.hub.Unregister(client)
	zlog.Info("events subscriber connected", zap.String("subject", claims.Subject))

	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go client.WritePump()

	// 只推不收，读循环用于感知断开
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
