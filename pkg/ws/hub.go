package ws

import (
	"encoding/json"
	"sync"
	"time"

	"MCPCatalog/pkg/zlog"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub 管理订阅运行事件的 WebSocket 连接，消息广播给全部订阅者
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast 非阻塞投递，发送队列已满的连接直接断开；返回投递成功的连接数
func (h *Hub) Broadcast(payload []byte) int {
	if len(payload) == 0 {
		return 0
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if c.trySend(payload) {
			sent++
			continue
		}
		zlog.Warn("ws client too slow, dropped", zap.String("subject", c.subject))
		h.Unregister(c)
	}
	return sent
}

func (h *Hub) BroadcastJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(b)
	return nil
}

type Client struct {
	subject string
	conn    *websocket.Conn
	send    chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(subject string, conn *websocket.Conn) *Client {
	return &Client{
		subject: subject,
		conn:    conn,
		send:    make(chan []byte, 64),
	}
}

func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 50 * time.Second
)

// WritePump 串行写出发送队列并定时 ping，读端的 60s 超时依赖它续期
func (c *Client) WritePump() {
	if c.conn == nil {
		return
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zlog.Warn("ws write failed", zap.String("subject", c.subject), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
