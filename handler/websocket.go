package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"kagai/middleware"
	"kagai/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 生产环境需要检查 Origin
		return true
	},
}

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = 45 * time.Second
	onlineStatusTTL = 90 * time.Second
)

// Client WebSocket 客户端
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub

	mu     sync.Mutex
	closed bool // Send channel 是否已关闭
}

// Hub WebSocket 连接管理中心。
// 只做服务端到客户端的事件推送，不处理客户端上行消息。
type Hub struct {
	// 在线用户 map[userID]map[clientID]*Client（支持多设备）
	Clients map[uuid.UUID]map[uuid.UUID]*Client
	mu      sync.RWMutex

	rdb *redis.Client
}

// NewHub 创建 Hub
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		Clients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		rdb:     rdb,
	}
}

// Register 注册客户端并标记在线状态
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	if h.Clients[client.UserID] == nil {
		h.Clients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.Clients[client.UserID][client.ID] = client
	h.mu.Unlock()

	if h.rdb != nil {
		ctx := context.Background()
		h.rdb.Set(ctx, utils.OnlineKey(client.UserID), "1", onlineStatusTTL)
	}
}

// Unregister 注销客户端；该用户最后一个连接断开时清除在线状态
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	lastConnection := false
	if clients, ok := h.Clients[client.UserID]; ok {
		delete(clients, client.ID)
		if len(clients) == 0 {
			delete(h.Clients, client.UserID)
			lastConnection = true
		}
	}
	h.mu.Unlock()

	client.mu.Lock()
	if !client.closed {
		client.closed = true
		close(client.Send)
	}
	client.mu.Unlock()

	if lastConnection && h.rdb != nil {
		ctx := context.Background()
		h.rdb.Del(ctx, utils.OnlineKey(client.UserID))
	}
}

// SendToUser 向用户的所有在线设备推送事件，返回是否投递到至少一个连接
func (h *Hub) SendToUser(userID uuid.UUID, event interface{}) bool {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WS] failed to marshal event: %v", err)
		return false
	}

	h.mu.RLock()
	clients := h.Clients[userID]
	targets := make([]*Client, 0, len(clients))
	for _, c := range clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := false
	for _, client := range targets {
		client.mu.Lock()
		if !client.closed {
			select {
			case client.Send <- data:
				delivered = true
			default:
				// 发送缓冲满，丢弃（推送是尽力而为）
			}
		}
		client.mu.Unlock()
	}
	return delivered
}

// IsUserOnline 判断用户是否在线（本实例连接或 Redis 标记）
func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	_, ok := h.Clients[userID]
	h.mu.RUnlock()
	if ok {
		return true
	}

	if h.rdb != nil {
		ctx := context.Background()
		if exists, err := h.rdb.Exists(ctx, utils.OnlineKey(userID)).Result(); err == nil {
			return exists > 0
		}
	}
	return false
}

// ForceOffline 强制下线（登出时调用）
func (h *Hub) ForceOffline(userID uuid.UUID) {
	h.mu.Lock()
	clients := h.Clients[userID]
	delete(h.Clients, userID)
	h.mu.Unlock()

	for _, client := range clients {
		client.mu.Lock()
		if !client.closed {
			client.closed = true
			close(client.Send)
		}
		client.mu.Unlock()
		client.Conn.Close()
	}

	if h.rdb != nil {
		ctx := context.Background()
		h.rdb.Del(ctx, utils.OnlineKey(userID))
	}
}

// HandleWebSocket WebSocket 连接入口，token 通过 query 参数认证
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		userID, err := middleware.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}

		client := &Client{
			ID:     uuid.New(),
			UserID: userID,
			Conn:   conn,
			Send:   make(chan []byte, 64),
			Hub:    hub,
		}

		hub.Register(client)

		go client.readPump()
		go client.writePump()
	}
}

// readPump 维持连接并刷新在线状态；上行消息全部丢弃
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(1024)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		if c.Hub.rdb != nil {
			ctx := context.Background()
			c.Hub.rdb.Set(ctx, utils.OnlineKey(c.UserID), "1", onlineStatusTTL)
		}
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump 向 WebSocket 写入事件
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
