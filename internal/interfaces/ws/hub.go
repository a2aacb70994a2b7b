package ws

import (
	nethttp "net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"AgeOfTribes/modules/kit/logx"
)

const ReportNewMsg = "report.new"

type reportNotice struct {
	ReportID int64 `json:"report_id"`
}

// Hub 按玩家索引在线连接，实现 app.Notifier。
// 同一玩家允许多端在线，推送逐端投递。
type Hub struct {
	upgrader websocket.Upgrader
	log      logx.Logger

	mu    sync.RWMutex
	conns map[int64]map[*Conn]struct{}
}

func NewHub(l logx.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *nethttp.Request) bool { return true },
		},
		log:   l,
		conns: make(map[int64]map[*Conn]struct{}),
	}
}

// Serve 升级 HTTP 连接并启动读写循环。
func (h *Hub) Serve(c *gin.Context) {
	wsConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("ws upgrade error", zap.Error(err))
		return
	}
	conn := newConn(wsConn, h, h.log)
	h.log.Info("ws connected", zap.String("addr", conn.Addr()))
	conn.run()
}

// NotifyReport 实现 app.Notifier：离线玩家静默忽略。
func (h *Hub) NotifyReport(playerID, reportID int64) {
	h.mu.RLock()
	set := h.conns[playerID]
	targets := make([]*Conn, 0, len(set))
	for conn := range set {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		conn.Push(ReportNewMsg, reportNotice{ReportID: reportID})
	}
}

func (h *Hub) register(playerID int64, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[playerID]
	if !ok {
		set = make(map[*Conn]struct{})
		h.conns[playerID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Conn) {
	playerID := c.PlayerID()
	if playerID == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.conns[playerID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, playerID)
	}
}
