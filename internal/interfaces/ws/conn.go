// Package ws 维护玩家长连接，向在线玩家推送战报提醒。
// 客户端消息为 JSON 文本帧：{"name":"...","seq":N,"msg":{...}}。
package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"AgeOfTribes/modules/kit/logx"
)

const (
	HeartbeatMsg = "heartbeat"
	BindMsg      = "player.bind"
)

type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

type BindReq struct {
	PlayerID int64 `json:"player_id" mapstructure:"player_id"`
}

// Conn 一条玩家连接。绑定玩家之前不接收任何推送。
type Conn struct {
	conn    *websocket.Conn
	hub     *Hub
	outChan chan *RespBody

	mu       sync.RWMutex
	playerID int64

	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func newConn(wsConn *websocket.Conn, hub *Hub, l logx.Logger) *Conn {
	return &Conn{
		conn:    wsConn,
		hub:     hub,
		outChan: make(chan *RespBody, 256),
		done:    make(chan struct{}),
		log:     l,
	}
}

func (c *Conn) PlayerID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Conn) bind(playerID int64) {
	c.mu.Lock()
	c.playerID = playerID
	c.mu.Unlock()
	c.hub.register(playerID, c)
}

func (c *Conn) Addr() string {
	return c.conn.RemoteAddr().String()
}

// Push 非阻塞投递，队列满直接丢弃：战报提醒允许丢失，客户端可拉取兜底。
func (c *Conn) Push(name string, data any) {
	resp := &RespBody{Name: name, Msg: data}
	select {
	case c.outChan <- resp:
	default:
		c.log.Warn("ws push queue full, drop", zap.String("name", name), zap.Int64("player_id", c.PlayerID()))
	}
}

func (c *Conn) run() {
	go c.readMsgLoop()
	go c.writeMsgLoop()
}

func (c *Conn) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			e := fmt.Sprintf("%v", err)
			c.log.Error("ws readMsgLoop error", zap.String("err", e))
		}
		c.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			c.log.Error("ws read unmarshal json error", zap.Error(err))
			continue
		}

		// req 和 resp 的 Seq 必须一致
		resp := &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}
		switch reqBody.Name {
		case HeartbeatMsg:
			h := &Heartbeat{}
			mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixNano() / 1e6
			resp.Msg = h
		case BindMsg:
			b := &BindReq{}
			mapstructure.Decode(reqBody.Msg, b)
			if b.PlayerID <= 0 {
				resp.Code = 1
				break
			}
			c.bind(b.PlayerID)
			resp.Msg = b
		default:
			c.log.Info("ws unknown msg", zap.String("name", reqBody.Name))
			resp.Code = 1
		}

		select {
		case c.outChan <- resp:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) writeMsgLoop() {
	for {
		select {
		case msg, ok := <-c.outChan:
			if ok {
				c.write(msg)
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) write(msg *RespBody) {
	marshal, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("ws write marshal json error", zap.Error(err))
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, marshal); err != nil {
		c.log.Error("ws write error", zap.Error(err))
	}
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
		close(c.done)
		c.hub.unregister(c)
	})
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}
