package game

import "time"

// Player 玩家档案。认证在外部网关完成，这里只保留世界内身份。
type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tribe     Tribe     `json:"tribe"`
	Gold      uint32    `json:"gold"`
	CreatedAt time.Time `json:"created_at"`
}
