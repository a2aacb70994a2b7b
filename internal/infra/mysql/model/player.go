package model

import "time"

// model
type Player struct {
	Id        int64     `gorm:"column:id;type:bigint;comment:玩家Id;primaryKey;not null;" json:"id"`              // 玩家Id
	Name      string    `gorm:"column:name;type:varchar(100);comment:玩家名;not null;" json:"name"`                // 玩家名
	Tribe     uint8     `gorm:"column:tribe;type:tinyint UNSIGNED;comment:部族;not null;default:0;" json:"tribe"` // 部族
	Gold      uint32    `gorm:"column:gold;type:int UNSIGNED;comment:金币;not null;default:0;" json:"gold"`       // 金币
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"created_at"`
}

func (p *Player) TableName() string {
	return "player"
}
