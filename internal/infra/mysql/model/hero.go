package model

// model
type Hero struct {
	Id            int64  `gorm:"column:id;type:bigint;comment:英雄Id;primaryKey;not null;" json:"id"`                             // 英雄Id
	PlayerId      int64  `gorm:"column:player_id;type:bigint;comment:所属玩家;not null;uniqueIndex;" json:"player_id"`              // 所属玩家
	VillageId     int64  `gorm:"column:village_id;type:bigint;comment:所在村庄;not null;" json:"village_id"`                        // 所在村庄
	Level         uint32 `gorm:"column:level;type:int UNSIGNED;comment:等级;not null;default:1;" json:"level"`                    // 等级
	Experience    uint64 `gorm:"column:experience;type:bigint UNSIGNED;comment:经验;not null;default:0;" json:"experience"`       // 经验
	Health        uint8  `gorm:"column:health;type:tinyint UNSIGNED;comment:生命值，0为阵亡;not null;default:100;" json:"health"`      // 生命值，0为阵亡
	AttackPoints  uint32 `gorm:"column:attack_points;type:int UNSIGNED;comment:攻击加点;not null;default:0;" json:"attack_points"`  // 攻击加点
	DefensePoints uint32 `gorm:"column:defense_points;type:int UNSIGNED;comment:防御加点;not null;default:0;" json:"defense_points"` // 防御加点
}

func (h *Hero) TableName() string {
	return "hero"
}
