package model

// model
type Army struct {
	Id        int64  `gorm:"column:id;type:bigint;comment:军队Id;primaryKey;not null;" json:"id"`                // 军队Id
	PlayerId  int64  `gorm:"column:player_id;type:bigint;comment:所属玩家;not null;index;" json:"player_id"`       // 所属玩家
	Tribe     uint8  `gorm:"column:tribe;type:tinyint UNSIGNED;comment:部族;not null;default:0;" json:"tribe"`   // 部族
	VillageId int64  `gorm:"column:village_id;type:bigint;comment:老家村庄;not null;index;" json:"village_id"`     // 老家村庄
	Location  *int64 `gorm:"column:location;type:bigint;comment:驻防或目标村庄，NULL为在家;index;" json:"location"`       // 驻防或目标村庄，NULL为在家
	Transit   bool   `gorm:"column:transit;type:tinyint(1);comment:是否行军途中;not null;default:0;" json:"transit"` // 是否行军途中
	Units     string `gorm:"column:units;type:json;comment:各兵种数量;" json:"units"`                               // 各兵种数量
	Smithy    string `gorm:"column:smithy;type:json;comment:各兵种铁匠铺等级;" json:"smithy"`                          // 各兵种铁匠铺等级
	Hero      string `gorm:"column:hero;type:json;comment:随军英雄，空串为无;" json:"hero"`                             // 随军英雄，空串为无
}

func (a *Army) TableName() string {
	return "army"
}
