package model

import "time"

// model
type Village struct {
	Id            int64     `gorm:"column:id;type:bigint;comment:村庄Id;primaryKey;not null;" json:"id"`                             // 村庄Id
	PlayerId      int64     `gorm:"column:player_id;type:bigint;comment:所属玩家;not null;index;" json:"player_id"`                    // 所属玩家
	Name          string    `gorm:"column:name;type:varchar(100);comment:村庄名;not null;" json:"name"`                               // 村庄名
	Tribe         uint8     `gorm:"column:tribe;type:tinyint UNSIGNED;comment:部族;not null;default:0;" json:"tribe"`                // 部族
	X             int32     `gorm:"column:x;type:int;comment:世界坐标X;not null;default:0;" json:"x"`                                  // 世界坐标X
	Y             int32     `gorm:"column:y;type:int;comment:世界坐标Y;not null;default:0;" json:"y"`                                  // 世界坐标Y
	Lumber        uint32    `gorm:"column:lumber;type:int UNSIGNED;comment:木材;not null;default:0;" json:"lumber"`                  // 木材
	Clay          uint32    `gorm:"column:clay;type:int UNSIGNED;comment:黏土;not null;default:0;" json:"clay"`                      // 黏土
	Iron          uint32    `gorm:"column:iron;type:int UNSIGNED;comment:铁;not null;default:0;" json:"iron"`                       // 铁
	Crop          uint32    `gorm:"column:crop;type:int UNSIGNED;comment:粮食;not null;default:0;" json:"crop"`                      // 粮食
	Buildings     string    `gorm:"column:buildings;type:json;comment:建筑槽位;" json:"buildings"`                                     // 建筑槽位
	Population    uint32    `gorm:"column:population;type:int UNSIGNED;comment:人口;not null;default:0;" json:"population"`          // 人口
	Loyalty       uint8     `gorm:"column:loyalty;type:tinyint UNSIGNED;comment:忠诚度;not null;default:100;" json:"loyalty"`         // 忠诚度
	Research      string    `gorm:"column:research;type:json;comment:学院研发标记;" json:"research"`                                     // 学院研发标记
	OasisBonus    string    `gorm:"column:oasis_bonus;type:json;comment:绿洲产量加成;" json:"oasis_bonus"`                               // 绿洲产量加成
	Merchants     uint8     `gorm:"column:merchants;type:tinyint UNSIGNED;comment:商人总数;not null;default:0;" json:"merchants"`      // 商人总数
	BusyMerchants uint8     `gorm:"column:busy_merchants;type:tinyint UNSIGNED;comment:在途商人;not null;default:0;" json:"busy_merchants"` // 在途商人
	StocksAt      time.Time `gorm:"column:stocks_at;type:timestamp(3);comment:上次资源结算时间;default:NULL;" json:"stocks_at"`            // 上次资源结算时间
}

func (v *Village) TableName() string {
	return "village"
}
