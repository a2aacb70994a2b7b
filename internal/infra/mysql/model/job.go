package model

import "time"

// model
type Job struct {
	Id         int64     `gorm:"column:id;type:bigint;comment:任务Id;primaryKey;not null;" json:"id"`                                 // 任务Id
	PlayerId   int64     `gorm:"column:player_id;type:bigint;comment:发起玩家;not null;index;" json:"player_id"`                        // 发起玩家
	VillageId  int64     `gorm:"column:village_id;type:bigint;comment:关联村庄;not null;index;" json:"village_id"`                      // 关联村庄
	Type       string    `gorm:"column:type;type:varchar(32);comment:任务类型;not null;" json:"type"`                                   // 任务类型
	Payload    string    `gorm:"column:payload;type:json;comment:任务负载;" json:"payload"`                                             // 任务负载
	Status     string    `gorm:"column:status;type:varchar(16);comment:任务状态;not null;index:idx_claim;" json:"status"`               // 任务状态
	DueAt      time.Time `gorm:"column:due_at;type:timestamp(3);comment:到期时间;not null;index:idx_claim;" json:"due_at"`              // 到期时间
	ClaimedAt  time.Time `gorm:"column:claimed_at;type:timestamp(3);comment:认领时间;default:NULL;" json:"claimed_at"`                  // 认领时间
	Attempts   uint8     `gorm:"column:attempts;type:tinyint UNSIGNED;comment:已重试次数;not null;default:0;" json:"attempts"`           // 已重试次数
	FailReason string    `gorm:"column:fail_reason;type:varchar(500);comment:失败原因;" json:"fail_reason"`                             // 失败原因
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (j *Job) TableName() string {
	return "job"
}
