// Package job 定义延时任务模型：到期时间、一次性认领与重试语义。
// 任务行是世界推进的唯一载体，战斗、行军、建造都由它驱动。
package job

import (
	"encoding/json"
	"time"
)

// TaskType 是闭集：解析器按类型分发，未知类型直接判失败。
type TaskType string

const (
	TaskAttack           TaskType = "attack"
	TaskScout            TaskType = "scout"
	TaskReinforcement    TaskType = "reinforcement"
	TaskArmyReturn       TaskType = "army_return"
	TaskTrainUnits       TaskType = "train_units"
	TaskBuildingUpgrade  TaskType = "building_upgrade"
	TaskMerchantDelivery TaskType = "merchant_delivery"
	TaskMerchantReturn   TaskType = "merchant_return"
)

// Valid 判定类型是否在闭集内。
func (t TaskType) Valid() bool {
	switch t {
	case TaskAttack, TaskScout, TaskReinforcement, TaskArmyReturn,
		TaskTrainUnits, TaskBuildingUpgrade, TaskMerchantDelivery, TaskMerchantReturn:
		return true
	}
	return false
}

// Status 任务状态机：Pending → Processing → Completed/Failed，
// 基础设施失败允许 Processing → Pending 重新入队。
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job 一条延时任务。Payload 为类型对应的 JSON 负载。
type Job struct {
	ID         int64           `json:"id"`
	PlayerID   int64           `json:"player_id"`
	VillageID  int64           `json:"village_id"`
	Type       TaskType        `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Status     Status          `json:"status"`
	DueAt      time.Time       `json:"due_at"`
	ClaimedAt  time.Time       `json:"claimed_at,omitempty"`
	Attempts   uint8           `json:"attempts"`
	FailReason string          `json:"fail_reason,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// New 创建一条待执行任务，id 由调用方的雪花生成器提供。
func New(id, playerID, villageID int64, t TaskType, payload json.RawMessage, due time.Time) *Job {
	return &Job{
		ID:        id,
		PlayerID:  playerID,
		VillageID: villageID,
		Type:      t,
		Payload:   payload,
		Status:    StatusPending,
		DueAt:     due,
	}
}

// Due 任务是否到期。到期判定只依赖显式传入的时钟。
func (j *Job) Due(now time.Time) bool {
	return !j.DueAt.After(now)
}

// Claim 转入 Processing 并记录认领时刻。
func (j *Job) Claim(now time.Time) {
	j.Status = StatusProcessing
	j.ClaimedAt = now
}

// ClaimExpired 处理中的任务租约是否已超时。认领后进程崩溃的任务
// 靠租约到期重新交付，结算本身在事务内，重复交付是安全的。
func (j *Job) ClaimExpired(now time.Time, lease time.Duration) bool {
	return j.Status == StatusProcessing && !j.ClaimedAt.After(now.Add(-lease))
}

// MarkCompleted 从 Processing 进入终态。
func (j *Job) MarkCompleted() {
	j.Status = StatusCompleted
	j.FailReason = ""
}

// MarkFailed 记录失败原因并进入终态。
func (j *Job) MarkFailed(reason string) {
	j.Status = StatusFailed
	j.FailReason = reason
}

// Rearm 基础设施失败后重新入队：次数加一、顺延到期时间。
// 超过上限时转为终态失败，返回 false。
func (j *Job) Rearm(backoff time.Duration, maxAttempts uint8, reason string) bool {
	j.Attempts++
	if j.Attempts >= maxAttempts {
		j.MarkFailed(reason)
		return false
	}
	j.Status = StatusPending
	j.DueAt = j.DueAt.Add(backoff)
	j.FailReason = reason
	return true
}
