// Package app 汇集命令处理与延时任务解析：加载最新状态、校验、
// 结算、入队，全部变更只经由工作单元提交。
package app

import (
	"context"
	"time"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/job"
	"AgeOfTribes/modules/kit/logx"
)

type PlayerRepo interface {
	Get(ctx context.Context, id int64) (*game.Player, error)
}

type VillageRepo interface {
	Get(ctx context.Context, id int64) (*game.Village, error)
	Save(ctx context.Context, v *game.Village) error
}

// ArmyRepo 军队记录。Garrison 只返回已抵达的军队（含本村驻军），
// 行军途中的记录不计入任何村庄的防御。
type ArmyRepo interface {
	Get(ctx context.Context, id int64) (*game.Army, error)
	HomeArmy(ctx context.Context, villageID int64) (*game.Army, error)
	Garrison(ctx context.Context, villageID int64) ([]*game.Army, error)
	Save(ctx context.Context, a *game.Army) error
	Delete(ctx context.Context, id int64) error
}

type HeroRepo interface {
	GetByPlayer(ctx context.Context, playerID int64) (*game.Hero, error)
	Save(ctx context.Context, h *game.Hero) error
}

// JobRepo 延时任务。ClaimDue 把到期的 Pending 原子置为 Processing，
// 并发调用互不重复交付；租约超时的 Processing 行视同到期重新交付，
// 兜底认领后崩溃的工人。
type JobRepo interface {
	Get(ctx context.Context, id int64) (*job.Job, error)
	Add(ctx context.Context, j *job.Job) error
	Save(ctx context.Context, j *job.Job) error
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*job.Job, error)
	ListByVillage(ctx context.Context, villageID int64, types ...job.TaskType) ([]*job.Job, error)
}

// UnitOfWork 一次事务边界内的仓库集合。Commit 之后 Rollback 应为空操作。
type UnitOfWork interface {
	Players() PlayerRepo
	Villages() VillageRepo
	Armies() ArmyRepo
	Heroes() HeroRepo
	Jobs() JobRepo
	Commit() error
	Rollback() error
}

type UnitOfWorkProvider interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// NowFunc 显式时钟，到期判定与资源累积都从这里取时间。
type NowFunc func() time.Time

// IDFunc 新实体标识生成器（雪花）。
type IDFunc func() int64

// ReportSink 战报落库，不在 SQL 事务内。
type ReportSink interface {
	SaveBattleReport(ctx context.Context, r *BattleReport) error
}

// Notifier 向在线玩家推送战报提醒，离线玩家静默忽略。
type Notifier interface {
	NotifyReport(playerID int64, reportID int64)
}

type Logger = logx.Logger
