package app

import (
	"context"
	"errors"
	"time"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/job"
)

// GameService 处理玩家命令：在自己的事务里加载最新状态、校验并入队。
// 不持有任何跨请求的内存状态，天然允许多实例并行。
type GameService struct {
	uow       UnitOfWorkProvider
	newID     IDFunc
	now       NowFunc
	log       Logger
	speed     int
	worldSize int
}

func NewGameService(uow UnitOfWorkProvider, newID IDFunc, now NowFunc, log Logger, speed, worldSize int) *GameService {
	if speed <= 0 {
		speed = 1
	}
	return &GameService{
		uow:       uow,
		newID:     newID,
		now:       now,
		log:       log,
		speed:     speed,
		worldSize: worldSize,
	}
}

// village 读取村庄并换算领域错误。
func (s *GameService) village(ctx context.Context, uow UnitOfWork, id int64) (*game.Village, error) {
	v, err := uow.Villages().Get(ctx, id)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, game.ErrVillageNotFound):
		return nil, ErrNotFound.WithData("village_id", id)
	default:
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonVillageReadFail)
	}
}

// ownVillage 读取并校验归属。
func (s *GameService) ownVillage(ctx context.Context, uow UnitOfWork, id, playerID int64) (*game.Village, error) {
	v, err := s.village(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if v.PlayerID != playerID {
		return nil, ErrForbidden.WithReason(ReasonVillageNotOwned).WithData("village_id", id)
	}
	return v, nil
}

// homeArmy 读取本村驻军，缺失视为兵力不足。
func (s *GameService) homeArmy(ctx context.Context, uow UnitOfWork, villageID int64) (*game.Army, error) {
	a, err := uow.Armies().HomeArmy(ctx, villageID)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, game.ErrArmyNotFound):
		return nil, ErrInsufficientTroops.WithData("village_id", villageID)
	default:
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonArmyReadFail)
	}
}

// saveOrDrop 驻军被抽空且无英雄时删除记录，否则保存。
func (s *GameService) saveOrDrop(ctx context.Context, uow UnitOfWork, a *game.Army) error {
	if a.IsEmpty() {
		if err := uow.Armies().Delete(ctx, a.ID); err != nil {
			return ErrUnavailable.WithCause(err)
		}
		return nil
	}
	if err := uow.Armies().Save(ctx, a); err != nil {
		return ErrUnavailable.WithCause(err)
	}
	return nil
}

// enqueue 构造任务并写入当前事务。
func (s *GameService) enqueue(ctx context.Context, uow UnitOfWork, playerID, villageID int64, t job.TaskType, payload any, due time.Time) (*job.Job, error) {
	raw, err := job.EncodePayload(payload)
	if err != nil {
		return nil, ErrInternalServer.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}
	jb := job.New(s.newID(), playerID, villageID, t, raw, due)
	if err := uow.Jobs().Add(ctx, jb); err != nil {
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonJobWriteFail)
	}
	return jb, nil
}

func (s *GameService) commit(uow UnitOfWork) error {
	if err := uow.Commit(); err != nil {
		return ErrUnavailable.WithCause(err).WithReason(ReasonUowCommitFail)
	}
	return nil
}

func (s *GameService) begin(ctx context.Context) (UnitOfWork, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonUowBeginFail)
	}
	return uow, nil
}

// travelSecs 兵力行军耗时。
func (s *GameService) travelSecs(from, to *game.Village, speed uint32) uint32 {
	return from.Position.TravelTimeSecs(to.Position, speed, s.worldSize, s.speed)
}
