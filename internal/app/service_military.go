package app

import (
	"context"
	"errors"
	"time"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/job"
)

// AttackVillage 受理进攻/掠夺：扣兵、铸新军、入队抵达任务。
func (s *GameService) AttackVillage(ctx context.Context, cmd AttackVillageCmd) (*Enqueued, error) {
	if cmd.Mode != game.ModeNormal && cmd.Mode != game.ModeRaid {
		return nil, ErrInvalidCommand.WithData("mode", cmd.Mode.String())
	}
	if len(cmd.CatapultSlots) > 2 {
		return nil, ErrInvalidCommand.WithReason(ReasonTooManyCataTargets)
	}
	return s.dispatch(ctx, dispatchReq{
		playerID:  cmd.PlayerID,
		fromID:    cmd.FromVillageID,
		targetID:  cmd.TargetVillageID,
		units:     cmd.Units,
		withHero:  cmd.WithHero,
		taskType:  job.TaskAttack,
		buildLoad: func(armyID int64) any {
			return job.AttackPayload{
				ArmyID:          armyID,
				TargetVillageID: cmd.TargetVillageID,
				Mode:            cmd.Mode,
				CatapultSlots:   cmd.CatapultSlots,
			}
		},
	})
}

// ScoutVillage 受理侦察：要求至少带一个侦察兵。
func (s *GameService) ScoutVillage(ctx context.Context, cmd ScoutVillageCmd) (*Enqueued, error) {
	return s.dispatch(ctx, dispatchReq{
		playerID: cmd.PlayerID,
		fromID:   cmd.FromVillageID,
		targetID: cmd.TargetVillageID,
		units:    cmd.Units,
		taskType: job.TaskScout,
		inspect: func(depart *game.Army) error {
			if depart.ScoutCount() == 0 {
				return ErrInvalidCommand.WithReason(ReasonNoScoutsSelected)
			}
			return nil
		},
		buildLoad: func(armyID int64) any {
			return job.ScoutPayload{ArmyID: armyID, TargetVillageID: cmd.TargetVillageID}
		},
	})
}

// ReinforceVillage 受理援军驻防。
func (s *GameService) ReinforceVillage(ctx context.Context, cmd ReinforceVillageCmd) (*Enqueued, error) {
	return s.dispatch(ctx, dispatchReq{
		playerID: cmd.PlayerID,
		fromID:   cmd.FromVillageID,
		targetID: cmd.TargetVillageID,
		units:    cmd.Units,
		withHero: cmd.WithHero,
		taskType: job.TaskReinforcement,
		buildLoad: func(armyID int64) any {
			return job.ReinforcementPayload{ArmyID: armyID, TargetVillageID: cmd.TargetVillageID}
		},
	})
}

// dispatchReq 三类出征共享的装配参数。
type dispatchReq struct {
	playerID  int64
	fromID    int64
	targetID  int64
	units     game.TroopSet
	withHero  bool
	taskType  job.TaskType
	inspect   func(depart *game.Army) error
	buildLoad func(armyID int64) any
}

func (s *GameService) dispatch(ctx context.Context, req dispatchReq) (*Enqueued, error) {
	if req.units.IsZero() {
		return nil, ErrInvalidCommand.WithCause(game.ErrNoUnitsSelected)
	}
	if req.fromID == req.targetID {
		return nil, ErrInvalidCommand.WithReason(ReasonTargetIsSelf)
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	from, err := s.ownVillage(ctx, uow, req.fromID, req.playerID)
	if err != nil {
		return nil, err
	}
	target, err := s.village(ctx, uow, req.targetID)
	if err != nil {
		return nil, err
	}
	home, err := s.homeArmy(ctx, uow, from.ID)
	if err != nil {
		return nil, err
	}

	depart, err := home.Deploy(s.newID(), req.units, req.withHero)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrInsufficientTroops):
		return nil, ErrInsufficientTroops.WithData("village_id", from.ID)
	default:
		return nil, ErrInvalidCommand.WithCause(err)
	}
	if req.inspect != nil {
		if err := req.inspect(depart); err != nil {
			return nil, err
		}
	}
	depart.MoveTo(target.ID)

	if err := s.saveOrDrop(ctx, uow, home); err != nil {
		return nil, err
	}
	if err := uow.Armies().Save(ctx, depart); err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}

	secs := s.travelSecs(from, target, depart.Speed())
	due := s.now().Add(time.Duration(secs) * time.Second)
	jb, err := s.enqueue(ctx, uow, req.playerID, target.ID, req.taskType, req.buildLoad(depart.ID), due)
	if err != nil {
		return nil, err
	}
	if err := s.commit(uow); err != nil {
		return nil, err
	}
	return &Enqueued{JobID: jb.ID, ResolveAt: due}, nil
}

// RecallTroops 军队所有者撤回驻外兵力。
func (s *GameService) RecallTroops(ctx context.Context, cmd RecallTroopsCmd) (*Enqueued, error) {
	return s.withdraw(ctx, cmd.ArmyID, cmd.Units, func(a *game.Army, v *game.Village) error {
		if a.PlayerID != cmd.PlayerID {
			return ErrForbidden.WithReason(ReasonArmyNotOwned).WithData("army_id", a.ID)
		}
		return nil
	})
}

// ReleaseReinforcements 村庄所有者遣返驻防援军。
func (s *GameService) ReleaseReinforcements(ctx context.Context, cmd ReleaseReinforcementsCmd) (*Enqueued, error) {
	return s.withdraw(ctx, cmd.ArmyID, cmd.Units, func(a *game.Army, v *game.Village) error {
		if v.ID != cmd.VillageID {
			return ErrInvalidCommand.WithReason(ReasonArmyNotGarrisoned).WithData("army_id", a.ID)
		}
		if v.PlayerID != cmd.PlayerID {
			return ErrForbidden.WithReason(ReasonVillageNotOwned).WithData("village_id", v.ID)
		}
		return nil
	})
}

// withdraw 撤回/遣返共用路径：全量则原记录回家，部分则拆分新记录。
func (s *GameService) withdraw(ctx context.Context, armyID int64, subset game.TroopSet, authorize func(*game.Army, *game.Village) error) (*Enqueued, error) {
	if subset.IsZero() {
		return nil, ErrInvalidCommand.WithCause(game.ErrNoUnitsSelected)
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	army, err := uow.Armies().Get(ctx, armyID)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrArmyNotFound):
		return nil, ErrNotFound.WithData("army_id", armyID)
	default:
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonArmyReadFail)
	}
	if army.State() != game.ArmyReinforcing {
		return nil, ErrInvalidCommand.WithReason(ReasonArmyNotGarrisoned).WithData("army_id", armyID)
	}
	host, err := s.village(ctx, uow, *army.Location)
	if err != nil {
		return nil, err
	}
	if err := authorize(army, host); err != nil {
		return nil, err
	}
	if !army.Units.Covers(subset) {
		return nil, ErrInsufficientTroops.WithData("army_id", armyID)
	}

	home, err := s.village(ctx, uow, army.VillageID)
	if err != nil {
		return nil, err
	}

	// 全量撤回：位置清空、同一记录回家，不铸新 id
	returning := army
	if subset != army.Units {
		returning, err = army.Split(s.newID(), subset)
		if err != nil {
			return nil, ErrInvalidCommand.WithCause(err)
		}
		if err := uow.Armies().Save(ctx, army); err != nil {
			return nil, ErrUnavailable.WithCause(err)
		}
	}
	returning.GoHome()
	if err := uow.Armies().Save(ctx, returning); err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}

	secs := s.travelSecs(host, home, returning.Speed())
	due := s.now().Add(time.Duration(secs) * time.Second)
	jb, err := s.enqueue(ctx, uow, returning.PlayerID, returning.VillageID, job.TaskArmyReturn,
		job.ArmyReturnPayload{ArmyID: returning.ID}, due)
	if err != nil {
		return nil, err
	}
	if err := s.commit(uow); err != nil {
		return nil, err
	}
	return &Enqueued{JobID: jb.ID, ResolveAt: due}, nil
}
