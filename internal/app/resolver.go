package app

import (
	"context"
	"errors"
	"time"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/job"

	"go.uber.org/zap"
)

// Resolver 在工人认领任务后执行结算：每条任务一个独立事务，
// 提交成功后再写战报、发推送。
type Resolver struct {
	uow       UnitOfWorkProvider
	newID     IDFunc
	log       Logger
	reports   ReportSink
	notify    Notifier
	speed     int
	worldSize int
}

func NewResolver(uow UnitOfWorkProvider, newID IDFunc, log Logger, reports ReportSink, notify Notifier, speed, worldSize int) *Resolver {
	if speed <= 0 {
		speed = 1
	}
	return &Resolver{
		uow:       uow,
		newID:     newID,
		log:       log,
		reports:   reports,
		notify:    notify,
		speed:     speed,
		worldSize: worldSize,
	}
}

// Resolve 按类型分发并在同一事务里把任务置为完成。
// 返回业务类错误表示任务应判终态失败，系统类错误交由工人重试。
func (r *Resolver) Resolve(ctx context.Context, t *job.Job, now time.Time) error {
	uow, err := r.uow.Begin(ctx)
	if err != nil {
		return ErrUnavailable.WithCause(err).WithReason(ReasonUowBeginFail)
	}
	defer uow.Rollback()

	var after func()
	switch t.Type {
	case job.TaskAttack:
		after, err = r.resolveAttack(ctx, uow, t, now)
	case job.TaskScout:
		after, err = r.resolveScout(ctx, uow, t, now)
	case job.TaskReinforcement:
		err = r.resolveReinforcement(ctx, uow, t)
	case job.TaskArmyReturn:
		err = r.resolveArmyReturn(ctx, uow, t, now)
	case job.TaskTrainUnits:
		err = r.resolveTrainUnits(ctx, uow, t)
	case job.TaskBuildingUpgrade:
		err = r.resolveBuildingUpgrade(ctx, uow, t)
	case job.TaskMerchantDelivery:
		err = r.resolveMerchantDelivery(ctx, uow, t, now)
	case job.TaskMerchantReturn:
		err = r.resolveMerchantReturn(ctx, uow, t)
	default:
		err = ErrInvalidCommand.WithData("type", string(t.Type))
	}
	if err != nil {
		return err
	}

	t.MarkCompleted()
	if err := uow.Jobs().Save(ctx, t); err != nil {
		return ErrUnavailable.WithCause(err).WithReason(ReasonJobWriteFail)
	}
	if err := uow.Commit(); err != nil {
		return ErrUnavailable.WithCause(err).WithReason(ReasonUowCommitFail)
	}
	if after != nil {
		after()
	}
	return nil
}

// 结算期取数失败的归类：记录缺失是业务终态，其余是系统错误。
func (r *Resolver) army(ctx context.Context, uow UnitOfWork, id int64) (*game.Army, error) {
	a, err := uow.Armies().Get(ctx, id)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, game.ErrArmyNotFound):
		return nil, ErrNotFound.WithData("army_id", id)
	default:
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonArmyReadFail)
	}
}

func (r *Resolver) villageAt(ctx context.Context, uow UnitOfWork, id int64, now time.Time) (*game.Village, error) {
	v, err := uow.Villages().Get(ctx, id)
	switch {
	case err == nil:
		v.Tick(now, r.speed)
		return v, nil
	case errors.Is(err, game.ErrVillageNotFound):
		return nil, ErrNotFound.WithData("village_id", id)
	default:
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonVillageReadFail)
	}
}

func (r *Resolver) resolveAttack(ctx context.Context, uow UnitOfWork, t *job.Job, now time.Time) (func(), error) {
	var p job.AttackPayload
	if err := t.DecodePayload(&p); err != nil {
		return nil, ErrInvalidCommand.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}

	army, err := r.army(ctx, uow, p.ArmyID)
	if err != nil {
		return nil, err
	}
	target, err := r.villageAt(ctx, uow, p.TargetVillageID, now)
	if err != nil {
		return nil, err
	}
	origin, err := r.villageAt(ctx, uow, army.VillageID, now)
	if err != nil {
		return nil, err
	}
	garrison, err := uow.Armies().Garrison(ctx, target.ID)
	if err != nil {
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonArmyReadFail)
	}

	input := game.BattleInput{
		Mode:           p.Mode,
		Attacker:       army,
		AttackerPop:    army.Upkeep(), // 士气比较用军队自身人口，不是出发村人口
		Defenders:      garrison,
		DefenderPop:    target.Population,
		DefenderTribe:  target.Tribe,
		WallLevel:      target.WallLevel(),
		ResidenceLevel: target.ResidenceLevel(),
		Unprotected:    target.UnprotectedStocks(),
	}
	for _, slot := range p.CatapultSlots {
		if b, ok := target.BuildingAt(slot); ok {
			input.CatapultTargets = append(input.CatapultTargets, game.SiegeTarget{Slot: b.Slot, Level: b.Level})
		}
	}

	res, err := game.ResolveBattle(input)
	if err != nil {
		return nil, ErrInvalidCommand.WithCause(err)
	}

	// 守方逐支结算，打空的记录删除
	enemyLosses := uint64(res.Attacker.Losses.Total())
	for i, d := range garrison {
		d.ApplyBattleOutcome(res.Defenders[i].Survivors, res.DefenderLossRatio, enemyLosses)
		hero := d.Hero
		dropDeadHero(d)
		if err := r.saveHero(ctx, uow, hero); err != nil {
			return nil, err
		}
		if err := r.saveOrDrop(ctx, uow, d); err != nil {
			return nil, err
		}
	}

	// 城防破坏与掠夺
	if res.WallDamage != nil {
		if err := target.SetBuildingLevel(res.WallDamage.Slot, res.WallDamage.After); err != nil && !errors.Is(err, game.ErrSlotEmpty) {
			return nil, ErrInternalServer.WithCause(err)
		}
	}
	for _, cd := range res.CatapultDamage {
		if err := target.SetBuildingLevel(cd.Slot, cd.After); err != nil && !errors.Is(err, game.ErrSlotEmpty) {
			return nil, ErrInternalServer.WithCause(err)
		}
	}
	if !res.Bounty.IsZero() {
		target.RemoveBounty(res.Bounty)
	}
	if err := uow.Villages().Save(ctx, target); err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}

	// 攻方结算并安排回程
	army.ApplyBattleOutcome(res.Attacker.Survivors, res.AttackerLossRatio, uint64(res.DefenderLossesTotal()))
	attackerHero := army.Hero
	dropDeadHero(army)
	if err := r.saveHero(ctx, uow, attackerHero); err != nil {
		return nil, err
	}
	if army.IsEmpty() {
		if err := uow.Armies().Delete(ctx, army.ID); err != nil {
			return nil, ErrUnavailable.WithCause(err)
		}
	} else {
		army.GoHome()
		if err := uow.Armies().Save(ctx, army); err != nil {
			return nil, ErrUnavailable.WithCause(err)
		}
		secs := target.Position.TravelTimeSecs(origin.Position, army.Speed(), r.worldSize, r.speed)
		due := now.Add(time.Duration(secs) * time.Second)
		if _, err := r.enqueue(ctx, uow, army.PlayerID, army.VillageID, job.TaskArmyReturn,
			job.ArmyReturnPayload{ArmyID: army.ID, Bounty: res.Bounty}, due); err != nil {
			return nil, err
		}
	}

	report := &BattleReport{
		ID:               r.newID(),
		Mode:             res.Mode.String(),
		AttackerPlayerID: army.PlayerID,
		AttackerName:     r.playerName(ctx, uow, army.PlayerID),
		DefenderPlayerID: target.PlayerID,
		DefenderName:     r.playerName(ctx, uow, target.PlayerID),
		TargetVillageID:  target.ID,
		Result:           res,
		Audiences:        []int64{army.PlayerID, target.PlayerID},
		CreatedAt:        now,
	}
	return func() { r.publish(ctx, report) }, nil
}

func (r *Resolver) resolveScout(ctx context.Context, uow UnitOfWork, t *job.Job, now time.Time) (func(), error) {
	var p job.ScoutPayload
	if err := t.DecodePayload(&p); err != nil {
		return nil, ErrInvalidCommand.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}

	army, err := r.army(ctx, uow, p.ArmyID)
	if err != nil {
		return nil, err
	}
	target, err := r.villageAt(ctx, uow, p.TargetVillageID, now)
	if err != nil {
		return nil, err
	}
	origin, err := r.villageAt(ctx, uow, army.VillageID, now)
	if err != nil {
		return nil, err
	}
	garrison, err := uow.Armies().Garrison(ctx, target.ID)
	if err != nil {
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonArmyReadFail)
	}

	res, err := game.ResolveBattle(game.BattleInput{
		Mode:          game.ModeScout,
		Attacker:      army,
		Defenders:     garrison,
		DefenderTribe: target.Tribe,
		WallLevel:     target.WallLevel(),
	})
	if err != nil {
		return nil, ErrInvalidCommand.WithCause(err)
	}

	army.GoHome()
	if err := uow.Armies().Save(ctx, army); err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}
	secs := target.Position.TravelTimeSecs(origin.Position, army.Speed(), r.worldSize, r.speed)
	due := now.Add(time.Duration(secs) * time.Second)
	if _, err := r.enqueue(ctx, uow, army.PlayerID, army.VillageID, job.TaskArmyReturn,
		job.ArmyReturnPayload{ArmyID: army.ID}, due); err != nil {
		return nil, err
	}

	report := &BattleReport{
		ID:               r.newID(),
		Mode:             res.Mode.String(),
		AttackerPlayerID: army.PlayerID,
		AttackerName:     r.playerName(ctx, uow, army.PlayerID),
		DefenderPlayerID: target.PlayerID,
		DefenderName:     r.playerName(ctx, uow, target.PlayerID),
		TargetVillageID:  target.ID,
		Result:           res,
		Audiences:        []int64{army.PlayerID},
		CreatedAt:        now,
	}
	if res.Scout.AttackerWins {
		stocks := target.Stocks
		report.RevealedStocks = &stocks
		for _, d := range garrison {
			report.RevealedTroops = append(report.RevealedTroops, d.Units)
		}
	}
	// 得手且未被察觉时守方不知情
	if res.Scout.Detected {
		report.Audiences = append(report.Audiences, target.PlayerID)
	}
	return func() { r.publish(ctx, report) }, nil
}

func (r *Resolver) resolveReinforcement(ctx context.Context, uow UnitOfWork, t *job.Job) error {
	var p job.ReinforcementPayload
	if err := t.DecodePayload(&p); err != nil {
		return ErrInvalidCommand.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}
	army, err := r.army(ctx, uow, p.ArmyID)
	if err != nil {
		return err
	}
	army.Arrive()
	if err := uow.Armies().Save(ctx, army); err != nil {
		return ErrUnavailable.WithCause(err)
	}
	return nil
}

func (r *Resolver) resolveArmyReturn(ctx context.Context, uow UnitOfWork, t *job.Job, now time.Time) error {
	var p job.ArmyReturnPayload
	if err := t.DecodePayload(&p); err != nil {
		return ErrInvalidCommand.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}
	army, err := r.army(ctx, uow, p.ArmyID)
	if err != nil {
		return err
	}
	home, err := r.villageAt(ctx, uow, army.VillageID, now)
	if err != nil {
		return err
	}
	if !p.Bounty.IsZero() {
		home.StoreResources(p.Bounty)
	}
	if err := uow.Villages().Save(ctx, home); err != nil {
		return ErrUnavailable.WithCause(err)
	}

	existing, err := uow.Armies().HomeArmy(ctx, army.VillageID)
	switch {
	case err == nil && existing.ID != army.ID:
		// 并入既有驻军，回程记录废弃
		if err := existing.Merge(army); err != nil {
			return ErrInvalidCommand.WithCause(err)
		}
		if err := uow.Armies().Save(ctx, existing); err != nil {
			return ErrUnavailable.WithCause(err)
		}
		if err := uow.Armies().Delete(ctx, army.ID); err != nil {
			return ErrUnavailable.WithCause(err)
		}
	case err == nil:
		// 自己就是驻军记录（整体撤回），落地即可
		army.Arrive()
		if err := uow.Armies().Save(ctx, army); err != nil {
			return ErrUnavailable.WithCause(err)
		}
	case errors.Is(err, game.ErrArmyNotFound):
		army.Arrive()
		if err := uow.Armies().Save(ctx, army); err != nil {
			return ErrUnavailable.WithCause(err)
		}
	default:
		return ErrUnavailable.WithCause(err).WithReason(ReasonArmyReadFail)
	}
	return nil
}

func (r *Resolver) resolveTrainUnits(ctx context.Context, uow UnitOfWork, t *job.Job) error {
	var p job.TrainUnitsPayload
	if err := t.DecodePayload(&p); err != nil {
		return ErrInvalidCommand.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}
	if p.UnitIndex < 0 || p.UnitIndex >= game.TroopCount {
		return ErrInvalidCommand.WithData("unit_index", p.UnitIndex)
	}
	v, err := uow.Villages().Get(ctx, p.VillageID)
	if err != nil {
		if errors.Is(err, game.ErrVillageNotFound) {
			return ErrNotFound.WithData("village_id", p.VillageID)
		}
		return ErrUnavailable.WithCause(err).WithReason(ReasonVillageReadFail)
	}

	home, err := uow.Armies().HomeArmy(ctx, v.ID)
	switch {
	case err == nil:
		home.Units[p.UnitIndex] += p.Quantity
		if err := uow.Armies().Save(ctx, home); err != nil {
			return ErrUnavailable.WithCause(err)
		}
	case errors.Is(err, game.ErrArmyNotFound):
		var units game.TroopSet
		units[p.UnitIndex] = p.Quantity
		fresh := game.NewArmy(r.newID(), v.PlayerID, v.ID, v.Tribe, units, game.SmithyLevels{})
		if err := uow.Armies().Save(ctx, fresh); err != nil {
			return ErrUnavailable.WithCause(err)
		}
	default:
		return ErrUnavailable.WithCause(err).WithReason(ReasonArmyReadFail)
	}
	return nil
}

func (r *Resolver) resolveBuildingUpgrade(ctx context.Context, uow UnitOfWork, t *job.Job) error {
	var p job.BuildingUpgradePayload
	if err := t.DecodePayload(&p); err != nil {
		return ErrInvalidCommand.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}
	v, err := uow.Villages().Get(ctx, p.VillageID)
	if err != nil {
		if errors.Is(err, game.ErrVillageNotFound) {
			return ErrNotFound.WithData("village_id", p.VillageID)
		}
		return ErrUnavailable.WithCause(err).WithReason(ReasonVillageReadFail)
	}

	if _, ok := v.BuildingAt(p.Slot); !ok {
		if err := v.AddBuilding(p.Slot, p.Building); err != nil {
			return ErrInvalidCommand.WithCause(err)
		}
	}
	if err := v.SetBuildingLevel(p.Slot, p.ToLevel); err != nil {
		return ErrInvalidCommand.WithCause(err)
	}
	v.Population++
	if err := uow.Villages().Save(ctx, v); err != nil {
		return ErrUnavailable.WithCause(err)
	}
	return nil
}

func (r *Resolver) resolveMerchantDelivery(ctx context.Context, uow UnitOfWork, t *job.Job, now time.Time) error {
	var p job.MerchantDeliveryPayload
	if err := t.DecodePayload(&p); err != nil {
		return ErrInvalidCommand.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}
	to, err := r.villageAt(ctx, uow, p.ToVillageID, now)
	if err != nil {
		return err
	}
	from, err := r.villageAt(ctx, uow, p.FromVillageID, now)
	if err != nil {
		return err
	}
	to.StoreResources(p.Cargo)
	if err := uow.Villages().Save(ctx, to); err != nil {
		return ErrUnavailable.WithCause(err)
	}

	secs := to.Position.TravelTimeSecs(from.Position, from.Tribe.MerchantSpeed(), r.worldSize, r.speed)
	due := now.Add(time.Duration(secs) * time.Second)
	if _, err := r.enqueue(ctx, uow, t.PlayerID, from.ID, job.TaskMerchantReturn,
		job.MerchantReturnPayload{VillageID: from.ID, Merchants: p.Merchants}, due); err != nil {
		return err
	}
	return nil
}

func (r *Resolver) resolveMerchantReturn(ctx context.Context, uow UnitOfWork, t *job.Job) error {
	var p job.MerchantReturnPayload
	if err := t.DecodePayload(&p); err != nil {
		return ErrInvalidCommand.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}
	v, err := uow.Villages().Get(ctx, p.VillageID)
	if err != nil {
		if errors.Is(err, game.ErrVillageNotFound) {
			return ErrNotFound.WithData("village_id", p.VillageID)
		}
		return ErrUnavailable.WithCause(err).WithReason(ReasonVillageReadFail)
	}
	if p.Merchants > v.BusyMerchants {
		v.BusyMerchants = 0
	} else {
		v.BusyMerchants -= p.Merchants
	}
	if err := uow.Villages().Save(ctx, v); err != nil {
		return ErrUnavailable.WithCause(err)
	}
	return nil
}

func (r *Resolver) saveOrDrop(ctx context.Context, uow UnitOfWork, a *game.Army) error {
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

func (r *Resolver) enqueue(ctx context.Context, uow UnitOfWork, playerID, villageID int64, tt job.TaskType, payload any, due time.Time) (*job.Job, error) {
	raw, err := job.EncodePayload(payload)
	if err != nil {
		return nil, ErrInternalServer.WithCause(err).WithReason(ReasonPayloadCodecFail)
	}
	jb := job.New(r.newID(), playerID, villageID, tt, raw, due)
	if err := uow.Jobs().Add(ctx, jb); err != nil {
		return nil, ErrUnavailable.WithCause(err).WithReason(ReasonJobWriteFail)
	}
	return jb, nil
}

// publish 战报写库加推送，失败只记日志，不影响已提交的结算。
func (r *Resolver) publish(ctx context.Context, report *BattleReport) {
	if r.reports != nil {
		if err := r.reports.SaveBattleReport(ctx, report); err != nil {
			r.log.WithContext(ctx).Error("battle report write failed",
				zap.Int64("report_id", report.ID), zap.Error(err))
			return
		}
	}
	if r.notify != nil {
		for _, playerID := range report.Audiences {
			r.notify.NotifyReport(playerID, report.ID)
		}
	}
}

// dropDeadHero 阵亡英雄不再随军。
func dropDeadHero(a *game.Army) {
	if a.Hero != nil && !a.Hero.Alive() {
		a.Hero = nil
	}
}

// saveHero 同步英雄独立档案，阵亡也落库（血量 0）。
func (r *Resolver) saveHero(ctx context.Context, uow UnitOfWork, h *game.Hero) error {
	if h == nil {
		return nil
	}
	if err := uow.Heroes().Save(ctx, h); err != nil {
		return ErrUnavailable.WithCause(err)
	}
	return nil
}

// playerName 战报表头装饰，读不到玩家时留空，不阻断结算。
func (r *Resolver) playerName(ctx context.Context, uow UnitOfWork, id int64) string {
	p, err := uow.Players().Get(ctx, id)
	if err != nil {
		return ""
	}
	return p.Name
}
