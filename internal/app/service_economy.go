package app

import (
	"context"
	"errors"
	"time"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/job"
)

// TrainUnits 受理训练：立即扣资源，成兵由任务入列。
func (s *GameService) TrainUnits(ctx context.Context, cmd TrainUnitsCmd) (*Enqueued, error) {
	if cmd.UnitIndex < 0 || cmd.UnitIndex >= game.TroopCount || cmd.Quantity == 0 {
		return nil, ErrInvalidCommand.WithData("unit_index", cmd.UnitIndex)
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	v, err := s.ownVillage(ctx, uow, cmd.VillageID, cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	if !v.Researched(cmd.UnitIndex) {
		return nil, ErrInvalidCommand.WithReason(ReasonUnitNotResearched).
			WithCause(game.ErrUnresearchedUnit).WithData("unit_index", cmd.UnitIndex)
	}
	v.Tick(s.now(), s.speed)

	cost := game.TrainCost(v.Tribe, cmd.UnitIndex, cmd.Quantity)
	if err := s.spend(v, cost); err != nil {
		return nil, err
	}
	if err := uow.Villages().Save(ctx, v); err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}

	secs := game.TrainSecs(v.Tribe, cmd.UnitIndex, cmd.Quantity, s.speed)
	due := s.now().Add(time.Duration(secs) * time.Second)
	jb, err := s.enqueue(ctx, uow, cmd.PlayerID, v.ID, job.TaskTrainUnits,
		job.TrainUnitsPayload{VillageID: v.ID, UnitIndex: cmd.UnitIndex, Quantity: cmd.Quantity}, due)
	if err != nil {
		return nil, err
	}
	if err := s.commit(uow); err != nil {
		return nil, err
	}
	return &Enqueued{JobID: jb.ID, ResolveAt: due}, nil
}

// UpgradeBuilding 受理建造：空槽位新建 1 级，已有建筑升一级。
func (s *GameService) UpgradeBuilding(ctx context.Context, cmd UpgradeBuildingCmd) (*Enqueued, error) {
	if cmd.Slot < 1 || cmd.Slot > game.SlotMax {
		return nil, ErrInvalidCommand.WithData("slot", cmd.Slot)
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	v, err := s.ownVillage(ctx, uow, cmd.VillageID, cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	v.Tick(s.now(), s.speed)

	building := cmd.Building
	toLevel := uint8(1)
	if b, ok := v.BuildingAt(cmd.Slot); ok {
		building = b.Type
		toLevel = b.Level + 1
	}

	cost := game.BuildingUpgradeCost(building, toLevel)
	if err := s.spend(v, cost); err != nil {
		return nil, err
	}
	if err := uow.Villages().Save(ctx, v); err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}

	secs := game.BuildingUpgradeSecs(building, toLevel, s.speed)
	due := s.now().Add(time.Duration(secs) * time.Second)
	jb, err := s.enqueue(ctx, uow, cmd.PlayerID, v.ID, job.TaskBuildingUpgrade,
		job.BuildingUpgradePayload{VillageID: v.ID, Slot: cmd.Slot, Building: building, ToLevel: toLevel}, due)
	if err != nil {
		return nil, err
	}
	if err := s.commit(uow); err != nil {
		return nil, err
	}
	return &Enqueued{JobID: jb.ID, ResolveAt: due}, nil
}

// SendResources 受理资源运送：占用商人、扣库存、入队送达任务。
func (s *GameService) SendResources(ctx context.Context, cmd SendResourcesCmd) (*Enqueued, error) {
	if cmd.Cargo.IsZero() {
		return nil, ErrInvalidCommand.WithData("cargo", "empty")
	}
	if cmd.FromVillageID == cmd.ToVillageID {
		return nil, ErrInvalidCommand.WithReason(ReasonTargetIsSelf)
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	from, err := s.ownVillage(ctx, uow, cmd.FromVillageID, cmd.PlayerID)
	if err != nil {
		return nil, err
	}
	to, err := s.village(ctx, uow, cmd.ToVillageID)
	if err != nil {
		return nil, err
	}
	from.Tick(s.now(), s.speed)

	capacity := from.Tribe.MerchantCapacity()
	// 先用全宽整数比较，避免大宗货物的商人需求在窄化时回绕
	needed := (cmd.Cargo.Total() + uint64(capacity) - 1) / uint64(capacity)
	if needed > uint64(from.AvailableMerchants()) {
		return nil, ErrInvalidCommand.WithCause(game.ErrNoMerchantAvailable).
			WithData("needed", needed).WithData("available", from.AvailableMerchants())
	}
	merchants := uint8(needed)
	if err := s.spend(from, cmd.Cargo); err != nil {
		return nil, err
	}
	from.BusyMerchants += merchants
	if err := uow.Villages().Save(ctx, from); err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}

	secs := from.Position.TravelTimeSecs(to.Position, from.Tribe.MerchantSpeed(), s.worldSize, s.speed)
	due := s.now().Add(time.Duration(secs) * time.Second)
	jb, err := s.enqueue(ctx, uow, cmd.PlayerID, to.ID, job.TaskMerchantDelivery,
		job.MerchantDeliveryPayload{
			FromVillageID: from.ID,
			ToVillageID:   to.ID,
			Merchants:     merchants,
			Cargo:         cmd.Cargo,
		}, due)
	if err != nil {
		return nil, err
	}
	if err := s.commit(uow); err != nil {
		return nil, err
	}
	return &Enqueued{JobID: jb.ID, ResolveAt: due}, nil
}

// spend 扣减库存并换算资源不足错误。
func (s *GameService) spend(v *game.Village, cost game.Resources) error {
	err := v.SpendResources(cost)
	if err == nil {
		return nil
	}
	var insufficient *game.InsufficientResourcesError
	if errors.As(err, &insufficient) {
		return ErrInsufficientResources.
			WithData("missing_lumber", insufficient.Missing.Lumber).
			WithData("missing_clay", insufficient.Missing.Clay).
			WithData("missing_iron", insufficient.Missing.Iron).
			WithData("missing_crop", insufficient.Missing.Crop)
	}
	return ErrInvalidCommand.WithCause(err)
}
