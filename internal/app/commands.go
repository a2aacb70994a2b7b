package app

import (
	"time"

	"AgeOfTribes/internal/game"
)

// AttackVillageCmd 出征进攻/掠夺。Mode 只接受 normal/raid，侦察走 ScoutVillageCmd。
type AttackVillageCmd struct {
	PlayerID        int64
	FromVillageID   int64
	TargetVillageID int64
	Units           game.TroopSet
	WithHero        bool
	Mode            game.AttackMode
	CatapultSlots   []uint8
}

// ScoutVillageCmd 派出侦察兵。
type ScoutVillageCmd struct {
	PlayerID        int64
	FromVillageID   int64
	TargetVillageID int64
	Units           game.TroopSet
}

// ReinforceVillageCmd 派出援军驻防目标村。
type ReinforceVillageCmd struct {
	PlayerID        int64
	FromVillageID   int64
	TargetVillageID int64
	Units           game.TroopSet
	WithHero        bool
}

// RecallTroopsCmd 军队所有者撤回驻外兵力。
// Units 等于驻军全量时原记录整体回家，否则拆分出新记录。
type RecallTroopsCmd struct {
	PlayerID int64
	ArmyID   int64
	Units    game.TroopSet
}

// ReleaseReinforcementsCmd 村庄所有者遣返他人援军，语义与撤回一致。
type ReleaseReinforcementsCmd struct {
	PlayerID  int64
	VillageID int64
	ArmyID    int64
	Units     game.TroopSet
}

// TrainUnitsCmd 训练兵种，费用立即扣除，成兵由任务结算入列。
type TrainUnitsCmd struct {
	PlayerID  int64
	VillageID int64
	UnitIndex int
	Quantity  uint32
}

// UpgradeBuildingCmd 升级或新建建筑。
type UpgradeBuildingCmd struct {
	PlayerID  int64
	VillageID int64
	Slot      uint8
	Building  game.BuildingType
}

// SendResourcesCmd 商人运送资源。
type SendResourcesCmd struct {
	PlayerID      int64
	FromVillageID int64
	ToVillageID   int64
	Cargo         game.Resources
}

// Enqueued 是命令受理结果：生成的任务与预计结算时间。
type Enqueued struct {
	JobID     int64     `json:"job_id"`
	ResolveAt time.Time `json:"resolve_at"`
}
