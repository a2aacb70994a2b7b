package game

import "math"

// ArmyState 是建模层的显式状态标签，存储层仍然只有 LocationID 一个可空列。
type ArmyState uint8

const (
	ArmyAtHome ArmyState = iota
	ArmyReinforcing
	ArmyDeployed
)

// Army 是一支可移动的兵力集合。
// 组成变化（出征/拆分/合并）会铸造新 id 而不是原地改写，见 Deploy/Split。
type Army struct {
	ID        int64        `json:"id"`
	PlayerID  int64        `json:"player_id"`
	Tribe     Tribe        `json:"tribe"`
	VillageID int64        `json:"village_id"` // 老家村庄
	Location  *int64       `json:"location"`   // nil=在家或回程；指向他村=驻防/出征
	Transit   bool         `json:"transit"`    // 行军途中，不参与任何村庄的驻防
	Units     TroopSet     `json:"units"`
	Smithy    SmithyLevels `json:"smithy"`
	Hero      *Hero        `json:"hero,omitempty"`
}

func NewArmy(id, playerID, villageID int64, tribe Tribe, units TroopSet, smithy SmithyLevels) *Army {
	return &Army{
		ID:        id,
		PlayerID:  playerID,
		Tribe:     tribe,
		VillageID: villageID,
		Units:     units,
		Smithy:    smithy,
	}
}

func (a *Army) State() ArmyState {
	switch {
	case a.Transit:
		return ArmyDeployed
	case a.Location == nil:
		return ArmyAtHome
	default:
		return ArmyReinforcing
	}
}

// IsEmpty 表示零兵力且无英雄；这种记录不允许落库。
func (a *Army) IsEmpty() bool {
	return a.Units.IsZero() && a.Hero == nil
}

// Speed 取在场兵种的最小速度，空军队速度为 0。
func (a *Army) Speed() uint32 {
	units := a.Tribe.Units()
	var speed uint32
	for i, n := range a.Units {
		if n == 0 {
			continue
		}
		if speed == 0 || units[i].Speed < speed {
			speed = units[i].Speed
		}
	}
	return speed
}

func (a *Army) Upkeep() uint32 {
	units := a.Tribe.Units()
	var total uint32
	for i, n := range a.Units {
		total += units[i].Upkeep * n
	}
	return total
}

// CarryCapacity 返回当前兵力的总负重。
func (a *Army) CarryCapacity() uint32 {
	return a.carryCapacityOf(a.Units)
}

func (a *Army) carryCapacityOf(troops TroopSet) uint32 {
	units := a.Tribe.Units()
	var total uint32
	for i, n := range troops {
		total += units[i].Capacity * n
	}
	return total
}

// smithyAdjusted 是铁匠铺强化的唯一换算点：
// v + (v + 300*upkeep/7) * (1.007^level - 1)
func smithyAdjusted(v, upkeep uint32, level uint8) float64 {
	base := float64(v)
	if level == 0 {
		return base
	}
	return base + (base+300.0*float64(upkeep)/7.0)*(math.Pow(1.007, float64(level))-1.0)
}

// AttackPoints 按步兵/骑兵分流返回总攻击点。
// 攻城与扩张定位并入步兵一侧，侦察攻击为 0 自然不贡献。
func (a *Army) AttackPoints() (infantry, cavalry float64) {
	units := a.Tribe.Units()
	for i, n := range a.Units {
		if n == 0 {
			continue
		}
		v := smithyAdjusted(units[i].Attack, units[i].Upkeep, a.Smithy[i]) * float64(n)
		if units[i].Role == RoleCavalry {
			cavalry += v
		} else {
			infantry += v
		}
	}
	return infantry, cavalry
}

// DefensePoints 返回对步兵/对骑兵两轴的总防御点。
func (a *Army) DefensePoints() (defInfantry, defCavalry float64) {
	units := a.Tribe.Units()
	for i, n := range a.Units {
		if n == 0 {
			continue
		}
		defInfantry += smithyAdjusted(units[i].DefInfantry, units[i].Upkeep, a.Smithy[i]) * float64(n)
		defCavalry += smithyAdjusted(units[i].DefCavalry, units[i].Upkeep, a.Smithy[i]) * float64(n)
	}
	return defInfantry, defCavalry
}

const (
	scoutAttackBase  = 35
	scoutDefenseBase = 20
)

// ScoutingAttackPoints 侦察进攻力，只计侦察定位兵种，基准 35。
func (a *Army) ScoutingAttackPoints() float64 {
	return a.scoutingPoints(scoutAttackBase)
}

// ScoutingDefensePoints 侦察防御力，基准 20。
func (a *Army) ScoutingDefensePoints() float64 {
	return a.scoutingPoints(scoutDefenseBase)
}

func (a *Army) scoutingPoints(base uint32) float64 {
	units := a.Tribe.Units()
	var total float64
	for i, n := range a.Units {
		if n == 0 || units[i].Role != RoleScout {
			continue
		}
		total += smithyAdjusted(base, units[i].Upkeep, a.Smithy[i]) * float64(n)
	}
	return total
}

// ScoutCount 返回侦察兵数量。
func (a *Army) ScoutCount() uint32 {
	units := a.Tribe.Units()
	var total uint32
	for i, n := range a.Units {
		if units[i].Role == RoleScout {
			total += n
		}
	}
	return total
}

// Deploy 从本队扣除 subset，铸造一支持有 subset 的新军队（新 id 由调用方生成）。
// withHero 为 true 时英雄随新军队出发并从本队摘除。
// 校验失败不改动任何状态。本队被扣空且无英雄时由调用方删除记录。
func (a *Army) Deploy(newID int64, subset TroopSet, withHero bool) (*Army, error) {
	if subset.IsZero() {
		return nil, ErrNoUnitsSelected
	}
	if !a.Units.Covers(subset) {
		return nil, ErrInsufficientTroops
	}

	a.Units = a.Units.Sub(subset)

	depart := &Army{
		ID:        newID,
		PlayerID:  a.PlayerID,
		Tribe:     a.Tribe,
		VillageID: a.VillageID,
		Units:     subset,
		Smithy:    a.Smithy,
	}
	if withHero && a.Hero != nil {
		depart.Hero = a.Hero
		a.Hero = nil
	}
	return depart, nil
}

// Split 与 Deploy 同构，用于驻防军队的部分撤回：
// 请求全量时不拆分，调用方直接把原记录转向回家；否则拆出持有 subset 的新 id。
func (a *Army) Split(newID int64, subset TroopSet) (*Army, error) {
	return a.Deploy(newID, subset, false)
}

// Merge 同阵营兵力逐项相加，吸收对方英雄；对方记录由调用方废弃。
func (a *Army) Merge(other *Army) error {
	if other == nil {
		return nil
	}
	if a.Tribe != other.Tribe {
		return ErrTribeMismatch
	}
	a.Units = a.Units.Add(other.Units)
	if a.Hero == nil {
		a.Hero = other.Hero
	}
	return nil
}

// ApplyBattleOutcome 用幸存向量覆盖兵力，并按战损比例结算英雄伤血与经验。
// survivors 逐项不得超过战前数量，超出的项收敛到战前值。
func (a *Army) ApplyBattleOutcome(survivors TroopSet, lossRatio float64, expGain uint64) {
	for i := range survivors {
		if survivors[i] > a.Units[i] {
			survivors[i] = a.Units[i]
		}
	}
	a.Units = survivors
	if a.Hero != nil {
		a.Hero.ApplyDamage(lossRatio)
		a.Hero.GainExperience(expGain)
	}
}

// GoHome 清空当前位置并进入回程行军。
func (a *Army) GoHome() {
	a.Location = nil
	a.Transit = true
}

// MoveTo 向目标村庄开拔，抵达前不计入任何驻防。
func (a *Army) MoveTo(villageID int64) {
	a.Location = &villageID
	a.Transit = true
}

// Arrive 抵达当前目标，转为驻防（目标为老家时由调用方合并记录）。
func (a *Army) Arrive() {
	a.Transit = false
}
