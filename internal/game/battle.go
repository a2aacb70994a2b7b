package game

import "math"

const lossExponent = 1.5

// SiegeTarget 催化目标槽位及其当前等级。
type SiegeTarget struct {
	Slot  uint8
	Level uint8
}

// BattleInput 汇集一次结算所需的全部状态快照。
// Defenders 的第一支为驻守本村的军队，其余为援军；允许为空表示空村。
type BattleInput struct {
	Mode            AttackMode
	Attacker        *Army
	AttackerPop     uint32
	Defenders       []*Army
	DefenderPop     uint32
	DefenderTribe   Tribe
	WallLevel       uint8
	ResidenceLevel  uint8
	CatapultTargets []SiegeTarget
	Unprotected     Resources
}

// ResolveBattle 纯函数式结算一场战斗，不触碰任何外部状态。
// 相同输入必然产生相同输出，掠夺与破坏的随机性一概不存在。
func ResolveBattle(in BattleInput) (*BattleResult, error) {
	if in.Attacker == nil || in.Attacker.Units.IsZero() {
		return nil, ErrNoUnitsSelected
	}
	if in.Mode == ModeScout {
		return resolveScout(in), nil
	}
	return resolveCombat(in), nil
}

func resolveCombat(in BattleInput) *BattleResult {
	atkInf, atkCav := in.Attacker.AttackPoints()
	if in.Attacker.Hero != nil {
		atkInf += float64(in.Attacker.Hero.AttackBonus())
	}
	totalAttack := atkInf + atkCav

	var defInf, defCav float64
	for _, d := range in.Defenders {
		di, dc := d.DefensePoints()
		defInf += di
		defCav += dc
		if d.Hero != nil {
			b := float64(d.Hero.DefenseBonus())
			defInf += b
			defCav += b
		}
	}

	residence := 1.0 + float64(in.ResidenceLevel)/10.0
	wall := in.DefenderTribe.WallDefenseFactor(in.WallLevel)
	defInf *= residence * wall
	defCav *= residence * wall

	// 守方防御按攻方兵种构成加权
	var effDefense float64
	if totalAttack > 0 && defInf+defCav > 0 {
		effDefense = (atkInf/totalAttack)*defInf + (atkCav/totalAttack)*defCav
	}

	morale := 1.0
	if in.AttackerPop > in.DefenderPop && in.DefenderPop > 0 {
		morale = math.Pow(float64(in.DefenderPop)/float64(in.AttackerPop), 0.2)
	}
	attackValue := totalAttack * morale

	res := &BattleResult{
		Mode:         in.Mode,
		AttackValue:  attackValue,
		DefenseValue: effDefense,
	}

	switch {
	case totalAttack == 0:
		// 只有零攻击力单位出征，全军覆没
		res.Winner = SideDefender
		res.AttackerLossRatio = 1.0
		res.DefenderLossRatio = 0.0
	case effDefense == 0:
		// 空村或无防御，攻方零伤亡
		res.Winner = SideAttacker
		res.AttackerLossRatio = 0.0
		res.DefenderLossRatio = 1.0
	default:
		ratio := attackValue / effDefense
		s := sigma(ratio)
		if ratio > 1.0 {
			res.Winner = SideAttacker
			res.AttackerLossRatio = clampRatio(s / lossExponent)
			res.DefenderLossRatio = clampRatio(s * lossExponent)
		} else {
			res.Winner = SideDefender
			res.AttackerLossRatio = clampRatio(s * lossExponent)
			res.DefenderLossRatio = clampRatio(s / lossExponent)
		}
	}

	if in.Mode == ModeRaid {
		res.AttackerLossRatio *= 0.5
		res.DefenderLossRatio *= 0.5
	}

	attackerLosing := res.Winner == SideDefender
	res.Attacker = applyLossRatio(in.Attacker.ID, in.Attacker.Units, res.AttackerLossRatio, attackerLosing)
	res.Defenders = make([]ArmyLosses, 0, len(in.Defenders))
	for _, d := range in.Defenders {
		res.Defenders = append(res.Defenders, applyLossRatio(d.ID, d.Units, res.DefenderLossRatio, !attackerLosing))
	}

	resolveSiege(in, res, attackValue, effDefense)

	if in.Mode == ModeRaid {
		capacity := in.Attacker.carryCapacityOf(res.Attacker.Survivors)
		res.Bounty = computeBounty(capacity, in.Unprotected)
	}
	return res
}

// sigma 把攻防比映射为基础损失系数，x>1 与 x≤1 两段保持连续。
func sigma(x float64) float64 {
	if x > 1.0 {
		return (2.0 - math.Pow(x, -lossExponent)) / 2.0
	}
	return math.Pow(x, lossExponent) / 2.0
}

func clampRatio(r float64) float64 {
	if r > 1.0 {
		return 1.0
	}
	if r < 0 {
		return 0
	}
	return r
}

// applyLossRatio 是损失取整的唯一边界：各兵种向下取整，
// 败方兵力非零且比例为正时至少折损一个单位。
func applyLossRatio(armyID int64, before TroopSet, ratio float64, losingSide bool) ArmyLosses {
	al := ArmyLosses{ArmyID: armyID, Before: before}
	for i, n := range before {
		lost := uint32(float64(n) * ratio)
		if lost > n {
			lost = n
		}
		al.Losses[i] = lost
		al.Survivors[i] = n - lost
	}
	if losingSide && ratio > 0 && al.Losses.IsZero() && !before.IsZero() {
		for i, n := range before {
			if n > 0 {
				al.Losses[i] = 1
				al.Survivors[i] = n - 1
				break
			}
		}
	}
	return al
}

func resolveSiege(in BattleInput, res *BattleResult, attackValue, defenseValue float64) {
	units := in.Attacker.Tribe.Units()

	if ramIdx, ok := in.Attacker.Tribe.UnitIndexByRole(RoleRam); ok && in.WallLevel > 0 {
		if rams := res.Attacker.Survivors[ramIdx]; rams > 0 {
			strength := smithyAdjusted(units[ramIdx].Attack, units[ramIdx].Upkeep, in.Attacker.Smithy[ramIdx]) * float64(rams)
			wallDef := in.DefenderTribe.WallStrengthFactor() * math.Pow(float64(in.WallLevel), 2)
			after := siegeDamage(strength+attackValue, defenseValue+wallDef, in.WallLevel, 1)
			if after != in.WallLevel {
				res.WallDamage = &SiegeDamage{Slot: SlotWall, Before: in.WallLevel, After: after}
			}
		}
	}

	cataIdx, ok := in.Attacker.Tribe.UnitIndexByRole(RoleCatapult)
	if !ok || len(in.CatapultTargets) == 0 {
		return
	}
	catas := res.Attacker.Survivors[cataIdx]
	if catas == 0 {
		return
	}
	strength := smithyAdjusted(units[cataIdx].Attack, units[cataIdx].Upkeep, in.Attacker.Smithy[cataIdx]) * float64(catas)
	targets := in.CatapultTargets
	if len(targets) > 2 {
		targets = targets[:2]
	}
	split := len(targets)
	for _, t := range targets {
		after := siegeDamage(strength+attackValue, math.Max(defenseValue, 1.0), t.Level, split)
		res.CatapultDamage = append(res.CatapultDamage, SiegeDamage{Slot: t.Slot, Before: t.Level, After: after})
	}
}

// siegeDamage 按对数比例折算破坏后的建筑等级，双目标时各分一半。
func siegeDamage(effAttack, effDefense float64, level uint8, split int) uint8 {
	ratio := effAttack / effDefense
	if ratio <= 1.0 {
		return level
	}
	damage := math.Log(ratio) * 1.5
	if split == 2 {
		damage /= 2.0
	}
	after := float64(level) - damage
	if after < 0 {
		return 0
	}
	return uint8(after)
}

// computeBounty 按未受保护的库存比例分摊运力，总量双重封顶。
func computeBounty(capacity uint32, unprotected Resources) Resources {
	total := unprotected.Total()
	if capacity == 0 || total == 0 {
		return Resources{}
	}
	if uint64(capacity) >= total {
		return unprotected
	}
	share := func(v uint32) uint32 {
		return uint32(uint64(capacity) * uint64(v) / total)
	}
	b := Resources{
		Lumber: share(unprotected.Lumber),
		Clay:   share(unprotected.Clay),
		Iron:   share(unprotected.Iron),
		Crop:   share(unprotected.Crop),
	}
	// 取整剩余的运力按固定顺序补齐
	left := capacity - uint32(b.Total())
	fill := func(got *uint32, have uint32) {
		if left == 0 || *got >= have {
			return
		}
		add := have - *got
		if add > left {
			add = left
		}
		*got += add
		left -= add
	}
	fill(&b.Lumber, unprotected.Lumber)
	fill(&b.Clay, unprotected.Clay)
	fill(&b.Iron, unprotected.Iron)
	fill(&b.Crop, unprotected.Crop)
	return b
}

func resolveScout(in BattleInput) *BattleResult {
	scoutAtk := in.Attacker.ScoutingAttackPoints()
	var scoutDef float64
	detected := false
	for _, d := range in.Defenders {
		scoutDef += d.ScoutingDefensePoints()
		if d.ScoutCount() > 0 {
			detected = true
		}
	}
	scoutDef *= in.DefenderTribe.WallDefenseFactor(in.WallLevel)

	res := &BattleResult{
		Mode:         ModeScout,
		AttackValue:  scoutAtk,
		DefenseValue: scoutDef,
		Scout:        &ScoutOutcome{AttackerWins: scoutAtk > scoutDef, Detected: detected},
	}
	if res.Scout.AttackerWins {
		res.Winner = SideAttacker
	} else {
		res.Winner = SideDefender
	}
	// 侦察不产生兵力损失，双方军队原样保留
	res.Attacker = ArmyLosses{ArmyID: in.Attacker.ID, Before: in.Attacker.Units, Survivors: in.Attacker.Units}
	res.Defenders = make([]ArmyLosses, 0, len(in.Defenders))
	for _, d := range in.Defenders {
		res.Defenders = append(res.Defenders, ArmyLosses{ArmyID: d.ID, Before: d.Units, Survivors: d.Units})
	}
	return res
}
