package game

// AttackMode 出征模式。
type AttackMode uint8

const (
	ModeNormal AttackMode = iota
	ModeRaid
	ModeScout
)

func (m AttackMode) String() string {
	switch m {
	case ModeRaid:
		return "raid"
	case ModeScout:
		return "scout"
	default:
		return "normal"
	}
}

type BattleSide uint8

const (
	SideAttacker BattleSide = iota
	SideDefender
)

func (s BattleSide) String() string {
	if s == SideAttacker {
		return "attacker"
	}
	return "defender"
}

// ArmyLosses 单支军队的战损明细。
type ArmyLosses struct {
	ArmyID    int64    `json:"army_id"`
	Before    TroopSet `json:"before"`
	Losses    TroopSet `json:"losses"`
	Survivors TroopSet `json:"survivors"`
}

// SiegeDamage 攻城对单个槽位的破坏结果。
type SiegeDamage struct {
	Slot   uint8 `json:"slot"`
	Before uint8 `json:"before"`
	After  uint8 `json:"after"`
}

// ScoutOutcome 侦察模式的结果：是否得手、守方是否察觉。
type ScoutOutcome struct {
	AttackerWins bool `json:"attacker_wins"`
	Detected     bool `json:"detected"`
}

// BattleResult 是一次战斗结算的全部输出，本身不落库，只作为战报素材。
type BattleResult struct {
	Mode              AttackMode    `json:"mode"`
	Winner            BattleSide    `json:"winner"`
	AttackValue       float64       `json:"attack_value"`
	DefenseValue      float64       `json:"defense_value"`
	AttackerLossRatio float64       `json:"attacker_loss_ratio"`
	DefenderLossRatio float64       `json:"defender_loss_ratio"`
	Attacker          ArmyLosses    `json:"attacker"`
	Defenders         []ArmyLosses  `json:"defenders"`
	WallDamage        *SiegeDamage  `json:"wall_damage,omitempty"`
	CatapultDamage    []SiegeDamage `json:"catapult_damage,omitempty"`
	Bounty            Resources     `json:"bounty"`
	Scout             *ScoutOutcome `json:"scout,omitempty"`
}

// DefenderLossesTotal 汇总守方全部损失的兵力数。
func (r *BattleResult) DefenderLossesTotal() uint32 {
	var total uint32
	for _, d := range r.Defenders {
		total += d.Losses.Total()
	}
	return total
}

// DefendersWipedOut 守方是否全灭。
func (r *BattleResult) DefendersWipedOut() bool {
	for _, d := range r.Defenders {
		if !d.Survivors.IsZero() {
			return false
		}
	}
	return true
}
