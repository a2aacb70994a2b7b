package game

import "math"

const (
	heroMaxHealth = 100
	// 每点技能按 0.8% 复利加成
	heroBonusPerPoint = 1.008
	heroBaseAttack    = 100
	heroBaseDefense   = 100
)

// Hero 最多跟随一支军队，随军出征与返回。
type Hero struct {
	ID            int64  `json:"id"`
	PlayerID      int64  `json:"player_id"`
	VillageID     int64  `json:"village_id"`
	Level         uint32 `json:"level"`
	Experience    uint64 `json:"experience"`
	Health        uint8  `json:"health"` // 0 表示阵亡
	AttackPoints  uint32 `json:"attack_points"`
	DefensePoints uint32 `json:"defense_points"`
}

func NewHero(id, playerID, villageID int64) *Hero {
	return &Hero{
		ID:        id,
		PlayerID:  playerID,
		VillageID: villageID,
		Level:     1,
		Health:    heroMaxHealth,
	}
}

func (h *Hero) Alive() bool {
	return h != nil && h.Health > 0
}

func bonusByPoints(points uint32) float64 {
	if points == 0 {
		return 0
	}
	return math.Pow(heroBonusPerPoint, float64(points)) - 1.0
}

// AttackBonus 返回随军出征时的固定攻击加值。
func (h *Hero) AttackBonus() uint32 {
	if !h.Alive() {
		return 0
	}
	return uint32(float64(heroBaseAttack) * (1.0 + bonusByPoints(h.AttackPoints)))
}

// DefenseBonus 返回随军驻守时的固定防御加值。
func (h *Hero) DefenseBonus() uint32 {
	if !h.Alive() {
		return 0
	}
	return uint32(float64(heroBaseDefense) * (1.0 + bonusByPoints(h.DefensePoints)))
}

// ApplyDamage 按战损比例扣血，比例 ≥1 直接阵亡。
func (h *Hero) ApplyDamage(lossRatio float64) {
	if !h.Alive() {
		return
	}
	if lossRatio < 0 {
		lossRatio = 0
	}
	if lossRatio >= 1 {
		h.Health = 0
		return
	}
	dmg := uint8(math.Floor(float64(heroMaxHealth) * lossRatio))
	if dmg >= h.Health {
		h.Health = 0
		return
	}
	h.Health -= dmg
}

// GainExperience 累积经验，升级规则：level = floor(exp/1000)+1。
func (h *Hero) GainExperience(exp uint64) {
	if h == nil {
		return
	}
	h.Experience += exp
	h.Level = uint32(h.Experience/1000) + 1
}
