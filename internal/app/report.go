package app

import (
	"time"

	"AgeOfTribes/internal/game"
)

// BattleReport 战报文档，落 MongoDB。Audiences 控制可见玩家：
// 侦察得手且未被察觉时不包含守方。
type BattleReport struct {
	ID               int64              `bson:"_id" json:"id"`
	Mode             string             `bson:"mode" json:"mode"`
	AttackerPlayerID int64              `bson:"attacker_player_id" json:"attacker_player_id"`
	AttackerName     string             `bson:"attacker_name" json:"attacker_name"`
	DefenderPlayerID int64              `bson:"defender_player_id" json:"defender_player_id"`
	DefenderName     string             `bson:"defender_name" json:"defender_name"`
	TargetVillageID  int64              `bson:"target_village_id" json:"target_village_id"`
	Result           *game.BattleResult `bson:"result" json:"result"`
	RevealedStocks   *game.Resources    `bson:"revealed_stocks,omitempty" json:"revealed_stocks,omitempty"`
	RevealedTroops   []game.TroopSet    `bson:"revealed_troops,omitempty" json:"revealed_troops,omitempty"`
	Audiences        []int64            `bson:"audiences" json:"audiences"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}

// VisibleTo 玩家是否可见该战报。
func (r *BattleReport) VisibleTo(playerID int64) bool {
	for _, id := range r.Audiences {
		if id == playerID {
			return true
		}
	}
	return false
}
