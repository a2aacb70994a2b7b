package job

import (
	"encoding/json"
	"fmt"

	"AgeOfTribes/internal/game"
)

// AttackPayload 进攻/掠夺任务：军队抵达目标村后结算战斗。
// 催化目标只记槽位，等级在结算时按村庄实况读取。
type AttackPayload struct {
	ArmyID          int64           `json:"army_id"`
	TargetVillageID int64           `json:"target_village_id"`
	Mode            game.AttackMode `json:"mode"`
	CatapultSlots   []uint8         `json:"catapult_slots,omitempty"`
}

// ScoutPayload 侦察任务。
type ScoutPayload struct {
	ArmyID          int64 `json:"army_id"`
	TargetVillageID int64 `json:"target_village_id"`
}

// ReinforcementPayload 援军抵达目标村驻防。
type ReinforcementPayload struct {
	ArmyID          int64 `json:"army_id"`
	TargetVillageID int64 `json:"target_village_id"`
}

// ArmyReturnPayload 军队回村：并入本村驻军，卸下战利品。
type ArmyReturnPayload struct {
	ArmyID int64          `json:"army_id"`
	Bounty game.Resources `json:"bounty"`
}

// TrainUnitsPayload 训练完成后入列本村驻军。
type TrainUnitsPayload struct {
	VillageID int64  `json:"village_id"`
	UnitIndex int    `json:"unit_index"`
	Quantity  uint32 `json:"quantity"`
}

// BuildingUpgradePayload 施工完成后提升槽位等级。
type BuildingUpgradePayload struct {
	VillageID int64             `json:"village_id"`
	Slot      uint8             `json:"slot"`
	Building  game.BuildingType `json:"building"`
	ToLevel   uint8             `json:"to_level"`
}

// MerchantDeliveryPayload 商人抵达目标村卸货。
type MerchantDeliveryPayload struct {
	FromVillageID int64          `json:"from_village_id"`
	ToVillageID   int64          `json:"to_village_id"`
	Merchants     uint8          `json:"merchants"`
	Cargo         game.Resources `json:"cargo"`
}

// MerchantReturnPayload 商人空载返回，恢复可用数。
type MerchantReturnPayload struct {
	VillageID int64 `json:"village_id"`
	Merchants uint8 `json:"merchants"`
}

// EncodePayload 把负载序列化为任务行的 JSON 字段。
func EncodePayload(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return raw, nil
}

// DecodePayload 把任务负载还原为类型化结构。
func (j *Job) DecodePayload(out any) error {
	if len(j.Payload) == 0 {
		return fmt.Errorf("decode payload: empty payload for task %d (%s)", j.ID, j.Type)
	}
	if err := json.Unmarshal(j.Payload, out); err != nil {
		return fmt.Errorf("decode payload: task %d (%s): %w", j.ID, j.Type, err)
	}
	return nil
}
