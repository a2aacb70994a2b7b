package dto

import "time"

// Response 统一响应壳：code 为业务码，0 表示成功。
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Response {
	return Response{Code: code, Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

type AttackReq struct {
	PlayerID        int64    `json:"player_id" binding:"required"`
	FromVillageID   int64    `json:"from_village_id" binding:"required"`
	TargetVillageID int64    `json:"target_village_id" binding:"required"`
	Units           []uint32 `json:"units" binding:"required"`
	WithHero        bool     `json:"with_hero"`
	Mode            string   `json:"mode"`
	CatapultSlots   []uint8  `json:"catapult_slots"`
}

type ScoutReq struct {
	PlayerID        int64    `json:"player_id" binding:"required"`
	FromVillageID   int64    `json:"from_village_id" binding:"required"`
	TargetVillageID int64    `json:"target_village_id" binding:"required"`
	Units           []uint32 `json:"units" binding:"required"`
}

type ReinforceReq struct {
	PlayerID        int64    `json:"player_id" binding:"required"`
	FromVillageID   int64    `json:"from_village_id" binding:"required"`
	TargetVillageID int64    `json:"target_village_id" binding:"required"`
	Units           []uint32 `json:"units" binding:"required"`
	WithHero        bool     `json:"with_hero"`
}

type RecallReq struct {
	PlayerID int64    `json:"player_id" binding:"required"`
	ArmyID   int64    `json:"army_id" binding:"required"`
	Units    []uint32 `json:"units" binding:"required"`
}

type ReleaseReq struct {
	PlayerID  int64    `json:"player_id" binding:"required"`
	VillageID int64    `json:"village_id" binding:"required"`
	ArmyID    int64    `json:"army_id" binding:"required"`
	Units     []uint32 `json:"units" binding:"required"`
}

type TrainReq struct {
	PlayerID  int64  `json:"player_id" binding:"required"`
	VillageID int64  `json:"village_id" binding:"required"`
	UnitIndex int    `json:"unit_index"`
	Quantity  uint32 `json:"quantity" binding:"required"`
}

type UpgradeReq struct {
	PlayerID  int64 `json:"player_id" binding:"required"`
	VillageID int64 `json:"village_id" binding:"required"`
	Slot      uint8 `json:"slot" binding:"required"`
	Building  uint8 `json:"building"`
}

type SendResourcesReq struct {
	PlayerID      int64  `json:"player_id" binding:"required"`
	FromVillageID int64  `json:"from_village_id" binding:"required"`
	ToVillageID   int64  `json:"to_village_id" binding:"required"`
	Lumber        uint32 `json:"lumber"`
	Clay          uint32 `json:"clay"`
	Iron          uint32 `json:"iron"`
	Crop          uint32 `json:"crop"`
}

type EnqueuedResp struct {
	JobID     int64     `json:"job_id"`
	ResolveAt time.Time `json:"resolve_at"`
}

type JobView struct {
	ID       int64     `json:"id"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	DueAt    time.Time `json:"due_at"`
	Attempts uint8     `json:"attempts"`
}
