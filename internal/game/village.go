package game

import "time"

// BuildingType 村庄建筑类型。
type BuildingType uint8

const (
	BuildingWoodcutter BuildingType = iota + 1
	BuildingClayPit
	BuildingIronMine
	BuildingCropland
	BuildingMain
	BuildingRallyPoint
	BuildingWarehouse
	BuildingGranary
	BuildingBarracks
	BuildingStable
	BuildingWorkshop
	BuildingSmithy
	BuildingAcademy
	BuildingMarketplace
	BuildingResidence
	BuildingCranny
	BuildingWall
)

// 固定槽位约定：1..18 资源田，19 主楼，39 集结点，40 城墙。
const (
	SlotFieldFirst = 1
	SlotFieldLast  = 18
	SlotMain       = 19
	SlotRallyPoint = 39
	SlotWall       = 40
	SlotMax        = 40
)

type Building struct {
	Slot  uint8        `json:"slot"`
	Type  BuildingType `json:"type"`
	Level uint8        `json:"level"`
}

// Village 是经济与驻军的单元。军队记录独立持久化，不内嵌在这里。
type Village struct {
	ID            int64       `json:"id"`
	PlayerID      int64       `json:"player_id"`
	Name          string      `json:"name"`
	Tribe         Tribe       `json:"tribe"`
	Position      Position    `json:"position"`
	Stocks        Resources   `json:"stocks"`
	Buildings     []Building  `json:"buildings"`
	Population    uint32      `json:"population"`
	Loyalty       uint8       `json:"loyalty"` // 忠诚度，满值 100
	Merchants     uint8       `json:"merchants"`
	BusyMerchants uint8       `json:"busy_merchants"`
	Research      ResearchSet `json:"research"`
	OasisBonus    Resources   `json:"oasis_bonus"` // 各资源产量加成百分比，来自已占领绿洲
	StocksAt      time.Time   `json:"stocks_at"`   // 上次资源结算时间
}

// Researched 首格兵种天生可训练，其余需学院研发。
func (v *Village) Researched(unit int) bool {
	if unit == 0 {
		return true
	}
	if unit < 0 || unit >= TroopCount {
		return false
	}
	return v.Research[unit]
}

func (v *Village) BuildingAt(slot uint8) (Building, bool) {
	for _, b := range v.Buildings {
		if b.Slot == slot {
			return b, true
		}
	}
	return Building{}, false
}

// BuildingLevel 返回该类型的最高等级，没有则为 0。
func (v *Village) BuildingLevel(t BuildingType) uint8 {
	var level uint8
	for _, b := range v.Buildings {
		if b.Type == t && b.Level > level {
			level = b.Level
		}
	}
	return level
}

func (v *Village) WallLevel() uint8 {
	return v.BuildingLevel(BuildingWall)
}

func (v *Village) ResidenceLevel() uint8 {
	return v.BuildingLevel(BuildingResidence)
}

// AddBuilding 在空槽位新建 0 级建筑。
func (v *Village) AddBuilding(slot uint8, t BuildingType) error {
	if slot < 1 || slot > SlotMax {
		return ErrSlotEmpty
	}
	if _, ok := v.BuildingAt(slot); ok {
		return ErrSlotOccupied
	}
	v.Buildings = append(v.Buildings, Building{Slot: slot, Type: t, Level: 0})
	return nil
}

// SetBuildingLevel 覆盖槽位等级；降到 0 且不是资源田时拆除该建筑。
func (v *Village) SetBuildingLevel(slot uint8, level uint8) error {
	for i := range v.Buildings {
		if v.Buildings[i].Slot != slot {
			continue
		}
		v.Buildings[i].Level = level
		if level == 0 && (slot < SlotFieldFirst || slot > SlotFieldLast) {
			v.Buildings = append(v.Buildings[:i], v.Buildings[i+1:]...)
		}
		return nil
	}
	return ErrSlotEmpty
}

// 仓库/粮仓容量表换算：0 级兜底 800。
func storageCapacity(level uint8) uint32 {
	if level == 0 {
		return 800
	}
	cap := 800.0
	for i := uint8(0); i < level; i++ {
		cap *= 1.2
	}
	return uint32(cap)
}

func (v *Village) WarehouseCapacity() uint32 {
	return storageCapacity(v.BuildingLevel(BuildingWarehouse))
}

func (v *Village) GranaryCapacity() uint32 {
	return storageCapacity(v.BuildingLevel(BuildingGranary))
}

// CrannyProtection 返回藏兵洞保护量（每种资源分别生效）。
func (v *Village) CrannyProtection() uint32 {
	var total uint32
	for _, b := range v.Buildings {
		if b.Type != BuildingCranny || b.Level == 0 {
			continue
		}
		amount := 100.0
		for i := uint8(1); i < b.Level; i++ {
			amount *= 1.3
		}
		total += uint32(amount)
	}
	return total
}

// UnprotectedStocks 返回可被掠夺的库存（扣除藏兵洞保护）。
func (v *Village) UnprotectedStocks() Resources {
	p := v.CrannyProtection()
	return Resources{
		Lumber: subFloor(v.Stocks.Lumber, p),
		Clay:   subFloor(v.Stocks.Clay, p),
		Iron:   subFloor(v.Stocks.Iron, p),
		Crop:   subFloor(v.Stocks.Crop, p),
	}
}

// 资源田每级产量表（单位/小时，1 倍速）。
var fieldProduction = [21]uint32{2, 5, 9, 15, 22, 33, 50, 70, 100, 145, 200, 280, 375, 495, 635, 800, 1000, 1300, 1600, 2000, 2450}

func productionOf(level uint8) uint32 {
	if int(level) >= len(fieldProduction) {
		level = uint8(len(fieldProduction) - 1)
	}
	return fieldProduction[level]
}

// ProductionPerHour 汇总资源田产量并计入绿洲加成（未乘世界倍速）。
func (v *Village) ProductionPerHour() Resources {
	var out Resources
	for _, b := range v.Buildings {
		if b.Slot < SlotFieldFirst || b.Slot > SlotFieldLast {
			continue
		}
		p := productionOf(b.Level)
		switch b.Type {
		case BuildingWoodcutter:
			out.Lumber += p
		case BuildingClayPit:
			out.Clay += p
		case BuildingIronMine:
			out.Iron += p
		case BuildingCropland:
			out.Crop += p
		}
	}
	out.Lumber += out.Lumber * v.OasisBonus.Lumber / 100
	out.Clay += out.Clay * v.OasisBonus.Clay / 100
	out.Iron += out.Iron * v.OasisBonus.Iron / 100
	out.Crop += out.Crop * v.OasisBonus.Crop / 100
	return out
}

// Tick 把库存结算到 now，按容量截断。时间由调用方显式传入，便于测试。
func (v *Village) Tick(now time.Time, serverSpeed int) {
	if serverSpeed <= 0 {
		serverSpeed = 1
	}
	if v.StocksAt.IsZero() || !now.After(v.StocksAt) {
		v.StocksAt = now
		return
	}
	elapsed := now.Sub(v.StocksAt).Seconds()
	prod := v.ProductionPerHour()

	gain := func(perHour uint32) uint32 {
		return uint32(float64(perHour) * float64(serverSpeed) * elapsed / 3600.0)
	}
	v.Stocks.Lumber += gain(prod.Lumber)
	v.Stocks.Clay += gain(prod.Clay)
	v.Stocks.Iron += gain(prod.Iron)
	v.Stocks.Crop += gain(prod.Crop)
	v.clampStocks()
	v.StocksAt = now
}

func (v *Village) clampStocks() {
	wcap := v.WarehouseCapacity()
	gcap := v.GranaryCapacity()
	if v.Stocks.Lumber > wcap {
		v.Stocks.Lumber = wcap
	}
	if v.Stocks.Clay > wcap {
		v.Stocks.Clay = wcap
	}
	if v.Stocks.Iron > wcap {
		v.Stocks.Iron = wcap
	}
	if v.Stocks.Crop > gcap {
		v.Stocks.Crop = gcap
	}
}

// SpendResources 扣减库存；不足时返回带缺口明细的错误，不做部分扣减。
func (v *Village) SpendResources(cost Resources) error {
	if !v.Stocks.Covers(cost) {
		return NewInsufficientResourcesError(v.Stocks.Missing(cost))
	}
	v.Stocks = v.Stocks.Sub(cost)
	return nil
}

// StoreResources 入库并按容量截断，溢出部分丢弃。
func (v *Village) StoreResources(in Resources) {
	v.Stocks = v.Stocks.Add(in)
	v.clampStocks()
}

// RemoveBounty 扣除被掠走的资源。
func (v *Village) RemoveBounty(bounty Resources) {
	v.Stocks = v.Stocks.Sub(bounty)
}

// AvailableMerchants 返回空闲商人数。
func (v *Village) AvailableMerchants() uint8 {
	if v.BusyMerchants >= v.Merchants {
		return 0
	}
	return v.Merchants - v.BusyMerchants
}
