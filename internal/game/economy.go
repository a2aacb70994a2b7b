package game

import "math"

// 建筑基础造价表（1 级），逐级按 1.28 倍递增。
var buildingBaseCost = map[BuildingType]Resources{
	BuildingWoodcutter:  {40, 100, 50, 60},
	BuildingClayPit:     {80, 40, 80, 50},
	BuildingIronMine:    {100, 80, 30, 60},
	BuildingCropland:    {70, 90, 70, 20},
	BuildingMain:        {70, 40, 60, 20},
	BuildingRallyPoint:  {110, 160, 90, 70},
	BuildingWarehouse:   {130, 160, 90, 40},
	BuildingGranary:     {80, 100, 70, 20},
	BuildingBarracks:    {210, 140, 260, 120},
	BuildingStable:      {260, 140, 220, 100},
	BuildingWorkshop:    {460, 510, 600, 320},
	BuildingSmithy:      {180, 250, 500, 160},
	BuildingAcademy:     {220, 160, 90, 40},
	BuildingMarketplace: {80, 70, 120, 70},
	BuildingResidence:   {580, 460, 350, 180},
	BuildingCranny:      {40, 50, 30, 10},
	BuildingWall:        {70, 90, 170, 70},
}

const buildingCostGrowth = 1.28

// BuildingUpgradeCost 返回升到 toLevel 的造价。
func BuildingUpgradeCost(t BuildingType, toLevel uint8) Resources {
	base, ok := buildingBaseCost[t]
	if !ok || toLevel == 0 {
		return base
	}
	factor := math.Pow(buildingCostGrowth, float64(toLevel-1))
	round5 := func(v uint32) uint32 {
		scaled := float64(v) * factor
		return uint32(math.Round(scaled/5.0)) * 5
	}
	return Resources{
		Lumber: round5(base.Lumber),
		Clay:   round5(base.Clay),
		Iron:   round5(base.Iron),
		Crop:   round5(base.Crop),
	}
}

// BuildingUpgradeSecs 返回升到 toLevel 的施工秒数（已除世界倍速）。
func BuildingUpgradeSecs(t BuildingType, toLevel uint8, serverSpeed int) uint32 {
	if serverSpeed <= 0 {
		serverSpeed = 1
	}
	base := 1780.0 // 1 级基准施工时长
	secs := base * math.Pow(1.16, float64(toLevel)) / float64(serverSpeed)
	return uint32(math.Floor(secs))
}

// TrainCost 返回某兵种训练 quantity 个的总造价。
func TrainCost(tribe Tribe, unitIdx int, quantity uint32) Resources {
	if unitIdx < 0 || unitIdx >= TroopCount {
		return Resources{}
	}
	return tribe.Units()[unitIdx].Cost.Scale(quantity)
}

// TrainSecs 返回训练总时长（串行训练，已除世界倍速）。
func TrainSecs(tribe Tribe, unitIdx int, quantity uint32, serverSpeed int) uint32 {
	if unitIdx < 0 || unitIdx >= TroopCount || serverSpeed <= 0 {
		return 0
	}
	total := uint64(tribe.Units()[unitIdx].TrainTime) * uint64(quantity)
	return uint32(total / uint64(serverSpeed))
}

// MerchantCapacity 每个商人的运量：罗马 500，条顿 1000，高卢 750。
func (t Tribe) MerchantCapacity() uint32 {
	switch t {
	case TribeTeuton:
		return 1000
	case TribeGaul:
		return 750
	default:
		return 500
	}
}

// MerchantSpeed 商人速度（格/小时）：罗马 16，条顿 12，高卢 24。
func (t Tribe) MerchantSpeed() uint32 {
	switch t {
	case TribeTeuton:
		return 12
	case TribeGaul:
		return 24
	default:
		return 16
	}
}
