package game

// Tribe 表示可选阵营，决定兵种表与城墙系数。
type Tribe uint8

const (
	TribeRoman  Tribe = 1
	TribeTeuton Tribe = 2
	TribeGaul   Tribe = 3
)

func (t Tribe) Valid() bool {
	return t == TribeRoman || t == TribeTeuton || t == TribeGaul
}

func (t Tribe) String() string {
	switch t {
	case TribeRoman:
		return "roman"
	case TribeTeuton:
		return "teuton"
	case TribeGaul:
		return "gaul"
	default:
		return "unknown"
	}
}

// UnitRole 表示兵种定位，攻防结算按定位分流。
type UnitRole uint8

const (
	RoleInfantry UnitRole = iota
	RoleCavalry
	RoleScout
	RoleRam
	RoleCatapult
	RoleChief
	RoleSettler
)

// UnitStats 是兵种静态数据。Speed 单位为格/小时。
type UnitStats struct {
	Name        string
	Role        UnitRole
	Attack      uint32
	DefInfantry uint32
	DefCavalry  uint32
	Speed       uint32
	Capacity    uint32
	Cost        Resources
	Upkeep      uint32
	TrainTime   uint32 // 秒，1 倍速下
}

var romanUnits = [TroopCount]UnitStats{
	{Name: "Legionnaire", Role: RoleInfantry, Attack: 40, DefInfantry: 35, DefCavalry: 50, Speed: 12, Capacity: 50, Cost: Resources{120, 100, 150, 30}, Upkeep: 1, TrainTime: 533},
	{Name: "Praetorian", Role: RoleInfantry, Attack: 30, DefInfantry: 65, DefCavalry: 35, Speed: 10, Capacity: 20, Cost: Resources{100, 130, 160, 70}, Upkeep: 1, TrainTime: 597},
	{Name: "Imperian", Role: RoleInfantry, Attack: 70, DefInfantry: 40, DefCavalry: 25, Speed: 14, Capacity: 50, Cost: Resources{150, 160, 210, 80}, Upkeep: 1, TrainTime: 640},
	{Name: "Equites Legati", Role: RoleScout, Attack: 0, DefInfantry: 20, DefCavalry: 10, Speed: 32, Capacity: 0, Cost: Resources{140, 160, 20, 40}, Upkeep: 2, TrainTime: 453},
	{Name: "Equites Imperatoris", Role: RoleCavalry, Attack: 120, DefInfantry: 65, DefCavalry: 50, Speed: 28, Capacity: 100, Cost: Resources{550, 440, 320, 100}, Upkeep: 3, TrainTime: 880},
	{Name: "Equites Caesaris", Role: RoleCavalry, Attack: 180, DefInfantry: 80, DefCavalry: 105, Speed: 20, Capacity: 70, Cost: Resources{550, 640, 800, 180}, Upkeep: 4, TrainTime: 1173},
	{Name: "Battering Ram", Role: RoleRam, Attack: 60, DefInfantry: 30, DefCavalry: 75, Speed: 8, Capacity: 0, Cost: Resources{900, 360, 500, 70}, Upkeep: 3, TrainTime: 1533},
	{Name: "Fire Catapult", Role: RoleCatapult, Attack: 75, DefInfantry: 60, DefCavalry: 10, Speed: 6, Capacity: 0, Cost: Resources{950, 1350, 600, 90}, Upkeep: 6, TrainTime: 3000},
	{Name: "Senator", Role: RoleChief, Attack: 50, DefInfantry: 40, DefCavalry: 30, Speed: 8, Capacity: 0, Cost: Resources{30750, 27200, 45000, 37500}, Upkeep: 5, TrainTime: 30233},
	{Name: "Settler", Role: RoleSettler, Attack: 0, DefInfantry: 80, DefCavalry: 80, Speed: 10, Capacity: 3000, Cost: Resources{4600, 4200, 5800, 4400}, Upkeep: 1, TrainTime: 8967},
}

var teutonUnits = [TroopCount]UnitStats{
	{Name: "Maceman", Role: RoleInfantry, Attack: 40, DefInfantry: 20, DefCavalry: 5, Speed: 14, Capacity: 60, Cost: Resources{95, 75, 40, 40}, Upkeep: 1, TrainTime: 240},
	{Name: "Spearman", Role: RoleInfantry, Attack: 10, DefInfantry: 35, DefCavalry: 60, Speed: 14, Capacity: 40, Cost: Resources{145, 70, 85, 40}, Upkeep: 1, TrainTime: 73},
	{Name: "Axeman", Role: RoleInfantry, Attack: 60, DefInfantry: 30, DefCavalry: 30, Speed: 12, Capacity: 50, Cost: Resources{130, 120, 170, 70}, Upkeep: 1, TrainTime: 76},
	{Name: "Scout", Role: RoleScout, Attack: 0, DefInfantry: 10, DefCavalry: 5, Speed: 18, Capacity: 0, Cost: Resources{160, 100, 50, 50}, Upkeep: 1, TrainTime: 73},
	{Name: "Paladin", Role: RoleInfantry, Attack: 55, DefInfantry: 100, DefCavalry: 40, Speed: 20, Capacity: 110, Cost: Resources{370, 270, 290, 75}, Upkeep: 2, TrainTime: 800},
	{Name: "Teutonic Knight", Role: RoleInfantry, Attack: 150, DefInfantry: 50, DefCavalry: 75, Speed: 18, Capacity: 80, Cost: Resources{450, 515, 480, 80}, Upkeep: 3, TrainTime: 987},
	{Name: "Ram", Role: RoleRam, Attack: 65, DefInfantry: 30, DefCavalry: 80, Speed: 8, Capacity: 0, Cost: Resources{1000, 300, 350, 70}, Upkeep: 3, TrainTime: 1400},
	{Name: "Catapult", Role: RoleCatapult, Attack: 50, DefInfantry: 60, DefCavalry: 10, Speed: 6, Capacity: 0, Cost: Resources{900, 1200, 600, 60}, Upkeep: 6, TrainTime: 3000},
	{Name: "Chief", Role: RoleChief, Attack: 40, DefInfantry: 60, DefCavalry: 40, Speed: 8, Capacity: 0, Cost: Resources{35500, 26600, 25000, 27200}, Upkeep: 4, TrainTime: 23500},
	{Name: "Settler", Role: RoleSettler, Attack: 10, DefInfantry: 80, DefCavalry: 80, Speed: 10, Capacity: 3000, Cost: Resources{5800, 4400, 4600, 5200}, Upkeep: 1, TrainTime: 10333},
}

var gaulUnits = [TroopCount]UnitStats{
	{Name: "Phalanx", Role: RoleInfantry, Attack: 15, DefInfantry: 40, DefCavalry: 50, Speed: 14, Capacity: 35, Cost: Resources{100, 130, 55, 30}, Upkeep: 1, TrainTime: 347},
	{Name: "Swordsman", Role: RoleInfantry, Attack: 65, DefInfantry: 35, DefCavalry: 20, Speed: 12, Capacity: 45, Cost: Resources{140, 150, 185, 60}, Upkeep: 1, TrainTime: 480},
	{Name: "Pathfinder", Role: RoleScout, Attack: 0, DefInfantry: 20, DefCavalry: 10, Speed: 34, Capacity: 0, Cost: Resources{170, 150, 20, 40}, Upkeep: 2, TrainTime: 75},
	{Name: "Theutates Thunder", Role: RoleCavalry, Attack: 100, DefInfantry: 25, DefCavalry: 40, Speed: 38, Capacity: 75, Cost: Resources{350, 450, 230, 60}, Upkeep: 2, TrainTime: 827},
	{Name: "Druidrider", Role: RoleCavalry, Attack: 45, DefInfantry: 115, DefCavalry: 55, Speed: 32, Capacity: 35, Cost: Resources{360, 330, 280, 120}, Upkeep: 2, TrainTime: 853},
	{Name: "Haeduan", Role: RoleCavalry, Attack: 140, DefInfantry: 60, DefCavalry: 165, Speed: 26, Capacity: 65, Cost: Resources{500, 620, 675, 170}, Upkeep: 3, TrainTime: 1040},
	{Name: "Ram", Role: RoleRam, Attack: 50, DefInfantry: 30, DefCavalry: 105, Speed: 8, Capacity: 0, Cost: Resources{950, 555, 330, 75}, Upkeep: 3, TrainTime: 1667},
	{Name: "Trebuchet", Role: RoleCatapult, Attack: 70, DefInfantry: 45, DefCavalry: 10, Speed: 6, Capacity: 0, Cost: Resources{960, 1450, 630, 90}, Upkeep: 6, TrainTime: 3000},
	{Name: "Chieftain", Role: RoleChief, Attack: 40, DefInfantry: 50, DefCavalry: 50, Speed: 10, Capacity: 0, Cost: Resources{15880, 22900, 25200, 22660}, Upkeep: 4, TrainTime: 30233},
	{Name: "Settler", Role: RoleSettler, Attack: 0, DefInfantry: 80, DefCavalry: 80, Speed: 10, Capacity: 3000, Cost: Resources{4400, 5600, 4200, 3900}, Upkeep: 1, TrainTime: 7567},
}

// Units 返回该阵营的兵种表。非法阵营返回条顿表兜底。
func (t Tribe) Units() *[TroopCount]UnitStats {
	switch t {
	case TribeRoman:
		return &romanUnits
	case TribeGaul:
		return &gaulUnits
	default:
		return &teutonUnits
	}
}

// UnitIndexByRole 返回该阵营兵种表里第一个指定定位的下标。
// 高卢的侦察兵在第 3 格而不是第 4 格，所以按定位查而不是写死下标。
func (t Tribe) UnitIndexByRole(role UnitRole) (int, bool) {
	units := t.Units()
	for i := range units {
		if units[i].Role == role {
			return i, true
		}
	}
	return 0, false
}

// WallDefenseFactor 城墙百分比加成：罗马 5%/级，条顿 2.5%/级，高卢 3%/级。
func (t Tribe) WallDefenseFactor(level uint8) float64 {
	switch t {
	case TribeRoman:
		return 1.0 + float64(level)*0.05
	case TribeTeuton:
		return 1.0 + float64(level)*0.025
	default:
		return 1.0 + float64(level)*0.03
	}
}

// WallStrengthFactor 攻城锤结算里城墙耐久的阵营系数。
func (t Tribe) WallStrengthFactor() float64 {
	switch t {
	case TribeRoman:
		return 2.0
	case TribeTeuton:
		return 1.67
	default:
		return 1.75
	}
}
