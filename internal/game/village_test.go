package game

import (
	"errors"
	"testing"
	"time"
)

func newTestVillage() *Village {
	v := &Village{
		ID:       1,
		PlayerID: 1,
		Name:     "测试村",
		Tribe:    TribeRoman,
		Position: Position{X: 0, Y: 0},
		Stocks:   Resources{Lumber: 500, Clay: 500, Iron: 500, Crop: 500},
	}
	// 四类各一块 5 级资源田
	v.Buildings = []Building{
		{Slot: 1, Type: BuildingWoodcutter, Level: 5},
		{Slot: 2, Type: BuildingClayPit, Level: 5},
		{Slot: 3, Type: BuildingIronMine, Level: 5},
		{Slot: 4, Type: BuildingCropland, Level: 5},
		{Slot: SlotMain, Type: BuildingMain, Level: 3},
	}
	return v
}

func TestTick_按田等级与时间累积(t *testing.T) {
	v := newTestVillage()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v.StocksAt = base

	v.Tick(base.Add(time.Hour), 1)
	// 5 级田每小时 33
	want := Resources{Lumber: 533, Clay: 533, Iron: 533, Crop: 533}
	if v.Stocks != want {
		t.Fatalf("一小时后库存应为 %+v，得到 %+v", want, v.Stocks)
	}
}

func TestTick_世界倍速线性放大(t *testing.T) {
	v := newTestVillage()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v.StocksAt = base

	v.Tick(base.Add(time.Hour), 2)
	if v.Stocks.Lumber != 566 {
		t.Fatalf("2 倍速一小时应累积 66，得到 %d", v.Stocks.Lumber-500)
	}
}

func TestTick_库存按仓库容量截断(t *testing.T) {
	v := newTestVillage()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v.StocksAt = base

	v.Tick(base.Add(100*time.Hour), 10)
	// 无仓库时容量兜底 800
	if v.Stocks.Lumber != 800 || v.Stocks.Crop != 800 {
		t.Fatalf("库存应被容量 800 截断: %+v", v.Stocks)
	}
}

func TestTick_时间倒流不产出(t *testing.T) {
	v := newTestVillage()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v.StocksAt = base

	v.Tick(base.Add(-time.Hour), 1)
	if v.Stocks != (Resources{Lumber: 500, Clay: 500, Iron: 500, Crop: 500}) {
		t.Fatalf("时钟回拨不应产出资源: %+v", v.Stocks)
	}
}

func TestSpendResources_不足时返回缺口且不扣减(t *testing.T) {
	v := newTestVillage()
	err := v.SpendResources(Resources{Lumber: 600, Clay: 100})
	var insufficient *InsufficientResourcesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("期望资源不足错误，得到 %v", err)
	}
	if insufficient.Missing.Lumber != 100 {
		t.Fatalf("木材缺口应为 100，得到 %d", insufficient.Missing.Lumber)
	}
	if v.Stocks.Clay != 500 {
		t.Fatalf("校验失败不应部分扣减: %+v", v.Stocks)
	}
}

func TestSpendResources_足额时全部扣减(t *testing.T) {
	v := newTestVillage()
	if err := v.SpendResources(Resources{Lumber: 100, Clay: 200, Iron: 300, Crop: 400}); err != nil {
		t.Fatalf("扣减失败: %v", err)
	}
	if v.Stocks != (Resources{Lumber: 400, Clay: 300, Iron: 200, Crop: 100}) {
		t.Fatalf("扣减结果错误: %+v", v.Stocks)
	}
}

func TestCrannyProtection_藏兵洞逐级放大且可叠加(t *testing.T) {
	v := newTestVillage()
	v.Buildings = append(v.Buildings,
		Building{Slot: 20, Type: BuildingCranny, Level: 1},
		Building{Slot: 21, Type: BuildingCranny, Level: 3},
	)
	// 100 + 100*1.3^2 = 269
	if got := v.CrannyProtection(); got != 269 {
		t.Fatalf("保护量应为 269，得到 %d", got)
	}
	un := v.UnprotectedStocks()
	if un.Lumber != 231 {
		t.Fatalf("未保护木材应为 231，得到 %d", un.Lumber)
	}
}

func TestSetBuildingLevel_非资源田降到零即拆除(t *testing.T) {
	v := newTestVillage()
	if err := v.SetBuildingLevel(SlotMain, 0); err != nil {
		t.Fatalf("设置失败: %v", err)
	}
	if _, ok := v.BuildingAt(SlotMain); ok {
		t.Fatalf("主楼降到 0 级后应被拆除")
	}

	// 资源田降到 0 仍保留槽位
	if err := v.SetBuildingLevel(1, 0); err != nil {
		t.Fatalf("设置失败: %v", err)
	}
	if b, ok := v.BuildingAt(1); !ok || b.Level != 0 {
		t.Fatalf("资源田应保留为 0 级: %+v ok=%v", b, ok)
	}
}

func TestAddBuilding_占用槽位应被拒绝(t *testing.T) {
	v := newTestVillage()
	if err := v.AddBuilding(SlotMain, BuildingBarracks); err != ErrSlotOccupied {
		t.Fatalf("期望 ErrSlotOccupied，得到 %v", err)
	}
	if err := v.AddBuilding(25, BuildingBarracks); err != nil {
		t.Fatalf("空槽位新建失败: %v", err)
	}
}

func TestStoreResources_入库溢出部分丢弃(t *testing.T) {
	v := newTestVillage()
	v.StoreResources(Resources{Lumber: 10000})
	if v.Stocks.Lumber != 800 {
		t.Fatalf("入库应按容量截断到 800，得到 %d", v.Stocks.Lumber)
	}
}

func TestAvailableMerchants_忙碌商人不可用(t *testing.T) {
	v := newTestVillage()
	v.Merchants = 5
	v.BusyMerchants = 3
	if got := v.AvailableMerchants(); got != 2 {
		t.Fatalf("空闲商人应为 2，得到 %d", got)
	}
	v.BusyMerchants = 7
	if got := v.AvailableMerchants(); got != 0 {
		t.Fatalf("忙碌数超额时应为 0，得到 %d", got)
	}
}

func TestProductionPerHour_绿洲加成按资源独立生效(t *testing.T) {
	v := newTestVillage()
	v.OasisBonus = Resources{Lumber: 25, Crop: 50}
	prod := v.ProductionPerHour()
	// 5 级田基础 33：木材 +25% 取整 41，粮食 +50% 取整 49
	if prod.Lumber != 41 || prod.Crop != 49 {
		t.Fatalf("绿洲加成产量错误: %+v", prod)
	}
	if prod.Clay != 33 || prod.Iron != 33 {
		t.Fatalf("无加成资源不应变化: %+v", prod)
	}
}

func TestResearched_首格免研发其余看学院标记(t *testing.T) {
	v := newTestVillage()
	if !v.Researched(0) {
		t.Fatalf("首格兵种应天生可训练")
	}
	if v.Researched(5) {
		t.Fatalf("未研发兵种不可训练")
	}
	v.Research[5] = true
	if !v.Researched(5) {
		t.Fatalf("研发后应可训练")
	}
	if v.Researched(-1) || v.Researched(TroopCount) {
		t.Fatalf("越界下标应视为未研发")
	}
}
