package app_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"AgeOfTribes/internal/app"
	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/infra/memory"
	"AgeOfTribes/internal/job"

	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) WithContext(ctx context.Context) app.Logger { return nopLogger{} }
func (nopLogger) Info(msg string, fields ...zap.Field)       {}
func (nopLogger) Error(msg string, fields ...zap.Field)      {}
func (nopLogger) Debug(msg string, fields ...zap.Field)      {}
func (nopLogger) Warn(msg string, fields ...zap.Field)       {}

type fixture struct {
	store *memory.Store
	svc   *app.GameService
	now   time.Time
	next  *atomic.Int64
}

// 两村对局：1 号村罗马（玩家 1，原点），2 号村高卢（玩家 2，(3,4)），相距 5 格。
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutPlayer(&game.Player{ID: 1, Name: "罗慕路斯", Tribe: game.TribeRoman})
	store.PutPlayer(&game.Player{ID: 2, Name: "维钦托利", Tribe: game.TribeGaul})
	store.PutVillage(&game.Village{
		ID: 1, PlayerID: 1, Name: "罗马村", Tribe: game.TribeRoman,
		Position: game.Position{X: 0, Y: 0},
		Stocks:   game.Resources{Lumber: 700, Clay: 700, Iron: 700, Crop: 700},
		Population: 100, Loyalty: 100, Merchants: 3,
	})
	store.PutVillage(&game.Village{
		ID: 2, PlayerID: 2, Name: "高卢村", Tribe: game.TribeGaul,
		Position: game.Position{X: 3, Y: 4},
		Stocks:   game.Resources{Lumber: 800, Clay: 800, Iron: 500, Crop: 500},
		Population: 100, Loyalty: 100,
	})
	store.PutArmy(game.NewArmy(10, 1, 1, game.TribeRoman, game.TroopSet{20, 10}, game.SmithyLevels{}))

	f := &fixture{
		store: store,
		now:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		next:  &atomic.Int64{},
	}
	f.next.Store(1000)
	f.svc = app.NewGameService(memory.NewProvider(store), f.newID, f.clock, nopLogger{}, 1, 100)
	return f
}

func (f *fixture) newID() int64     { return f.next.Add(1) }
func (f *fixture) clock() time.Time { return f.now }

func TestAttackVillage_出征扣兵并入队(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.AttackVillage(context.Background(), app.AttackVillageCmd{
		PlayerID: 1, FromVillageID: 1, TargetVillageID: 2,
		Units: game.TroopSet{10}, Mode: game.ModeNormal,
	})
	if err != nil {
		t.Fatalf("出征失败: %v", err)
	}

	home, ok := f.store.Army(10)
	if !ok || home.Units != (game.TroopSet{10, 10}) {
		t.Fatalf("留守兵力应为 [10,10]: %+v", home)
	}
	depart, ok := f.store.Army(1001)
	if !ok {
		t.Fatalf("应铸造出征军队记录")
	}
	if depart.Units != (game.TroopSet{10}) || !depart.Transit || depart.Location == nil || *depart.Location != 2 {
		t.Fatalf("出征军队状态错误: %+v", depart)
	}

	jb, ok := f.store.Job(got.JobID)
	if !ok || jb.Type != job.TaskAttack || jb.Status != job.StatusPending {
		t.Fatalf("任务入队错误: %+v", jb)
	}
	// 距离 5 格，步兵 12 格/时 → 1500 秒
	if want := f.now.Add(1500 * time.Second); !jb.DueAt.Equal(want) {
		t.Fatalf("到期时间应为 %v，得到 %v", want, jb.DueAt)
	}
}

func TestAttackVillage_空子集应被拒绝(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AttackVillage(context.Background(), app.AttackVillageCmd{
		PlayerID: 1, FromVillageID: 1, TargetVillageID: 2, Mode: game.ModeRaid,
	})
	if err == nil {
		t.Fatalf("全零兵力应被拒绝")
	}
	if len(f.store.Jobs()) != 0 {
		t.Fatalf("拒绝的命令不应入队")
	}
}

func TestAttackVillage_他人村庄应被拒绝(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AttackVillage(context.Background(), app.AttackVillageCmd{
		PlayerID: 2, FromVillageID: 1, TargetVillageID: 2,
		Units: game.TroopSet{5}, Mode: game.ModeNormal,
	})
	if err == nil {
		t.Fatalf("非村主出征应被拒绝")
	}
}

func TestScoutVillage_无侦察兵应被拒绝(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ScoutVillage(context.Background(), app.ScoutVillageCmd{
		PlayerID: 1, FromVillageID: 1, TargetVillageID: 2,
		Units: game.TroopSet{5},
	})
	if err == nil {
		t.Fatalf("不带侦察兵的侦察应被拒绝")
	}
	// 拒绝后兵力保持不变
	home, _ := f.store.Army(10)
	if home.Units != (game.TroopSet{20, 10}) {
		t.Fatalf("拒绝的命令不应改动兵力: %+v", home.Units)
	}
}

func TestRecallTroops_全量撤回不铸新记录(t *testing.T) {
	f := newFixture(t)
	garrison := game.NewArmy(30, 1, 1, game.TribeRoman, game.TroopSet{20, 10}, game.SmithyLevels{})
	garrison.MoveTo(2)
	garrison.Arrive()
	f.store.PutArmy(garrison)

	got, err := f.svc.RecallTroops(context.Background(), app.RecallTroopsCmd{
		PlayerID: 1, ArmyID: 30, Units: game.TroopSet{20, 10},
	})
	if err != nil {
		t.Fatalf("撤回失败: %v", err)
	}

	back, ok := f.store.Army(30)
	if !ok {
		t.Fatalf("原记录应保留")
	}
	if back.Location != nil || !back.Transit {
		t.Fatalf("全量撤回应清空位置并回程: %+v", back)
	}
	if len(f.store.ArmiesAt(2)) != 0 {
		t.Fatalf("目标村不应再有驻军")
	}
	jb, _ := f.store.Job(got.JobID)
	if jb.Type != job.TaskArmyReturn {
		t.Fatalf("应入队回村任务，得到 %s", jb.Type)
	}
}

func TestReleaseReinforcements_部分遣返拆分新记录(t *testing.T) {
	f := newFixture(t)
	garrison := game.NewArmy(30, 1, 1, game.TribeRoman, game.TroopSet{20, 10}, game.SmithyLevels{})
	garrison.MoveTo(2)
	garrison.Arrive()
	f.store.PutArmy(garrison)

	_, err := f.svc.ReleaseReinforcements(context.Background(), app.ReleaseReinforcementsCmd{
		PlayerID: 2, VillageID: 2, ArmyID: 30, Units: game.TroopSet{5},
	})
	if err != nil {
		t.Fatalf("遣返失败: %v", err)
	}

	stay, _ := f.store.Army(30)
	if stay.Units != (game.TroopSet{15, 10}) {
		t.Fatalf("留驻兵力应为 [15,10]: %+v", stay.Units)
	}
	if stay.Transit || stay.Location == nil || *stay.Location != 2 {
		t.Fatalf("留驻记录不应移动: %+v", stay)
	}
	depart, ok := f.store.Army(1001)
	if !ok || depart.Units != (game.TroopSet{5}) || !depart.Transit {
		t.Fatalf("应拆分出回程记录 [5]: %+v", depart)
	}
}

func TestReleaseReinforcements_全零子集应被拒绝(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ReleaseReinforcements(context.Background(), app.ReleaseReinforcementsCmd{
		PlayerID: 2, VillageID: 2, ArmyID: 30,
	})
	if err == nil {
		t.Fatalf("全零子集应被拒绝")
	}
}

func TestRecallTroops_非所有者应被拒绝(t *testing.T) {
	f := newFixture(t)
	garrison := game.NewArmy(30, 1, 1, game.TribeRoman, game.TroopSet{20}, game.SmithyLevels{})
	garrison.MoveTo(2)
	garrison.Arrive()
	f.store.PutArmy(garrison)

	_, err := f.svc.RecallTroops(context.Background(), app.RecallTroopsCmd{
		PlayerID: 2, ArmyID: 30, Units: game.TroopSet{20},
	})
	if err == nil {
		t.Fatalf("他人军队不可撤回")
	}
}

func TestTrainUnits_扣费并入队(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.TrainUnits(context.Background(), app.TrainUnitsCmd{
		PlayerID: 1, VillageID: 1, UnitIndex: 0, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("训练失败: %v", err)
	}
	v, _ := f.store.Village(1)
	// 罗马步兵 {120,100,150,30} ×2
	if v.Stocks.Lumber != 460 || v.Stocks.Iron != 400 {
		t.Fatalf("训练费用扣减错误: %+v", v.Stocks)
	}
	jb, _ := f.store.Job(got.JobID)
	if jb.Type != job.TaskTrainUnits {
		t.Fatalf("应入队训练任务")
	}
}

func TestTrainUnits_资源不足应被拒绝(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.TrainUnits(context.Background(), app.TrainUnitsCmd{
		PlayerID: 1, VillageID: 1, UnitIndex: 0, Quantity: 100,
	})
	if err == nil {
		t.Fatalf("资源不足应被拒绝")
	}
	v, _ := f.store.Village(1)
	if v.Stocks.Lumber != 700 {
		t.Fatalf("拒绝的命令不应扣资源: %+v", v.Stocks)
	}
}

func TestTrainUnits_未研发兵种应被拒绝(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.TrainUnits(context.Background(), app.TrainUnitsCmd{
		PlayerID: 1, VillageID: 1, UnitIndex: 5, Quantity: 1,
	})
	if !errors.Is(err, game.ErrUnresearchedUnit) {
		t.Fatalf("未研发兵种应被拒绝: %v", err)
	}
	v, _ := f.store.Village(1)
	if v.Stocks.Lumber != 700 {
		t.Fatalf("拒绝的命令不应扣资源: %+v", v.Stocks)
	}
}

func TestUpgradeBuilding_空槽位新建一级(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.UpgradeBuilding(context.Background(), app.UpgradeBuildingCmd{
		PlayerID: 1, VillageID: 1, Slot: 25, Building: game.BuildingCranny,
	})
	if err != nil {
		t.Fatalf("建造失败: %v", err)
	}
	jb, _ := f.store.Job(got.JobID)
	var p job.BuildingUpgradePayload
	if err := jb.DecodePayload(&p); err != nil {
		t.Fatalf("负载解码失败: %v", err)
	}
	if p.Building != game.BuildingCranny || p.ToLevel != 1 {
		t.Fatalf("新建负载错误: %+v", p)
	}
}

func TestSendResources_商人不足应被拒绝(t *testing.T) {
	f := newFixture(t)
	// 罗马商人单次 500，2000 货量需要 4 个，只有 3 个
	_, err := f.svc.SendResources(context.Background(), app.SendResourcesCmd{
		PlayerID: 1, FromVillageID: 1, ToVillageID: 2,
		Cargo: game.Resources{Lumber: 500, Clay: 500, Iron: 500, Crop: 500},
	})
	if err == nil {
		t.Fatalf("商人不足应被拒绝")
	}
}

func TestSendResources_大宗货物商人需求不回绕(t *testing.T) {
	f := newFixture(t)
	// 128000 货量需要 256 个商人，窄化为 uint8 会回绕成 0
	v, _ := f.store.Village(1)
	v.Stocks = game.Resources{Lumber: 64000, Clay: 64000}
	f.store.PutVillage(v)

	_, err := f.svc.SendResources(context.Background(), app.SendResourcesCmd{
		PlayerID: 1, FromVillageID: 1, ToVillageID: 2,
		Cargo: game.Resources{Lumber: 64000, Clay: 64000},
	})
	if !errors.Is(err, game.ErrNoMerchantAvailable) {
		t.Fatalf("商人不足应被拒绝: %v", err)
	}
	after, _ := f.store.Village(1)
	if after.BusyMerchants != 0 || after.Stocks.Lumber != 64000 {
		t.Fatalf("拒绝的命令不应占用商人或扣库存: busy=%d stocks=%+v", after.BusyMerchants, after.Stocks)
	}
}

func TestSendResources_占用商人并扣库存(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SendResources(context.Background(), app.SendResourcesCmd{
		PlayerID: 1, FromVillageID: 1, ToVillageID: 2,
		Cargo: game.Resources{Lumber: 600, Clay: 300},
	})
	if err != nil {
		t.Fatalf("运送失败: %v", err)
	}
	v, _ := f.store.Village(1)
	if v.BusyMerchants != 2 {
		t.Fatalf("应占用 2 个商人，得到 %d", v.BusyMerchants)
	}
	if v.Stocks.Lumber != 100 || v.Stocks.Clay != 400 {
		t.Fatalf("库存扣减错误: %+v", v.Stocks)
	}
}
