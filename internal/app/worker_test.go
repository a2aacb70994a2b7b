package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AgeOfTribes/internal/app"
	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/infra/memory"
	"AgeOfTribes/internal/job"
)

type recordingSink struct {
	mu      sync.Mutex
	reports []*app.BattleReport
}

func (s *recordingSink) SaveBattleReport(ctx context.Context, r *app.BattleReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	players []int64
}

func (n *recordingNotifier) NotifyReport(playerID, reportID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.players = append(n.players, playerID)
}

type workerFixture struct {
	*fixture
	sink     *recordingSink
	notifier *recordingNotifier
	worker   *app.Worker
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()
	f := newFixture(t)
	wf := &workerFixture{
		fixture:  f,
		sink:     &recordingSink{},
		notifier: &recordingNotifier{},
	}
	provider := memory.NewProvider(f.store)
	resolver := app.NewResolver(provider, f.newID, nopLogger{}, wf.sink, wf.notifier, 1, 100)
	wf.worker = app.NewWorker(provider, resolver, nopLogger{}, f.clock, time.Second, 32, 3, 30*time.Second, 5*time.Minute)
	return wf
}

func (f *workerFixture) putJob(t *testing.T, taskType job.TaskType, playerID, villageID int64, payload any, due time.Time) *job.Job {
	t.Helper()
	raw, err := job.EncodePayload(payload)
	if err != nil {
		t.Fatalf("负载编码失败: %v", err)
	}
	j := job.New(f.newID(), playerID, villageID, taskType, raw, due)
	f.store.PutJob(j)
	return j
}

func TestWorker_掠夺全程结算(t *testing.T) {
	f := newWorkerFixture(t)
	// 村 1 库存压低，回程入库时不会溢出
	v1, _ := f.store.Village(1)
	v1.Stocks = game.Resources{Lumber: 100, Clay: 100, Iron: 100, Crop: 100}
	f.store.PutVillage(v1)

	raider := game.NewArmy(100, 1, 1, game.TribeRoman, game.TroopSet{15}, game.SmithyLevels{})
	raider.MoveTo(2)
	f.store.PutArmy(raider)
	attack := f.putJob(t, job.TaskAttack, 1, 2, job.AttackPayload{
		ArmyID: 100, TargetVillageID: 2, Mode: game.ModeRaid,
	}, f.now)

	f.worker.Tick(context.Background())

	done, _ := f.store.Job(attack.ID)
	if done.Status != job.StatusCompleted {
		t.Fatalf("进攻任务应完成，得到 %s", done.Status)
	}
	// 空村无守军：攻方零伤亡，15 个军团兵运力 750
	v2, _ := f.store.Village(2)
	if got := v2.Stocks.Total(); got != 2600-750 {
		t.Fatalf("守方库存应被掠走 750，剩 %d", got)
	}
	back, _ := f.store.Army(100)
	if back.Units != (game.TroopSet{15}) || back.Location != nil || !back.Transit {
		t.Fatalf("掠夺军队应无损回程: %+v", back)
	}

	var ret *job.Job
	for _, j := range f.store.Jobs() {
		if j.Type == job.TaskArmyReturn && j.Status == job.StatusPending {
			ret = j
		}
	}
	if ret == nil {
		t.Fatalf("应入队回村任务")
	}
	if want := f.now.Add(1500 * time.Second); !ret.DueAt.Equal(want) {
		t.Fatalf("回程到期应为 %v，得到 %v", want, ret.DueAt)
	}

	if len(f.sink.reports) != 1 {
		t.Fatalf("应写一份战报，得到 %d", len(f.sink.reports))
	}
	rpt := f.sink.reports[0]
	if !rpt.VisibleTo(1) || !rpt.VisibleTo(2) {
		t.Fatalf("攻守双方都应可见战报: %+v", rpt.Audiences)
	}
	if rpt.AttackerName != "罗慕路斯" || rpt.DefenderName != "维钦托利" {
		t.Fatalf("战报表头应带双方玩家名: %q vs %q", rpt.AttackerName, rpt.DefenderName)
	}
	if len(f.notifier.players) != 2 {
		t.Fatalf("攻守双方都应收到推送，得到 %v", f.notifier.players)
	}

	// 推进到回程时刻，军队并入驻防并卸下战利品
	f.now = f.now.Add(1500 * time.Second)
	f.worker.Tick(context.Background())

	if _, ok := f.store.Army(100); ok {
		t.Fatalf("回村军队应并入原驻军")
	}
	home, _ := f.store.Army(10)
	if home.Units != (game.TroopSet{35, 10}) {
		t.Fatalf("合并后驻军应为 [35,10]: %+v", home.Units)
	}
	v1, _ = f.store.Village(1)
	if got := v1.Stocks.Total(); got != 400+750 {
		t.Fatalf("战利品应入库，库存总量 %d", got)
	}
}

func TestWorker_侦察得手不通知守方(t *testing.T) {
	f := newWorkerFixture(t)
	// 罗马侦察兵是第 4 个兵种
	scouts := game.NewArmy(100, 1, 1, game.TribeRoman, game.TroopSet{0, 0, 0, 5}, game.SmithyLevels{})
	scouts.MoveTo(2)
	f.store.PutArmy(scouts)
	f.putJob(t, job.TaskScout, 1, 2, job.ScoutPayload{ArmyID: 100, TargetVillageID: 2}, f.now)

	f.worker.Tick(context.Background())

	back, _ := f.store.Army(100)
	if back.Units != (game.TroopSet{0, 0, 0, 5}) {
		t.Fatalf("侦察不应折损兵力: %+v", back.Units)
	}
	if len(f.sink.reports) != 1 {
		t.Fatalf("应写一份侦察报告")
	}
	rpt := f.sink.reports[0]
	if !rpt.VisibleTo(1) || rpt.VisibleTo(2) {
		t.Fatalf("未被察觉的侦察只有攻方可见: %+v", rpt.Audiences)
	}
	if rpt.RevealedStocks == nil {
		t.Fatalf("得手的侦察应带回库存情报")
	}
}

func TestWorker_士气压制看军队自身人口(t *testing.T) {
	f := newWorkerFixture(t)
	// 出发村人口极高：若士气误用村庄人口，600 攻击值会被压到 239，不敌 400 防御
	v1, _ := f.store.Village(1)
	v1.Population = 10000
	f.store.PutVillage(v1)
	f.store.PutArmy(game.NewArmy(20, 2, 2, game.TribeGaul, game.TroopSet{10}, game.SmithyLevels{}))

	raider := game.NewArmy(100, 1, 1, game.TribeRoman, game.TroopSet{15}, game.SmithyLevels{})
	raider.MoveTo(2)
	f.store.PutArmy(raider)
	f.putJob(t, job.TaskAttack, 1, 2, job.AttackPayload{
		ArmyID: 100, TargetVillageID: 2, Mode: game.ModeRaid,
	}, f.now)

	f.worker.Tick(context.Background())

	// 军队自身人口 15 低于守方 100，不触发士气压制：600 攻 vs 400 防，攻方胜
	if len(f.sink.reports) != 1 {
		t.Fatalf("应写一份战报")
	}
	if got := f.sink.reports[0].Result.Winner; got != game.SideAttacker {
		t.Fatalf("攻方应获胜，得到 %v", got)
	}
}

func TestWorker_随军英雄战后档案落库(t *testing.T) {
	f := newWorkerFixture(t)
	raider := game.NewArmy(100, 1, 1, game.TribeRoman, game.TroopSet{15}, game.SmithyLevels{})
	raider.Hero = game.NewHero(7, 1, 1)
	raider.MoveTo(2)
	f.store.PutArmy(raider)
	f.putJob(t, job.TaskAttack, 1, 2, job.AttackPayload{
		ArmyID: 100, TargetVillageID: 2, Mode: game.ModeRaid,
	}, f.now)

	f.worker.Tick(context.Background())

	h, ok := f.store.Hero(7)
	if !ok {
		t.Fatalf("战后应同步英雄独立档案")
	}
	if h.Health != 100 {
		t.Fatalf("空村零战损，英雄应满血，得到 %d", h.Health)
	}
	back, _ := f.store.Army(100)
	if back.Hero == nil {
		t.Fatalf("存活英雄应随军回程")
	}
}

func TestWorker_援军抵达转驻防(t *testing.T) {
	f := newWorkerFixture(t)
	reinf := game.NewArmy(100, 1, 1, game.TribeRoman, game.TroopSet{0, 8}, game.SmithyLevels{})
	reinf.MoveTo(2)
	f.store.PutArmy(reinf)
	f.putJob(t, job.TaskReinforcement, 1, 2, job.ReinforcementPayload{ArmyID: 100, TargetVillageID: 2}, f.now)

	f.worker.Tick(context.Background())

	a, _ := f.store.Army(100)
	if a.State() != game.ArmyReinforcing {
		t.Fatalf("援军抵达后应转入驻防态，得到 %v", a.State())
	}
	garrison := f.store.ArmiesAt(2)
	if len(garrison) != 1 || garrison[0].ID != 100 {
		t.Fatalf("目标村应有该驻军: %+v", garrison)
	}
}

func TestWorker_业务拒绝判终态失败(t *testing.T) {
	f := newWorkerFixture(t)
	bad := f.putJob(t, job.TaskAttack, 1, 2, job.AttackPayload{
		ArmyID: 999, TargetVillageID: 2, Mode: game.ModeNormal,
	}, f.now)

	f.worker.Tick(context.Background())

	j, _ := f.store.Job(bad.ID)
	if j.Status != job.StatusFailed {
		t.Fatalf("军队缺失应判终态失败，得到 %s", j.Status)
	}
	if j.FailReason == "" {
		t.Fatalf("终态失败应记录原因")
	}
	if j.Attempts != 0 {
		t.Fatalf("业务拒绝不应计入重试次数，得到 %d", j.Attempts)
	}
}

// begin 一直失败的事务提供者，模拟数据库不可用。
type downProvider struct{}

func (downProvider) Begin(ctx context.Context) (app.UnitOfWork, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestWorker_基础设施故障按退避重试(t *testing.T) {
	f := newWorkerFixture(t)
	resolver := app.NewResolver(downProvider{}, f.newID, nopLogger{}, f.sink, f.notifier, 1, 100)
	worker := app.NewWorker(memory.NewProvider(f.store), resolver, nopLogger{}, f.clock,
		time.Second, 32, 2, 30*time.Second, 5*time.Minute)

	tsk := f.putJob(t, job.TaskMerchantReturn, 1, 1, job.MerchantReturnPayload{VillageID: 1, Merchants: 1}, f.now)

	worker.Tick(context.Background())

	j, _ := f.store.Job(tsk.ID)
	if j.Status != job.StatusPending || j.Attempts != 1 {
		t.Fatalf("首次故障应重排队: status=%s attempts=%d", j.Status, j.Attempts)
	}
	if want := tsk.DueAt.Add(30 * time.Second); !j.DueAt.Equal(want) {
		t.Fatalf("重排队应按退避推迟到期，得到 %v", j.DueAt)
	}

	// 推进到重试时刻，再次故障触顶转终态
	f.now = j.DueAt
	worker.Tick(context.Background())

	j, _ = f.store.Job(tsk.ID)
	if j.Status != job.StatusFailed || j.Attempts != 2 {
		t.Fatalf("触顶后应判终态失败: status=%s attempts=%d", j.Status, j.Attempts)
	}
}

func TestClaimDue_重复认领只交付一次(t *testing.T) {
	f := newWorkerFixture(t)
	f.putJob(t, job.TaskMerchantReturn, 1, 1, job.MerchantReturnPayload{VillageID: 1, Merchants: 1}, f.now)
	provider := memory.NewProvider(f.store)

	claim := func() int {
		uow, err := provider.Begin(context.Background())
		if err != nil {
			t.Fatalf("begin 失败: %v", err)
		}
		defer uow.Rollback()
		tasks, err := uow.Jobs().ClaimDue(context.Background(), f.now, 5*time.Minute, 10)
		if err != nil {
			t.Fatalf("认领失败: %v", err)
		}
		if err := uow.Commit(); err != nil {
			t.Fatalf("commit 失败: %v", err)
		}
		return len(tasks)
	}

	if got := claim(); got != 1 {
		t.Fatalf("首次认领应得 1 条，得到 %d", got)
	}
	if got := claim(); got != 0 {
		t.Fatalf("二次认领应得 0 条，得到 %d", got)
	}
}

func TestClaimDue_租约超时重新交付(t *testing.T) {
	f := newWorkerFixture(t)
	tsk := f.putJob(t, job.TaskMerchantReturn, 1, 1, job.MerchantReturnPayload{VillageID: 1, Merchants: 1}, f.now)
	provider := memory.NewProvider(f.store)
	const lease = 30 * time.Second

	claim := func(now time.Time) []*job.Job {
		uow, err := provider.Begin(context.Background())
		if err != nil {
			t.Fatalf("begin 失败: %v", err)
		}
		defer uow.Rollback()
		tasks, err := uow.Jobs().ClaimDue(context.Background(), now, lease, 10)
		if err != nil {
			t.Fatalf("认领失败: %v", err)
		}
		if err := uow.Commit(); err != nil {
			t.Fatalf("commit 失败: %v", err)
		}
		return tasks
	}

	// 认领后工人崩溃：任务滞留 Processing，租约内不重复交付
	if got := claim(f.now); len(got) != 1 {
		t.Fatalf("首次认领应得 1 条，得到 %d", len(got))
	}
	if got := claim(f.now.Add(lease - time.Second)); len(got) != 0 {
		t.Fatalf("租约内不应重新交付，得到 %d 条", len(got))
	}

	// 租约到期后回收重新交付
	got := claim(f.now.Add(lease))
	if len(got) != 1 || got[0].ID != tsk.ID {
		t.Fatalf("租约超时应重新交付原任务，得到 %+v", got)
	}
	if got[0].Status != job.StatusProcessing {
		t.Fatalf("重新交付的任务应处于 Processing，得到 %s", got[0].Status)
	}
}

func TestClaimDue_并发认领恰好一次(t *testing.T) {
	f := newWorkerFixture(t)
	const total = 50
	for i := 0; i < total; i++ {
		f.putJob(t, job.TaskMerchantReturn, 1, 1, job.MerchantReturnPayload{VillageID: 1, Merchants: 1}, f.now)
	}
	provider := memory.NewProvider(f.store)

	var mu sync.Mutex
	seen := make(map[int64]int)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				uow, err := provider.Begin(context.Background())
				if err != nil {
					return
				}
				tasks, err := uow.Jobs().ClaimDue(context.Background(), f.now, 5*time.Minute, 5)
				if err != nil || len(tasks) == 0 {
					uow.Rollback()
					return
				}
				uow.Commit()
				mu.Lock()
				for _, tk := range tasks {
					seen[tk.ID]++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != total {
		t.Fatalf("应恰好认领 %d 条，得到 %d", total, len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("任务 %d 被重复认领 %d 次", id, n)
		}
	}
}
