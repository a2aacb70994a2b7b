package game

import (
	"reflect"
	"testing"
)

func legionnaires(n uint32) TroopSet {
	var s TroopSet
	s[0] = n
	return s
}

func macemen(n uint32) TroopSet {
	var s TroopSet
	s[0] = n
	return s
}

func TestResolveBattle_空军队出征应被拒绝(t *testing.T) {
	in := BattleInput{
		Mode:     ModeNormal,
		Attacker: NewArmy(1, 1, 1, TribeRoman, TroopSet{}, SmithyLevels{}),
	}
	if _, err := ResolveBattle(in); err != ErrNoUnitsSelected {
		t.Fatalf("期望 ErrNoUnitsSelected，得到 %v", err)
	}
}

func TestResolveBattle_相同输入结果完全一致(t *testing.T) {
	in := BattleInput{
		Mode:           ModeNormal,
		Attacker:       NewArmy(1, 1, 1, TribeRoman, TroopSet{30, 0, 10, 0, 5}, SmithyLevels{3, 0, 1}),
		AttackerPop:    200,
		Defenders:      []*Army{NewArmy(2, 2, 2, TribeTeuton, TroopSet{20, 15}, SmithyLevels{})},
		DefenderPop:    150,
		DefenderTribe:  TribeTeuton,
		WallLevel:      5,
		ResidenceLevel: 3,
	}
	a, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	b, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("两次结算结果不一致:\n%+v\n%+v", a, b)
	}
}

func TestResolveBattle_空村进攻攻方零伤亡(t *testing.T) {
	in := BattleInput{
		Mode:          ModeNormal,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, legionnaires(10), SmithyLevels{}),
		AttackerPop:   100,
		DefenderTribe: TribeGaul,
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if res.Winner != SideAttacker {
		t.Fatalf("空村应判攻方胜，得到 %v", res.Winner)
	}
	if res.Attacker.Survivors != legionnaires(10) {
		t.Fatalf("攻方不应有损失: %v", res.Attacker)
	}
	if res.AttackerLossRatio != 0 {
		t.Fatalf("攻方损失比例应为 0，得到 %v", res.AttackerLossRatio)
	}
}

func TestResolveBattle_攻防相等判守方胜(t *testing.T) {
	// 10 罗马步兵 400 攻 对 20 条顿棒兵 400 对步防，比值恰好为 1
	in := BattleInput{
		Mode:          ModeNormal,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, legionnaires(10), SmithyLevels{}),
		AttackerPop:   100,
		Defenders:     []*Army{NewArmy(2, 2, 2, TribeTeuton, macemen(20), SmithyLevels{})},
		DefenderPop:   100,
		DefenderTribe: TribeTeuton,
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if res.Winner != SideDefender {
		t.Fatalf("攻防相等时应判守方胜，得到 %v", res.Winner)
	}
}

func TestResolveBattle_守方全灭(t *testing.T) {
	in := BattleInput{
		Mode:          ModeNormal,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, legionnaires(1000), SmithyLevels{}),
		AttackerPop:   100,
		Defenders:     []*Army{NewArmy(2, 2, 2, TribeTeuton, macemen(1), SmithyLevels{})},
		DefenderPop:   100,
		DefenderTribe: TribeTeuton,
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if res.Winner != SideAttacker {
		t.Fatalf("压倒性进攻应判攻方胜，得到 %v", res.Winner)
	}
	if !res.DefendersWipedOut() {
		t.Fatalf("守方应全灭: %+v", res.Defenders)
	}
}

func TestResolveBattle_败方至少折损一个单位(t *testing.T) {
	in := BattleInput{
		Mode:          ModeNormal,
		Attacker:      NewArmy(1, 1, 1, TribeTeuton, macemen(1), SmithyLevels{}),
		AttackerPop:   10,
		Defenders:     []*Army{NewArmy(2, 2, 2, TribeGaul, TroopSet{500}, SmithyLevels{})},
		DefenderPop:   500,
		DefenderTribe: TribeGaul,
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if res.Winner != SideDefender {
		t.Fatalf("弱攻方应判守方胜，得到 %v", res.Winner)
	}
	if res.Attacker.Losses.Total() == 0 {
		t.Fatalf("败方损失不应向下取整到 0: %+v", res.Attacker)
	}
	if res.DefenderLossesTotal() != 0 {
		t.Fatalf("守方此战不应有损失: %+v", res.Defenders)
	}
}

func TestResolveBattle_人口压制削减攻方攻击值(t *testing.T) {
	base := BattleInput{
		Mode:          ModeNormal,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, legionnaires(50), SmithyLevels{}),
		AttackerPop:   100,
		Defenders:     []*Army{NewArmy(2, 2, 2, TribeTeuton, macemen(50), SmithyLevels{})},
		DefenderPop:   100,
		DefenderTribe: TribeTeuton,
	}
	even, err := ResolveBattle(base)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}

	crushing := base
	crushing.AttackerPop = 1000
	crushing.DefenderPop = 100
	reduced, err := ResolveBattle(crushing)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if reduced.AttackValue >= even.AttackValue {
		t.Fatalf("人口压制应削减攻击值: %v >= %v", reduced.AttackValue, even.AttackValue)
	}
}

func TestResolveBattle_掠夺战利品受运力封顶(t *testing.T) {
	// 15 罗马步兵共 750 运力，未保护库存 3000
	in := BattleInput{
		Mode:          ModeRaid,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, legionnaires(15), SmithyLevels{}),
		AttackerPop:   100,
		DefenderTribe: TribeGaul,
		Unprotected:   Resources{Lumber: 1000, Clay: 1000, Iron: 500, Crop: 500},
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if res.Bounty.Total() != 750 {
		t.Fatalf("战利品应等于运力 750，得到 %d", res.Bounty.Total())
	}
	if res.Bounty.Lumber > 1000 || res.Bounty.Clay > 1000 || res.Bounty.Iron > 500 || res.Bounty.Crop > 500 {
		t.Fatalf("战利品不应超过未保护库存: %+v", res.Bounty)
	}
}

func TestResolveBattle_掠夺战利品受库存封顶(t *testing.T) {
	in := BattleInput{
		Mode:          ModeRaid,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, legionnaires(100), SmithyLevels{}),
		AttackerPop:   100,
		DefenderTribe: TribeGaul,
		Unprotected:   Resources{Lumber: 100, Clay: 100, Iron: 50, Crop: 50},
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if res.Bounty != (Resources{Lumber: 100, Clay: 100, Iron: 50, Crop: 50}) {
		t.Fatalf("运力充足时应掠走全部未保护库存，得到 %+v", res.Bounty)
	}
}

func TestResolveBattle_普通进攻不计战利品(t *testing.T) {
	in := BattleInput{
		Mode:          ModeNormal,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, legionnaires(100), SmithyLevels{}),
		AttackerPop:   100,
		DefenderTribe: TribeGaul,
		Unprotected:   Resources{Lumber: 500, Clay: 500, Iron: 500, Crop: 500},
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if !res.Bounty.IsZero() {
		t.Fatalf("普通进攻不应产生战利品: %+v", res.Bounty)
	}
}

func TestResolveBattle_攻城锤削减城墙等级(t *testing.T) {
	units := TroopSet{}
	units[2] = 1000 // Axeman
	units[6] = 50   // Ram
	in := BattleInput{
		Mode:          ModeNormal,
		Attacker:      NewArmy(1, 1, 1, TribeTeuton, units, SmithyLevels{}),
		AttackerPop:   100,
		Defenders:     []*Army{NewArmy(2, 2, 2, TribeRoman, legionnaires(10), SmithyLevels{})},
		DefenderPop:   100,
		DefenderTribe: TribeRoman,
		WallLevel:     10,
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if res.WallDamage == nil {
		t.Fatalf("攻城锤突破后应产生城墙破坏")
	}
	if res.WallDamage.After >= res.WallDamage.Before {
		t.Fatalf("城墙等级应下降: %+v", res.WallDamage)
	}
	if res.WallDamage.Slot != SlotWall {
		t.Fatalf("城墙破坏应落在城墙槽位，得到 %d", res.WallDamage.Slot)
	}
}

func TestResolveBattle_催化双目标各分一半破坏(t *testing.T) {
	units := TroopSet{}
	units[2] = 1000 // Axeman
	units[7] = 100  // Catapult
	in := BattleInput{
		Mode:          ModeNormal,
		Attacker:      NewArmy(1, 1, 1, TribeTeuton, units, SmithyLevels{}),
		AttackerPop:   100,
		DefenderTribe: TribeGaul,
		CatapultTargets: []SiegeTarget{
			{Slot: 20, Level: 10},
			{Slot: 21, Level: 10},
		},
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if len(res.CatapultDamage) != 2 {
		t.Fatalf("应有两条破坏记录，得到 %d", len(res.CatapultDamage))
	}
	for _, d := range res.CatapultDamage {
		if d.After >= d.Before {
			t.Fatalf("目标建筑等级应下降: %+v", d)
		}
	}
	if res.CatapultDamage[0].After != res.CatapultDamage[1].After {
		t.Fatalf("同级双目标破坏应对称: %+v", res.CatapultDamage)
	}
}

func TestResolveBattle_侦察不造成兵力损失(t *testing.T) {
	scouts := TroopSet{}
	scouts[3] = 5 // Equites Legati
	defUnits := TroopSet{}
	defUnits[3] = 2 // Teuton Scout
	in := BattleInput{
		Mode:          ModeScout,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, scouts, SmithyLevels{}),
		AttackerPop:   100,
		Defenders:     []*Army{NewArmy(2, 2, 2, TribeTeuton, defUnits, SmithyLevels{})},
		DefenderPop:   100,
		DefenderTribe: TribeTeuton,
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if res.Scout == nil {
		t.Fatalf("侦察模式应返回侦察结果")
	}
	if !res.Scout.AttackerWins {
		t.Fatalf("5 侦察兵对 2 守军应得手: 攻 %v 防 %v", res.AttackValue, res.DefenseValue)
	}
	if !res.Scout.Detected {
		t.Fatalf("守方有侦察兵时应察觉")
	}
	if res.Attacker.Losses.Total() != 0 || res.DefenderLossesTotal() != 0 {
		t.Fatalf("侦察不应产生兵力损失: %+v", res)
	}
}

func TestResolveBattle_无守方侦察兵则不察觉且必得手(t *testing.T) {
	scouts := TroopSet{}
	scouts[3] = 1
	in := BattleInput{
		Mode:          ModeScout,
		Attacker:      NewArmy(1, 1, 1, TribeRoman, scouts, SmithyLevels{}),
		AttackerPop:   100,
		Defenders:     []*Army{NewArmy(2, 2, 2, TribeTeuton, macemen(100), SmithyLevels{})},
		DefenderPop:   100,
		DefenderTribe: TribeTeuton,
	}
	res, err := ResolveBattle(in)
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if !res.Scout.AttackerWins {
		t.Fatalf("守方没有侦察兵时侦察必得手")
	}
	if res.Scout.Detected {
		t.Fatalf("守方没有侦察兵时不应察觉")
	}
}

func TestSigma_分段连续且单调(t *testing.T) {
	if got := sigma(1.0); got != 0.5 {
		t.Fatalf("sigma(1) 应为 0.5，得到 %v", got)
	}
	prev := 0.0
	for _, x := range []float64{0.1, 0.5, 0.9, 1.0, 1.5, 3.0, 10.0} {
		got := sigma(x)
		if got < prev {
			t.Fatalf("sigma 应单调不减，在 x=%v 处回落: %v < %v", x, got, prev)
		}
		prev = got
	}
}

func TestComputeBounty_比例分摊且总量精确(t *testing.T) {
	b := computeBounty(1000, Resources{Lumber: 4000, Clay: 2000, Iron: 1000, Crop: 1000})
	if b.Total() != 1000 {
		t.Fatalf("战利品总量应等于运力 1000，得到 %d", b.Total())
	}
	if b.Lumber < b.Clay || b.Clay < b.Iron {
		t.Fatalf("战利品应按库存比例递减: %+v", b)
	}
}
