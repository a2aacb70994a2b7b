package game

import "testing"

func TestDistance_环形地图边缘相邻(t *testing.T) {
	a := Position{X: 100, Y: 0}
	b := Position{X: -100, Y: 0}
	if got := a.Distance(b, 100); got != 1 {
		t.Fatalf("地图两端应绕行相邻，距离 1，得到 %d", got)
	}
}

func TestDistance_平面欧氏距离取整(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 3, Y: 4}
	if got := a.Distance(b, 100); got != 5 {
		t.Fatalf("(0,0)-(3,4) 距离应为 5，得到 %d", got)
	}
	c := Position{X: 1, Y: 1}
	if got := a.Distance(c, 100); got != 1 {
		t.Fatalf("√2 应向下取整为 1，得到 %d", got)
	}
}

func TestTravelTimeSecs_按速度与倍速换算(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 10, Y: 0}
	// 10 格 ÷ 12 格/时 = 3000 秒
	if got := a.TravelTimeSecs(b, 12, 100, 1); got != 3000 {
		t.Fatalf("1 倍速行军应为 3000 秒，得到 %d", got)
	}
	if got := a.TravelTimeSecs(b, 12, 100, 3); got != 1000 {
		t.Fatalf("3 倍速行军应为 1000 秒，得到 %d", got)
	}
	if got := a.TravelTimeSecs(b, 0, 100, 1); got != 0 {
		t.Fatalf("零速度应返回 0，得到 %d", got)
	}
}
