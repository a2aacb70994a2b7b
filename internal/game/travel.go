package game

import "math"

// Position 是环形地图上的坐标，取值范围 [-worldSize, worldSize]。
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance 计算环形地图上的欧氏距离（取整）。
// 坐标差超过半径时从另一侧绕行，折算量为 2*worldSize+1。
func (p Position) Distance(o Position, worldSize int) uint32 {
	xDiff := abs(p.X - o.X)
	yDiff := abs(p.Y - o.Y)

	if xDiff > worldSize {
		xDiff = (2*worldSize + 1) - xDiff
	}
	if yDiff > worldSize {
		yDiff = (2*worldSize + 1) - yDiff
	}

	return uint32(math.Sqrt(float64(xDiff*xDiff + yDiff*yDiff)))
}

// TravelTimeSecs 按速度（格/小时）换算行军秒数，再除以世界倍速，向下取整。
func (p Position) TravelTimeSecs(dest Position, speed uint32, worldSize int, serverSpeed int) uint32 {
	if speed == 0 || serverSpeed <= 0 {
		return 0
	}
	distance := p.Distance(dest, worldSize)
	secs := float64(distance) / float64(speed) * 3600.0
	return uint32(math.Floor(secs / float64(serverSpeed)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
