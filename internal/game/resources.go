package game

// Resources 是四种资源的一组数量，顺序固定：木材、粘土、铁、粮食。
type Resources struct {
	Lumber uint32 `json:"lumber"`
	Clay   uint32 `json:"clay"`
	Iron   uint32 `json:"iron"`
	Crop   uint32 `json:"crop"`
}

func (r Resources) Total() uint64 {
	return uint64(r.Lumber) + uint64(r.Clay) + uint64(r.Iron) + uint64(r.Crop)
}

func (r Resources) IsZero() bool {
	return r.Lumber == 0 && r.Clay == 0 && r.Iron == 0 && r.Crop == 0
}

func (r Resources) Add(o Resources) Resources {
	return Resources{
		Lumber: r.Lumber + o.Lumber,
		Clay:   r.Clay + o.Clay,
		Iron:   r.Iron + o.Iron,
		Crop:   r.Crop + o.Crop,
	}
}

// Sub 逐项相减，不足的项落在 0。
func (r Resources) Sub(o Resources) Resources {
	return Resources{
		Lumber: subFloor(r.Lumber, o.Lumber),
		Clay:   subFloor(r.Clay, o.Clay),
		Iron:   subFloor(r.Iron, o.Iron),
		Crop:   subFloor(r.Crop, o.Crop),
	}
}

// Missing 返回 cost 相对 r 的缺口（够用的项为 0）。
func (r Resources) Missing(cost Resources) Resources {
	return cost.Sub(r)
}

func (r Resources) Covers(cost Resources) bool {
	return r.Lumber >= cost.Lumber && r.Clay >= cost.Clay && r.Iron >= cost.Iron && r.Crop >= cost.Crop
}

func (r Resources) Scale(n uint32) Resources {
	return Resources{
		Lumber: r.Lumber * n,
		Clay:   r.Clay * n,
		Iron:   r.Iron * n,
		Crop:   r.Crop * n,
	}
}

func subFloor(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}
