package game

// TroopCount 是每个阵营兵种表的格数。
const TroopCount = 10

// TroopSet 是按兵种表下标计数的兵力向量。
type TroopSet [TroopCount]uint32

func (s TroopSet) IsZero() bool {
	for _, n := range s {
		if n > 0 {
			return false
		}
	}
	return true
}

func (s TroopSet) Total() uint32 {
	var total uint32
	for _, n := range s {
		total += n
	}
	return total
}

// Covers 判断每一项都不少于 o。
func (s TroopSet) Covers(o TroopSet) bool {
	for i := range s {
		if s[i] < o[i] {
			return false
		}
	}
	return true
}

func (s TroopSet) Add(o TroopSet) TroopSet {
	var out TroopSet
	for i := range s {
		out[i] = s[i] + o[i]
	}
	return out
}

// Sub 逐项相减。调用方必须先用 Covers 校验，不足时该项落在 0。
func (s TroopSet) Sub(o TroopSet) TroopSet {
	var out TroopSet
	for i := range s {
		if s[i] > o[i] {
			out[i] = s[i] - o[i]
		}
	}
	return out
}

// SmithyLevels 是按兵种表下标的铁匠铺强化等级。
type SmithyLevels [TroopCount]uint8

// ResearchSet 是按兵种表下标的学院研发标记。
type ResearchSet [TroopCount]bool
