// Package memory 提供内存实现的工作单元与仓库，用于测试和单机试跑。
// 读取返回副本，写入在 Commit 时统一落账；任务认领立即生效，
// 与行级锁认领的可见性语义保持一致。
package memory

import (
	"sort"
	"sync"
	"time"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/job"
)

type Store struct {
	mu       sync.Mutex
	players  map[int64]*game.Player
	villages map[int64]*game.Village
	armies   map[int64]*game.Army
	heroes   map[int64]*game.Hero
	jobs     map[int64]*job.Job
}

func NewStore() *Store {
	return &Store{
		players:  make(map[int64]*game.Player),
		villages: make(map[int64]*game.Village),
		armies:   make(map[int64]*game.Army),
		heroes:   make(map[int64]*game.Hero),
		jobs:     make(map[int64]*job.Job),
	}
}

// 预置数据，测试装配用。

func (s *Store) PutPlayer(p *game.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = copyPlayer(p)
}

func (s *Store) PutVillage(v *game.Village) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.villages[v.ID] = copyVillage(v)
}

func (s *Store) PutArmy(a *game.Army) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armies[a.ID] = copyArmy(a)
}

func (s *Store) PutHero(h *game.Hero) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heroes[h.ID] = copyHero(h)
}

func (s *Store) PutJob(j *job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = copyJob(j)
}

// 快照读取，断言用。

func (s *Store) Village(id int64) (*game.Village, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.villages[id]
	if !ok {
		return nil, false
	}
	return copyVillage(v), true
}

func (s *Store) Army(id int64) (*game.Army, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.armies[id]
	if !ok {
		return nil, false
	}
	return copyArmy(a), true
}

func (s *Store) Hero(id int64) (*game.Hero, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.heroes[id]
	if !ok {
		return nil, false
	}
	return copyHero(h), true
}

func (s *Store) Job(id int64) (*job.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	return copyJob(j), true
}

func (s *Store) Jobs() []*job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*job.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, copyJob(j))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (s *Store) ArmiesAt(villageID int64) []*game.Army {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*game.Army
	for _, a := range s.armies {
		if garrisoned(a, villageID) {
			out = append(out, copyArmy(a))
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// garrisoned 本村驻军或已抵达的援军，行军途中不算。
func garrisoned(a *game.Army, villageID int64) bool {
	if a.Transit {
		return false
	}
	if a.Location == nil {
		return a.VillageID == villageID
	}
	return *a.Location == villageID
}

// claimDue 到期认领：最早到期优先，认领即转 Processing。
// 租约超时的 Processing 行一并回收重新交付。
func (s *Store) claimDue(now time.Time, lease time.Duration, limit int) []*job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*job.Job
	for _, j := range s.jobs {
		if (j.Status == job.StatusPending && j.Due(now)) || j.ClaimExpired(now, lease) {
			due = append(due, j)
		}
	}
	sort.Slice(due, func(i, k int) bool {
		if due[i].DueAt.Equal(due[k].DueAt) {
			return due[i].ID < due[k].ID
		}
		return due[i].DueAt.Before(due[k].DueAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	out := make([]*job.Job, 0, len(due))
	for _, j := range due {
		j.Claim(now)
		out = append(out, copyJob(j))
	}
	return out
}

func copyPlayer(p *game.Player) *game.Player {
	cp := *p
	return &cp
}

func copyVillage(v *game.Village) *game.Village {
	cp := *v
	cp.Buildings = append([]game.Building(nil), v.Buildings...)
	return &cp
}

func copyArmy(a *game.Army) *game.Army {
	cp := *a
	if a.Location != nil {
		loc := *a.Location
		cp.Location = &loc
	}
	if a.Hero != nil {
		h := *a.Hero
		cp.Hero = &h
	}
	return &cp
}

func copyHero(h *game.Hero) *game.Hero {
	cp := *h
	return &cp
}

func copyJob(j *job.Job) *job.Job {
	cp := *j
	cp.Payload = append([]byte(nil), j.Payload...)
	return &cp
}
