package memory

import (
	"context"
	"sort"
	"time"

	"AgeOfTribes/internal/app"
	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/job"
)

// Provider 实现 app.UnitOfWorkProvider。
type Provider struct {
	store *Store
}

func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) Begin(ctx context.Context) (app.UnitOfWork, error) {
	return &unitOfWork{store: p.store}, nil
}

// unitOfWork 缓冲写操作，Commit 时在锁内统一落账。
// 读取不做快照隔离：处理器本来就要对最新状态做校验。
type unitOfWork struct {
	store   *Store
	pending []func(s *Store)
	done    bool
}

func (u *unitOfWork) Players() app.PlayerRepo   { return playerRepo{u} }
func (u *unitOfWork) Villages() app.VillageRepo { return villageRepo{u} }
func (u *unitOfWork) Armies() app.ArmyRepo      { return armyRepo{u} }
func (u *unitOfWork) Heroes() app.HeroRepo      { return heroRepo{u} }
func (u *unitOfWork) Jobs() app.JobRepo         { return jobRepo{u} }

func (u *unitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, apply := range u.pending {
		apply(u.store)
	}
	u.pending = nil
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.pending = nil
	return nil
}

type playerRepo struct{ u *unitOfWork }

func (r playerRepo) Get(ctx context.Context, id int64) (*game.Player, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	p, ok := r.u.store.players[id]
	if !ok {
		return nil, game.ErrPlayerNotFound
	}
	return copyPlayer(p), nil
}

type villageRepo struct{ u *unitOfWork }

func (r villageRepo) Get(ctx context.Context, id int64) (*game.Village, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	v, ok := r.u.store.villages[id]
	if !ok {
		return nil, game.ErrVillageNotFound
	}
	return copyVillage(v), nil
}

func (r villageRepo) Save(ctx context.Context, v *game.Village) error {
	cp := copyVillage(v)
	r.u.pending = append(r.u.pending, func(s *Store) { s.villages[cp.ID] = cp })
	return nil
}

type armyRepo struct{ u *unitOfWork }

func (r armyRepo) Get(ctx context.Context, id int64) (*game.Army, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	a, ok := r.u.store.armies[id]
	if !ok {
		return nil, game.ErrArmyNotFound
	}
	return copyArmy(a), nil
}

func (r armyRepo) HomeArmy(ctx context.Context, villageID int64) (*game.Army, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	for _, a := range r.u.store.armies {
		if a.VillageID == villageID && a.Location == nil && !a.Transit {
			return copyArmy(a), nil
		}
	}
	return nil, game.ErrArmyNotFound
}

func (r armyRepo) Garrison(ctx context.Context, villageID int64) ([]*game.Army, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	var out []*game.Army
	for _, a := range r.u.store.armies {
		if garrisoned(a, villageID) {
			out = append(out, copyArmy(a))
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r armyRepo) Save(ctx context.Context, a *game.Army) error {
	cp := copyArmy(a)
	r.u.pending = append(r.u.pending, func(s *Store) { s.armies[cp.ID] = cp })
	return nil
}

func (r armyRepo) Delete(ctx context.Context, id int64) error {
	r.u.pending = append(r.u.pending, func(s *Store) { delete(s.armies, id) })
	return nil
}

type heroRepo struct{ u *unitOfWork }

func (r heroRepo) GetByPlayer(ctx context.Context, playerID int64) (*game.Hero, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	for _, h := range r.u.store.heroes {
		if h.PlayerID == playerID {
			return copyHero(h), nil
		}
	}
	return nil, game.ErrHeroNotFound
}

func (r heroRepo) Save(ctx context.Context, h *game.Hero) error {
	cp := copyHero(h)
	r.u.pending = append(r.u.pending, func(s *Store) { s.heroes[cp.ID] = cp })
	return nil
}

type jobRepo struct{ u *unitOfWork }

func (r jobRepo) Get(ctx context.Context, id int64) (*job.Job, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	j, ok := r.u.store.jobs[id]
	if !ok {
		return nil, game.ErrJobNotFound
	}
	return copyJob(j), nil
}

func (r jobRepo) Add(ctx context.Context, j *job.Job) error {
	cp := copyJob(j)
	r.u.pending = append(r.u.pending, func(s *Store) { s.jobs[cp.ID] = cp })
	return nil
}

func (r jobRepo) Save(ctx context.Context, j *job.Job) error {
	cp := copyJob(j)
	r.u.pending = append(r.u.pending, func(s *Store) { s.jobs[cp.ID] = cp })
	return nil
}

// ClaimDue 认领立即生效，不等 Commit：与行级锁认领的“认领即持有”语义一致。
func (r jobRepo) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*job.Job, error) {
	return r.u.store.claimDue(now, lease, limit), nil
}

func (r jobRepo) ListByVillage(ctx context.Context, villageID int64, types ...job.TaskType) ([]*job.Job, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	var out []*job.Job
	for _, j := range r.u.store.jobs {
		if j.VillageID != villageID {
			continue
		}
		if len(types) > 0 {
			match := false
			for _, t := range types {
				if j.Type == t {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, copyJob(j))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].DueAt.Before(out[k].DueAt) })
	return out, nil
}
